package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nadimtuhin/url-campaign-analytics/internal/config"
	"github.com/nadimtuhin/url-campaign-analytics/internal/repository"
	"github.com/nadimtuhin/url-campaign-analytics/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cfg              config.Config
	logger           *slog.Logger
	store            repository.Store
	resolverService  *services.ResolverService
	shortenerService *services.ShortenerService
	campaignService  *services.CampaignService
	analyticsService *services.AnalyticsService
	clickService     *services.ClickService
	qrService        *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	store repository.Store,
	resolverService *services.ResolverService,
	shortenerService *services.ShortenerService,
	campaignService *services.CampaignService,
	analyticsService *services.AnalyticsService,
	clickService *services.ClickService,
	qrService *services.QRService,
) *Handler {
	return &Handler{
		cfg:              cfg,
		logger:           logger,
		store:            store,
		resolverService:  resolverService,
		shortenerService: shortenerService,
		campaignService:  campaignService,
		analyticsService: analyticsService,
		clickService:     clickService,
		qrService:        qrService,
	}
}

// respondError maps the service error taxonomy onto the uniform
// {"error": ...} body. Unexpected failures never leak internals.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrCodeSpaceExhausted):
		h.logger.Error("Short code allocation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate unique short code"})
	default:
		h.logger.Error("Unexpected error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
