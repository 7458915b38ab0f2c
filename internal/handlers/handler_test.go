package handlers

import (
	"log/slog"
	"os"
	"testing"

	"github.com/nadimtuhin/url-campaign-analytics/internal/config"
	"github.com/nadimtuhin/url-campaign-analytics/internal/models"
	"github.com/nadimtuhin/url-campaign-analytics/internal/repository"
	"github.com/nadimtuhin/url-campaign-analytics/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestHandler(t *testing.T) (*Handler, repository.Store, *services.ClickService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Campaign{}, &models.Link{}, &models.Click{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{}
	store := repository.NewStore(db)

	audit := services.NewAuditService(store, logger)
	clicks := services.NewClickService(store, logger, nil)
	resolver := services.NewResolverService(store, nil, logger, clicks)
	shortener := services.NewShortenerService(store, logger, audit, 6)
	campaigns := services.NewCampaignService(store, logger, audit)
	analytics := services.NewAnalyticsService(store, logger)
	qr := services.NewQRService()

	h := NewHandler(cfg, logger, store, resolver, shortener, campaigns, analytics, clicks, qr)
	return h, store, clicks
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil, "../../web/templates/*")
}

func strPtr(s string) *string {
	return &s
}
