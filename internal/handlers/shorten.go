package handlers

import (
	"net/http"

	"github.com/nadimtuhin/url-campaign-analytics/internal/services"

	"github.com/gin-gonic/gin"
)

type ShortenRequest struct {
	URL                string  `json:"url" binding:"required"`
	CampaignID         *string `json:"campaignId,omitempty"`
	AndroidAppURI      *string `json:"androidAppUri,omitempty"`
	AndroidFallbackURL *string `json:"androidFallbackUrl,omitempty"`
	IOSAppURI          *string `json:"iosAppUri,omitempty"`
	IOSFallbackURL     *string `json:"iosFallbackUrl,omitempty"`
}

// ShortenURL handles the API request to shorten a URL
func (h *Handler) ShortenURL(c *gin.Context) {
	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid URL is required"})
		return
	}

	dto := services.ShortenDTO{
		OriginalURL:        req.URL,
		CampaignID:         req.CampaignID,
		AndroidAppURI:      req.AndroidAppURI,
		AndroidFallbackURL: req.AndroidFallbackURL,
		IOSAppURI:          req.IOSAppURI,
		IOSFallbackURL:     req.IOSFallbackURL,
		IPAddress:          c.ClientIP(),
	}

	link, err := h.shortenerService.CreateShortLink(dto)
	if err != nil {
		h.respondError(c, err)
		return
	}

	baseURL := h.cfg.BaseURL
	if baseURL == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		baseURL = scheme + "://" + c.Request.Host
	}

	c.JSON(http.StatusCreated, gin.H{
		"shortUrl": baseURL + "/" + link.ShortCode,
	})
}
