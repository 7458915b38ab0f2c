package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nadimtuhin/url-campaign-analytics/internal/services"

	"github.com/gin-gonic/gin"
)

type UpdateLinkRequest struct {
	OriginalURL        *string          `json:"originalUrl,omitempty"`
	CampaignID         *json.RawMessage `json:"campaignId,omitempty"`
	AndroidAppURI      *string          `json:"androidAppUri,omitempty"`
	AndroidFallbackURL *string          `json:"androidFallbackUrl,omitempty"`
	IOSAppURI          *string          `json:"iosAppUri,omitempty"`
	IOSFallbackURL     *string          `json:"iosFallbackUrl,omitempty"`
}

// UpdateLink applies a partial link update. campaignId accepts a string to
// re-assign, or an explicit null to detach the link from its campaign.
func (h *Handler) UpdateLink(c *gin.Context) {
	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	dto := services.UpdateLinkDTO{
		OriginalURL:        req.OriginalURL,
		AndroidAppURI:      req.AndroidAppURI,
		AndroidFallbackURL: req.AndroidFallbackURL,
		IOSAppURI:          req.IOSAppURI,
		IOSFallbackURL:     req.IOSFallbackURL,
	}

	if req.CampaignID != nil {
		dto.CampaignIDSet = true
		var campaignID *string
		if err := json.Unmarshal(*req.CampaignID, &campaignID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Campaign ID format"})
			return
		}
		dto.CampaignID = campaignID
	}

	link, err := h.shortenerService.UpdateLink(c.Param("id"), dto)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

func (h *Handler) DeleteLink(c *gin.Context) {
	if err := h.shortenerService.DeleteLink(c.Param("id"), c.ClientIP()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
