package handlers

import (
	"net/http"
	"time"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"

	"github.com/gin-gonic/gin"
)

type IngestClickRequest struct {
	LinkID    string  `json:"linkId"`
	UserAgent string  `json:"userAgent,omitempty"`
	Referrer  string  `json:"referrer,omitempty"`
	IPAddress string  `json:"ipAddress,omitempty"`
	UTMSource *string `json:"utmSource,omitempty"`
}

// IngestClick accepts an internal click event and returns before it is
// durably written. Absent fields are normalized to "N/A" by the recorder.
func (h *Handler) IngestClick(c *gin.Context) {
	var req IngestClickRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LinkID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Link ID is required"})
		return
	}

	h.clickService.RecordClickAsync(models.Click{
		LinkID:    req.LinkID,
		CreatedAt: time.Now(),
		UserAgent: req.UserAgent,
		Referrer:  req.Referrer,
		IPAddress: req.IPAddress,
		UTMSource: req.UTMSource,
	})

	c.JSON(http.StatusAccepted, gin.H{"success": true})
}
