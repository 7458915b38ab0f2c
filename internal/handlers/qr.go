package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ShortCodeQR renders a QR code PNG pointing at the short URL.
func (h *Handler) ShortCodeQR(c *gin.Context) {
	shortCode := c.Param("short_code")

	if _, err := h.store.FindLinkByShortCode(shortCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		h.respondError(c, err)
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))

	baseURL := h.cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://" + c.Request.Host
	}

	png, err := h.qrService.GeneratePNG(baseURL+"/"+shortCode, size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
