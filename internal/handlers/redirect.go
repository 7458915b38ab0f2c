package handlers

import (
	"errors"
	"net/http"

	"github.com/nadimtuhin/url-campaign-analytics/internal/services"

	"github.com/gin-gonic/gin"
)

// RedirectToURL resolves a short code and issues the redirect. The lookup is
// the only blocking operation on this path; click recording happens on the
// recorder's worker and cannot delay or fail the response.
func (h *Handler) RedirectToURL(c *gin.Context) {
	shortCode := c.Param("short_code")

	reqCtx := services.RequestContext{
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
		IPAddress: c.ClientIP(),
		UTMSource: c.Query("utm_source"),
	}

	decision, err := h.resolverService.Resolve(c.Request.Context(), shortCode, reqCtx)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.HTML(http.StatusNotFound, "404.html", gin.H{"shortCode": shortCode})
			return
		}
		h.logger.Error("Redirect resolution failed", "short_code", shortCode, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.Redirect(http.StatusFound, decision.TargetURL)
}
