package handlers

import (
	"github.com/nadimtuhin/url-campaign-analytics/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter, templatePath string) *gin.Engine {
	r := gin.Default()

	if templatePath != "" {
		r.LoadHTMLGlob(templatePath)
	}

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/shorten", h.ShortenURL)
		api.POST("/clicks", h.IngestClick)

		api.GET("/campaigns", h.ListCampaigns)
		api.POST("/campaigns", h.CreateCampaign)
		api.GET("/campaigns/:id", h.GetCampaignAnalytics)
		api.PUT("/campaigns/:id", h.UpdateCampaign)
		api.DELETE("/campaigns/:id", h.DeleteCampaign)

		api.PUT("/links/:id", h.UpdateLink)
		api.DELETE("/links/:id", h.DeleteLink)
	}

	// Catch-all Redirects
	r.GET("/:short_code", h.RedirectToURL)
	r.GET("/:short_code/qr", h.ShortCodeQR)

	return r
}
