package handlers

import (
	"net/http"
	"strconv"

	"github.com/nadimtuhin/url-campaign-analytics/internal/services"

	"github.com/gin-gonic/gin"
)

type CampaignRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type UpdateCampaignRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (h *Handler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.campaignService.ListCampaigns()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h *Handler) CreateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campaign name is required"})
		return
	}

	campaign, err := h.campaignService.CreateCampaign(services.CampaignDTO{
		Name:        req.Name,
		Description: req.Description,
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// GetCampaignAnalytics serves the dashboard payload: campaign metadata, its
// links with click counts, and one page of clicks with pagination metadata
// and page-window chart buckets.
func (h *Handler) GetCampaignAnalytics(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))

	analytics, err := h.analyticsService.GetCampaignAnalytics(c.Param("id"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaign": gin.H{
			"id":          analytics.Campaign.ID,
			"name":        analytics.Campaign.Name,
			"description": analytics.Campaign.Description,
			"createdAt":   analytics.Campaign.CreatedAt,
			"links":       analytics.Links,
		},
		"clicks": gin.H{
			"data":       analytics.Clicks,
			"pagination": analytics.Pagination,
			"byDate":     analytics.ByDate,
			"bySource":   analytics.BySource,
		},
	})
}

func (h *Handler) UpdateCampaign(c *gin.Context) {
	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(c.Param("id"), services.UpdateCampaignDTO{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

func (h *Handler) DeleteCampaign(c *gin.Context) {
	if err := h.campaignService.DeleteCampaign(c.Param("id"), c.ClientIP()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
