package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"
	"github.com/nadimtuhin/url-campaign-analytics/internal/repository"

	"gorm.io/gorm"
)

type CampaignDTO struct {
	Name        string
	Description *string
	IPAddress   string
}

type UpdateCampaignDTO struct {
	Name        *string
	Description *string
}

type CampaignService struct {
	store        repository.Store
	logger       *slog.Logger
	auditService *AuditService
}

func NewCampaignService(store repository.Store, logger *slog.Logger, auditService *AuditService) *CampaignService {
	return &CampaignService{
		store:        store,
		logger:       logger,
		auditService: auditService,
	}
}

func (s *CampaignService) CreateCampaign(dto CampaignDTO) (*models.Campaign, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, NewValidationError("Campaign name is required")
	}

	campaign := &models.Campaign{
		Name:        name,
		Description: trimOptional(dto.Description),
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateCampaign(campaign); err != nil {
		return nil, err
	}

	s.auditService.LogAction("CREATE_CAMPAIGN", campaign.ID, map[string]interface{}{
		"name": campaign.Name,
	}, dto.IPAddress)

	return campaign, nil
}

func (s *CampaignService) ListCampaigns() ([]models.Campaign, error) {
	return s.store.ListCampaigns()
}

func (s *CampaignService) UpdateCampaign(id string, dto UpdateCampaignDTO) (*models.Campaign, error) {
	if dto.Name == nil && dto.Description == nil {
		return nil, NewValidationError("No update data provided")
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return nil, NewValidationError("Campaign name cannot be empty")
	}

	campaign, err := s.store.FindCampaign(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if dto.Name != nil {
		campaign.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Description != nil {
		campaign.Description = trimOptional(dto.Description)
	}

	if err := s.store.UpdateCampaign(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// DeleteCampaign cascades clicks, then links, then the campaign itself in a
// single transaction. Nothing is reported deleted unless all three tiers
// went through.
func (s *CampaignService) DeleteCampaign(id string, ip string) error {
	err := s.store.DeleteCampaignCascade(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	s.auditService.LogAction("DELETE_CAMPAIGN", id, nil, ip)
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
