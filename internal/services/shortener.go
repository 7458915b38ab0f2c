package services

import (
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"
	"github.com/nadimtuhin/url-campaign-analytics/internal/repository"
	"github.com/nadimtuhin/url-campaign-analytics/pkg/utils"

	"gorm.io/gorm"
)

// maxCodeAttempts bounds the allocation loop so a saturated code space fails
// fast instead of looping forever.
const maxCodeAttempts = 5

type ShortenDTO struct {
	OriginalURL        string
	CampaignID         *string
	AndroidAppURI      *string
	AndroidFallbackURL *string
	IOSAppURI          *string
	IOSFallbackURL     *string
	IPAddress          string // for the audit trail
}

type UpdateLinkDTO struct {
	OriginalURL        *string
	CampaignID         *string
	CampaignIDSet      bool // distinguishes "unset campaign" from "leave alone"
	AndroidAppURI      *string
	AndroidFallbackURL *string
	IOSAppURI          *string
	IOSFallbackURL     *string
}

type ShortenerService struct {
	store         repository.Store
	logger        *slog.Logger
	auditService  *AuditService
	codeLength    int
	codeGenerator func(int) string
}

func NewShortenerService(store repository.Store, logger *slog.Logger, auditService *AuditService, codeLength int) *ShortenerService {
	if codeLength <= 0 {
		codeLength = utils.DefaultCodeLength
	}
	return &ShortenerService{
		store:         store,
		logger:        logger,
		auditService:  auditService,
		codeLength:    codeLength,
		codeGenerator: utils.GenerateShortCode,
	}
}

// CreateShortLink validates the destination, allocates a collision-free code
// and persists the link. The generator only promises statistical uniqueness;
// the loop re-checks the store and treats a storage uniqueness violation as
// one more collision, since two concurrent creates can pass the exists check
// with the same candidate.
func (s *ShortenerService) CreateShortLink(dto ShortenDTO) (*models.Link, error) {
	if !isAbsoluteURL(dto.OriginalURL) {
		return nil, NewValidationError("Valid URL is required")
	}

	if dto.CampaignID != nil && *dto.CampaignID != "" {
		if _, err := s.store.FindCampaign(*dto.CampaignID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	} else {
		dto.CampaignID = nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		shortCode := s.codeGenerator(s.codeLength)

		exists, err := s.store.ShortCodeExists(shortCode)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		link := &models.Link{
			ShortCode:          shortCode,
			OriginalURL:        dto.OriginalURL,
			CampaignID:         dto.CampaignID,
			AndroidAppURI:      normalizeOptional(dto.AndroidAppURI),
			AndroidFallbackURL: normalizeOptional(dto.AndroidFallbackURL),
			IOSAppURI:          normalizeOptional(dto.IOSAppURI),
			IOSFallbackURL:     normalizeOptional(dto.IOSFallbackURL),
			CreatedAt:          time.Now(),
		}

		err = s.store.CreateLink(link)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.auditService.LogAction("CREATE_LINK", link.ShortCode, map[string]interface{}{
			"original_url": dto.OriginalURL,
		}, dto.IPAddress)

		return link, nil
	}

	s.logger.Error("Short code space exhausted", "length", s.codeLength, "attempts", maxCodeAttempts)
	return nil, ErrCodeSpaceExhausted
}

// UpdateLink applies a partial update. The short code is immutable and never
// touched here.
func (s *ShortenerService) UpdateLink(id string, dto UpdateLinkDTO) (*models.Link, error) {
	link, err := s.store.FindLink(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if dto.OriginalURL != nil {
		if !isAbsoluteURL(*dto.OriginalURL) {
			return nil, NewValidationError("Invalid Original URL format")
		}
		link.OriginalURL = *dto.OriginalURL
	}

	if dto.CampaignIDSet {
		if dto.CampaignID != nil && *dto.CampaignID != "" {
			if _, err := s.store.FindCampaign(*dto.CampaignID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrNotFound
				}
				return nil, err
			}
			link.CampaignID = dto.CampaignID
		} else {
			link.CampaignID = nil
		}
	}

	if dto.AndroidAppURI != nil {
		link.AndroidAppURI = normalizeOptional(dto.AndroidAppURI)
	}
	if dto.AndroidFallbackURL != nil {
		link.AndroidFallbackURL = normalizeOptional(dto.AndroidFallbackURL)
	}
	if dto.IOSAppURI != nil {
		link.IOSAppURI = normalizeOptional(dto.IOSAppURI)
	}
	if dto.IOSFallbackURL != nil {
		link.IOSFallbackURL = normalizeOptional(dto.IOSFallbackURL)
	}

	if err := s.store.UpdateLink(link); err != nil {
		return nil, err
	}
	return link, nil
}

// DeleteLink removes the link's clicks first, then the link, as one unit.
func (s *ShortenerService) DeleteLink(id string, ip string) error {
	err := s.store.DeleteLinkCascade(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	s.auditService.LogAction("DELETE_LINK", id, nil, ip)
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// normalizeOptional maps empty strings to nil so the store never keeps an
// empty targeting field that would shadow the original URL.
func normalizeOptional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
