package repository

import (
	"github.com/nadimtuhin/url-campaign-analytics/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinkWithCount is a link row joined with its total click count, as served
// on the campaign dashboard.
type LinkWithCount struct {
	models.Link
	ClickCount int64 `json:"clickCount"`
}

// CampaignClick is a click row joined with the short code it was recorded
// against.
type CampaignClick struct {
	models.Click
	ShortCode string `json:"shortCode"`
}

// Store is the persistence boundary the services operate against. Lookups
// return gorm.ErrRecordNotFound on a miss; CreateLink returns
// gorm.ErrDuplicatedKey when the short code is already taken. The cascade
// deletes are transactional: clicks, then links, then the owner, applied as
// one unit or not at all. Nothing else may delete a link that still owns
// clicks.
type Store interface {
	CreateLink(link *models.Link) error
	FindLink(id string) (*models.Link, error)
	FindLinkByShortCode(code string) (*models.Link, error)
	ShortCodeExists(code string) (bool, error)
	UpdateLink(link *models.Link) error
	DeleteLinkCascade(id string) error

	CreateCampaign(campaign *models.Campaign) error
	FindCampaign(id string) (*models.Campaign, error)
	ListCampaigns() ([]models.Campaign, error)
	UpdateCampaign(campaign *models.Campaign) error
	DeleteCampaignCascade(id string) error

	CreateClick(click *models.Click) error
	CreateAuditLog(entry *models.AuditLog) error

	LinksWithClickCounts(campaignID string) ([]LinkWithCount, error)
	ClicksForCampaign(campaignID string, offset, limit int) ([]CampaignClick, error)
	CountClicksForCampaign(campaignID string) (int64, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateLink(link *models.Link) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	return s.db.Create(link).Error
}

func (s *gormStore) FindLink(id string) (*models.Link, error) {
	var link models.Link
	if err := s.db.First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *gormStore) FindLinkByShortCode(code string) (*models.Link, error) {
	var link models.Link
	if err := s.db.First(&link, "short_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *gormStore) ShortCodeExists(code string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Link{}).Where("short_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *gormStore) UpdateLink(link *models.Link) error {
	return s.db.Save(link).Error
}

func (s *gormStore) DeleteLinkCascade(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", id).Delete(&models.Click{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Link{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (s *gormStore) CreateCampaign(campaign *models.Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}
	return s.db.Create(campaign).Error
}

func (s *gormStore) FindCampaign(id string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := s.db.First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (s *gormStore) ListCampaigns() ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := s.db.Order("created_at desc").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (s *gormStore) UpdateCampaign(campaign *models.Campaign) error {
	return s.db.Save(campaign).Error
}

// DeleteCampaignCascade removes all clicks under the campaign's links, then
// the links, then the campaign itself. A failure on any tier rolls back the
// whole cascade so no orphaned clicks survive a partial delete.
func (s *gormStore) DeleteCampaignCascade(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var linkIDs []string
		if err := tx.Model(&models.Link{}).Where("campaign_id = ?", id).Pluck("id", &linkIDs).Error; err != nil {
			return err
		}
		if len(linkIDs) > 0 {
			if err := tx.Where("link_id IN ?", linkIDs).Delete(&models.Click{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", linkIDs).Delete(&models.Link{}).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.Campaign{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (s *gormStore) CreateClick(click *models.Click) error {
	if click.ID == "" {
		click.ID = uuid.NewString()
	}
	return s.db.Create(click).Error
}

func (s *gormStore) CreateAuditLog(entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return s.db.Create(entry).Error
}

func (s *gormStore) LinksWithClickCounts(campaignID string) ([]LinkWithCount, error) {
	var links []models.Link
	if err := s.db.Where("campaign_id = ?", campaignID).Order("created_at desc").Find(&links).Error; err != nil {
		return nil, err
	}

	rows := make([]LinkWithCount, 0, len(links))
	for _, link := range links {
		var count int64
		if err := s.db.Model(&models.Click{}).Where("link_id = ?", link.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		rows = append(rows, LinkWithCount{Link: link, ClickCount: count})
	}
	return rows, nil
}

func (s *gormStore) ClicksForCampaign(campaignID string, offset, limit int) ([]CampaignClick, error) {
	var rows []CampaignClick
	err := s.db.Model(&models.Click{}).
		Select("clicks.*, links.short_code").
		Joins("JOIN links ON links.id = clicks.link_id").
		Where("links.campaign_id = ?", campaignID).
		Order("clicks.created_at desc").
		Order("clicks.id").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *gormStore) CountClicksForCampaign(campaignID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Click{}).
		Joins("JOIN links ON links.id = clicks.link_id").
		Where("links.campaign_id = ?", campaignID).
		Count(&count).Error
	return count, err
}
