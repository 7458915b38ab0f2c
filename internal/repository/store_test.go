package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Campaign{}, &models.Link{}, &models.Click{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewStore(db), db
}

func TestStore_Links(t *testing.T) {
	store, db := setupTestStore(t)

	t.Run("Create and Find", func(t *testing.T) {
		link := &models.Link{ShortCode: "abc123", OriginalURL: "https://example.com"}
		assert.NoError(t, store.CreateLink(link))
		assert.NotEmpty(t, link.ID)

		found, err := store.FindLinkByShortCode("abc123")
		assert.NoError(t, err)
		assert.Equal(t, link.ID, found.ID)

		byID, err := store.FindLink(link.ID)
		assert.NoError(t, err)
		assert.Equal(t, "abc123", byID.ShortCode)
	})

	t.Run("Miss returns ErrRecordNotFound", func(t *testing.T) {
		_, err := store.FindLinkByShortCode("missing")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("ShortCodeExists", func(t *testing.T) {
		exists, err := store.ShortCodeExists("abc123")
		assert.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.ShortCodeExists("missing")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Duplicate short code rejected", func(t *testing.T) {
		err := store.CreateLink(&models.Link{ShortCode: "abc123", OriginalURL: "https://other.com"})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("Delete removes owned clicks first", func(t *testing.T) {
		link := &models.Link{ShortCode: "todel1", OriginalURL: "https://example.com"}
		assert.NoError(t, store.CreateLink(link))
		for i := 0; i < 3; i++ {
			assert.NoError(t, store.CreateClick(&models.Click{LinkID: link.ID}))
		}

		assert.NoError(t, store.DeleteLinkCascade(link.ID))

		var clicks int64
		db.Model(&models.Click{}).Where("link_id = ?", link.ID).Count(&clicks)
		assert.Zero(t, clicks)
	})

	t.Run("Delete unknown link", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteLinkCascade("nope"), gorm.ErrRecordNotFound)
	})
}

func seedCampaign(t *testing.T, store Store, links, clicksPerLink int) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{Name: "Launch"}
	assert.NoError(t, store.CreateCampaign(campaign))

	for i := 0; i < links; i++ {
		link := &models.Link{
			ShortCode:   fmt.Sprintf("code%d", i),
			OriginalURL: "https://example.com",
			CampaignID:  &campaign.ID,
		}
		assert.NoError(t, store.CreateLink(link))
		for j := 0; j < clicksPerLink; j++ {
			assert.NoError(t, store.CreateClick(&models.Click{
				LinkID:    link.ID,
				CreatedAt: time.Now().Add(-time.Duration(i*clicksPerLink+j) * time.Minute),
			}))
		}
	}
	return campaign
}

func TestStore_CampaignCascade(t *testing.T) {
	t.Run("Removes all three tiers", func(t *testing.T) {
		store, db := setupTestStore(t)
		campaign := seedCampaign(t, store, 2, 3)
		// 2 links, 5 clicks total: trim one click
		var extra models.Click
		db.First(&extra)
		db.Delete(&extra)

		assert.NoError(t, store.DeleteCampaignCascade(campaign.ID))

		var campaigns, links, clicks int64
		db.Model(&models.Campaign{}).Count(&campaigns)
		db.Model(&models.Link{}).Count(&links)
		db.Model(&models.Click{}).Count(&clicks)
		assert.Zero(t, campaigns)
		assert.Zero(t, links)
		assert.Zero(t, clicks)
	})

	t.Run("Unknown campaign", func(t *testing.T) {
		store, _ := setupTestStore(t)
		assert.ErrorIs(t, store.DeleteCampaignCascade("nope"), gorm.ErrRecordNotFound)
	})

	t.Run("Mid-cascade failure rolls back", func(t *testing.T) {
		store, db := setupTestStore(t)
		campaign := seedCampaign(t, store, 2, 3)

		// Break the last tier: clicks and links delete fine, the campaign
		// delete hits a missing table and the transaction must roll back.
		assert.NoError(t, db.Migrator().DropTable(&models.Campaign{}))

		err := store.DeleteCampaignCascade(campaign.ID)
		assert.Error(t, err)

		var links, clicks int64
		db.Model(&models.Link{}).Count(&links)
		db.Model(&models.Click{}).Count(&clicks)
		assert.EqualValues(t, 2, links)
		assert.EqualValues(t, 6, clicks)
	})
}

func TestStore_CampaignQueries(t *testing.T) {
	store, _ := setupTestStore(t)
	campaign := seedCampaign(t, store, 3, 4)

	t.Run("LinksWithClickCounts", func(t *testing.T) {
		rows, err := store.LinksWithClickCounts(campaign.ID)
		assert.NoError(t, err)
		assert.Len(t, rows, 3)
		for _, row := range rows {
			assert.EqualValues(t, 4, row.ClickCount)
		}
	})

	t.Run("ClicksForCampaign pages newest first", func(t *testing.T) {
		first, err := store.ClicksForCampaign(campaign.ID, 0, 5)
		assert.NoError(t, err)
		assert.Len(t, first, 5)
		for i := 1; i < len(first); i++ {
			assert.False(t, first[i].CreatedAt.After(first[i-1].CreatedAt))
		}
		assert.NotEmpty(t, first[0].ShortCode)

		last, err := store.ClicksForCampaign(campaign.ID, 10, 5)
		assert.NoError(t, err)
		assert.Len(t, last, 2)
	})

	t.Run("CountClicksForCampaign", func(t *testing.T) {
		count, err := store.CountClicksForCampaign(campaign.ID)
		assert.NoError(t, err)
		assert.EqualValues(t, 12, count)
	})

	t.Run("Clicks outside the campaign are excluded", func(t *testing.T) {
		loose := &models.Link{ShortCode: "loose1", OriginalURL: "https://example.com"}
		assert.NoError(t, store.CreateLink(loose))
		assert.NoError(t, store.CreateClick(&models.Click{LinkID: loose.ID}))

		count, err := store.CountClicksForCampaign(campaign.ID)
		assert.NoError(t, err)
		assert.EqualValues(t, 12, count)
	})
}

func TestStore_Campaigns(t *testing.T) {
	store, _ := setupTestStore(t)

	t.Run("Create and List newest first", func(t *testing.T) {
		a := &models.Campaign{Name: "A", CreatedAt: time.Now().Add(-time.Hour)}
		b := &models.Campaign{Name: "B", CreatedAt: time.Now()}
		assert.NoError(t, store.CreateCampaign(a))
		assert.NoError(t, store.CreateCampaign(b))

		campaigns, err := store.ListCampaigns()
		assert.NoError(t, err)
		assert.Len(t, campaigns, 2)
		assert.Equal(t, "B", campaigns[0].Name)
	})

	t.Run("Update", func(t *testing.T) {
		campaign := &models.Campaign{Name: "Old"}
		assert.NoError(t, store.CreateCampaign(campaign))
		campaign.Name = "New"
		assert.NoError(t, store.UpdateCampaign(campaign))

		found, err := store.FindCampaign(campaign.ID)
		assert.NoError(t, err)
		assert.Equal(t, "New", found.Name)
	})
}
