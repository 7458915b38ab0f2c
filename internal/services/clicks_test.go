package services

import (
	"context"
	"testing"
	"time"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"

	"github.com/stretchr/testify/assert"
)

type staticCountries struct {
	country string
}

func (s staticCountries) GetCountry(string) string { return s.country }

func TestClickService_EnrichClick(t *testing.T) {
	store, _ := setupTestDB(t)
	service := NewClickService(store, testLogger(), nil)

	t.Run("Normalizes absent fields to N/A", func(t *testing.T) {
		click := &models.Click{}
		service.enrichClick(click)

		assert.Equal(t, "N/A", click.UserAgent)
		assert.Equal(t, "N/A", click.Referrer)
		assert.Equal(t, "N/A", click.IPAddress)
		assert.Equal(t, "N/A", click.Country)
		assert.Empty(t, click.Browser)
	})

	t.Run("Parses mobile user agent", func(t *testing.T) {
		click := &models.Click{UserAgent: iphoneUA, IPAddress: "1.2.3.4"}
		service.enrichClick(click)

		assert.Equal(t, "Mobile", click.DeviceType)
		assert.Contains(t, click.Browser, "Safari")
		assert.Equal(t, "1.2.3.4", click.IPAddress)
	})

	t.Run("Parses desktop user agent", func(t *testing.T) {
		click := &models.Click{UserAgent: desktopUA, IPAddress: "8.8.8.8"}
		service.enrichClick(click)

		assert.Equal(t, "Desktop", click.DeviceType)
		assert.Contains(t, click.Browser, "Chrome")
	})

	t.Run("Detects bots", func(t *testing.T) {
		click := &models.Click{UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"}
		service.enrichClick(click)
		assert.Equal(t, "Bot", click.DeviceType)
	})

	t.Run("Country stays N/A without a resolver", func(t *testing.T) {
		click := &models.Click{IPAddress: "8.8.8.8"}
		service.enrichClick(click)
		assert.Equal(t, "N/A", click.Country)
	})
}

func TestClickService_CountryResolver(t *testing.T) {
	store, _ := setupTestDB(t)
	service := NewClickService(store, testLogger(), staticCountries{country: "Germany"})

	t.Run("Resolver fills country", func(t *testing.T) {
		click := &models.Click{IPAddress: "8.8.8.8"}
		service.enrichClick(click)
		assert.Equal(t, "Germany", click.Country)
	})

	t.Run("No lookup for missing IP", func(t *testing.T) {
		click := &models.Click{}
		service.enrichClick(click)
		assert.Equal(t, "N/A", click.Country)
	})
}

func TestClickService_Worker(t *testing.T) {
	store, db := setupTestDB(t)
	service := NewClickService(store, testLogger(), nil)

	link := &models.Link{ShortCode: "work01", OriginalURL: "https://example.com"}
	assert.NoError(t, store.CreateLink(link))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Start(ctx)

	service.RecordClickAsync(models.Click{LinkID: link.ID, UserAgent: desktopUA})

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&models.Click{}).Where("link_id = ?", link.ID).Count(&count)
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)

	var click models.Click
	db.First(&click, "link_id = ?", link.ID)
	assert.Equal(t, "N/A", click.Referrer)
	assert.Equal(t, "Desktop", click.DeviceType)
}

func TestClickService_PersistenceFailureIsSwallowed(t *testing.T) {
	store, db := setupTestDB(t)
	service := NewClickService(store, testLogger(), nil)

	// Break the table: the worker must log and keep draining, never panic.
	assert.NoError(t, db.Migrator().DropTable(&models.Click{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Start(ctx)

	service.RecordClickAsync(models.Click{LinkID: "x"})
	service.RecordClickAsync(models.Click{LinkID: "y"})

	assert.Eventually(t, func() bool {
		return len(service.clickChannel) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClickService_DropsWhenFull(t *testing.T) {
	store, _ := setupTestDB(t)
	service := NewClickService(store, testLogger(), nil)
	service.clickChannel = make(chan models.Click, 1)

	// No worker running: second send must not block.
	done := make(chan struct{})
	go func() {
		service.RecordClickAsync(models.Click{LinkID: "a"})
		service.RecordClickAsync(models.Click{LinkID: "b"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RecordClickAsync blocked on a full channel")
	}
	assert.Len(t, service.clickChannel, 1)
}
