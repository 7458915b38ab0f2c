package services

import (
	"context"
	"log/slog"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"
	"github.com/nadimtuhin/url-campaign-analytics/internal/repository"

	"github.com/mssola/user_agent"
)

// NotAvailable is the sentinel stored for request attributes the client did
// not supply, so aggregation never has to special-case absence.
const NotAvailable = "N/A"

// CountryResolver is an optional lookup the recorder consults before
// persisting. GeoIPService implements it; when nil the country stays "N/A".
type CountryResolver interface {
	GetCountry(ip string) string
}

// ClickService records clicks at-most-once and off the redirect path. The
// channel send never blocks; under persistence failure the click is lost,
// logged, and never retried.
type ClickService struct {
	store        repository.Store
	logger       *slog.Logger
	clickChannel chan models.Click
	countries    CountryResolver
}

func NewClickService(store repository.Store, logger *slog.Logger, countries CountryResolver) *ClickService {
	return &ClickService{
		store:        store,
		logger:       logger,
		clickChannel: make(chan models.Click, 1000),
		countries:    countries,
	}
}

func (s *ClickService) Start(ctx context.Context) {
	s.logger.Info("Click worker starting")
	for {
		select {
		case click := <-s.clickChannel:
			s.enrichClick(&click)

			if err := s.store.CreateClick(&click); err != nil {
				s.logger.Error("Failed to record click", "link_id", click.LinkID, "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Click worker stopping")
			return
		}
	}
}

// RecordClickAsync hands a click to the background worker. Fire-and-forget:
// a full queue drops the click rather than stall a redirect.
func (s *ClickService) RecordClickAsync(click models.Click) {
	select {
	case s.clickChannel <- click:
	default:
		s.logger.Warn("Click channel full, dropping click event", "link_id", click.LinkID)
	}
}

func (s *ClickService) enrichClick(click *models.Click) {
	if click.UserAgent == "" {
		click.UserAgent = NotAvailable
	}
	if click.Referrer == "" {
		click.Referrer = NotAvailable
	}
	if click.IPAddress == "" {
		click.IPAddress = NotAvailable
	}

	if click.UserAgent != NotAvailable {
		ua := user_agent.New(click.UserAgent)
		browserName, browserVer := ua.Browser()
		click.Browser = browserName + " " + browserVer
		click.OS = ua.OS()

		if ua.Bot() {
			click.DeviceType = "Bot"
		} else if ua.Mobile() {
			click.DeviceType = "Mobile"
		} else {
			click.DeviceType = "Desktop"
		}
	}

	if click.Country == "" || click.Country == NotAvailable {
		if s.countries != nil && click.IPAddress != NotAvailable {
			click.Country = s.countries.GetCountry(click.IPAddress)
		} else {
			click.Country = NotAvailable
		}
	}
}
