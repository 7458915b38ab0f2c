package services

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"
	"github.com/nadimtuhin/url-campaign-analytics/internal/repository"

	"gorm.io/gorm"
)

const (
	DefaultPageSize  = 15
	DefaultTopSource = 10

	// DirectSource is the attribution bucket for clicks without a UTM source.
	DirectSource = "Direct/Unknown"
)

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalClicks int64 `json:"totalClicks"`
	Limit       int   `json:"limit"`
}

type DayCount struct {
	Date   string `json:"date"` // local calendar day, YYYY-MM-DD
	Clicks int    `json:"clicks"`
}

type SourceCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CampaignAnalytics is one dashboard payload: the campaign, its links with
// per-link totals, one page of clicks, and the chart buckets. ByDate and
// BySource are computed over the returned page only, not the whole history.
type CampaignAnalytics struct {
	Campaign   *models.Campaign           `json:"campaign"`
	Links      []repository.LinkWithCount `json:"links"`
	Clicks     []repository.CampaignClick `json:"clicks"`
	Pagination Pagination                 `json:"pagination"`
	ByDate     []DayCount                 `json:"byDate"`
	BySource   []SourceCount              `json:"bySource"`
}

type AnalyticsService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewAnalyticsService(store repository.Store, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, logger: logger}
}

// GetCampaignAnalytics returns the newest-first click page for every link
// under the campaign. Pages are 1-based; totalPages = ceil(total/limit).
func (s *AnalyticsService) GetCampaignAnalytics(campaignID string, page, limit int) (*CampaignAnalytics, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	campaign, err := s.store.FindCampaign(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	links, err := s.store.LinksWithClickCounts(campaignID)
	if err != nil {
		return nil, err
	}

	skip := (page - 1) * limit
	clicks, err := s.store.ClicksForCampaign(campaignID, skip, limit)
	if err != nil {
		return nil, err
	}

	totalClicks, err := s.store.CountClicksForCampaign(campaignID)
	if err != nil {
		return nil, err
	}

	totalPages := int((totalClicks + int64(limit) - 1) / int64(limit))

	return &CampaignAnalytics{
		Campaign: campaign,
		Links:    links,
		Clicks:   clicks,
		Pagination: Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalClicks: totalClicks,
			Limit:       limit,
		},
		ByDate:   ClicksByDay(clicks),
		BySource: TopSources(ClicksBySource(clicks), DefaultTopSource),
	}, nil
}

// ClicksByDay groups a click page by local calendar day, ascending. Pure and
// order-independent: the same clicks produce the same buckets regardless of
// input ordering.
func ClicksByDay(clicks []repository.CampaignClick) []DayCount {
	counts := make(map[string]int)
	for _, click := range clicks {
		day := click.CreatedAt.Local().Format("2006-01-02")
		counts[day]++
	}

	buckets := make([]DayCount, 0, len(counts))
	for day, count := range counts {
		buckets = append(buckets, DayCount{Date: day, Clicks: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})
	return buckets
}

// ClicksBySource groups a click page by UTM source, counting absent sources
// under DirectSource. Sorted by count descending, name ascending on ties.
func ClicksBySource(clicks []repository.CampaignClick) []SourceCount {
	counts := make(map[string]int)
	for _, click := range clicks {
		source := DirectSource
		if click.UTMSource != nil && *click.UTMSource != "" {
			source = *click.UTMSource
		}
		counts[source]++
	}

	buckets := make([]SourceCount, 0, len(counts))
	for name, count := range counts {
		buckets = append(buckets, SourceCount{Name: name, Value: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Value != buckets[j].Value {
			return buckets[i].Value > buckets[j].Value
		}
		return buckets[i].Name < buckets[j].Name
	})
	return buckets
}

// TopSources truncates a sorted source breakdown for display.
func TopSources(sources []SourceCount, n int) []SourceCount {
	if n <= 0 {
		n = DefaultTopSource
	}
	if len(sources) <= n {
		return sources
	}
	return sources[:n]
}
