package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"
	"github.com/nadimtuhin/url-campaign-analytics/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const linkCacheTTL = 10 * time.Minute

// RequestContext carries everything the resolver needs to know about the
// inbound request.
type RequestContext struct {
	UserAgent string
	Referrer  string
	IPAddress string
	UTMSource string
}

type RedirectDecision struct {
	TargetURL string
	LinkID    string
}

// ResolverService turns a short code plus request context into a redirect
// target and hands the click off to the recorder. Links are immutable at
// resolution time, so concurrent resolutions never interfere.
type ResolverService struct {
	store      repository.Store
	rdb        *redis.Client
	logger     *slog.Logger
	recorder   *ClickService
	classifier DeviceClassifier
}

func NewResolverService(store repository.Store, rdb *redis.Client, logger *slog.Logger, recorder *ClickService) *ResolverService {
	return &ResolverService{
		store:      store,
		rdb:        rdb,
		logger:     logger,
		recorder:   recorder,
		classifier: RegexpClassifier{},
	}
}

// Resolve returns ErrNotFound for an empty or unknown short code; no click
// is recorded in that case. On a hit the click enqueue never blocks and its
// outcome never reaches the caller.
func (s *ResolverService) Resolve(ctx context.Context, shortCode string, req RequestContext) (*RedirectDecision, error) {
	if shortCode == "" {
		return nil, ErrNotFound
	}

	link, err := s.lookupLink(ctx, shortCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	target := s.selectTarget(link, req.UserAgent)

	var utmSource *string
	if req.UTMSource != "" {
		utmSource = &req.UTMSource
	}
	s.recorder.RecordClickAsync(models.Click{
		LinkID:    link.ID,
		CreatedAt: time.Now(),
		UserAgent: req.UserAgent,
		Referrer:  req.Referrer,
		IPAddress: req.IPAddress,
		UTMSource: utmSource,
	})

	return &RedirectDecision{TargetURL: target, LinkID: link.ID}, nil
}

func (s *ResolverService) lookupLink(ctx context.Context, shortCode string) (*models.Link, error) {
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, "link:"+shortCode).Result()
		if err == nil {
			var link models.Link
			if err := json.Unmarshal([]byte(val), &link); err == nil {
				return &link, nil
			}
		}
	}

	link, err := s.store.FindLinkByShortCode(shortCode)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(link); err == nil {
			s.rdb.Set(ctx, "link:"+shortCode, data, linkCacheTTL)
		}
	}
	return link, nil
}

// selectTarget applies the targeting precedence top-down, first match wins.
// Android is evaluated before iOS, so a user agent matching both patterns
// resolves as Android.
func (s *ResolverService) selectTarget(link *models.Link, userAgent string) string {
	isAndroid := s.classifier.IsAndroid(userAgent)
	isIOS := s.classifier.IsIOS(userAgent)

	switch {
	case isAndroid && hasValue(link.AndroidAppURI):
		return *link.AndroidAppURI
	case isAndroid && hasValue(link.AndroidFallbackURL):
		return *link.AndroidFallbackURL
	case isIOS && hasValue(link.IOSAppURI):
		return *link.IOSAppURI
	case isIOS && hasValue(link.IOSFallbackURL):
		return *link.IOSFallbackURL
	default:
		return link.OriginalURL
	}
}

func hasValue(s *string) bool {
	return s != nil && *s != ""
}
