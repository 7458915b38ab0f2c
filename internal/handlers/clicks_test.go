package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nadimtuhin/url-campaign-analytics/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIngestClick(t *testing.T) {
	h, store, clicks := setupTestHandler(t)
	router := setupTestRouter(h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go clicks.Start(ctx)

	campaign := &models.Campaign{Name: "ingest"}
	assert.NoError(t, store.CreateCampaign(campaign))
	link := &models.Link{ShortCode: "ing1", OriginalURL: "https://example.com", CampaignID: &campaign.ID}
	assert.NoError(t, store.CreateLink(link))

	t.Run("accepts a click before it is written", func(t *testing.T) {
		body := `{"linkId": "` + link.ID + `", "userAgent": "curl/8.0", "utmSource": "newsletter"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/clicks", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), "true")

		assert.Eventually(t, func() bool {
			n, err := store.CountClicksForCampaign(campaign.ID)
			return err == nil && n == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("rejects a missing link ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/clicks", strings.NewReader(`{"userAgent": "curl/8.0"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/clicks", strings.NewReader(`not json`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
