package acl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/clients"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/mocks"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
)

func newFeed(t *testing.T, handler http.HandlerFunc, fallback *mocks.MockRegulatoryFeed) *RegulatoryFeed {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: "regulatory-feed",
		BaseURL:     server.URL,
		Timeout:     time.Second,
		Retry:       config.RetryConfig{MaxAttempts: 1},
		Circuit:     config.CircuitBreakerConfig{MaxFailures: 5, Timeout: time.Second, HalfOpenLimit: 1},
	})
	require.NoError(t, err)

	fc := RegulatoryFeedConfig{
		Client: client,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if fallback != nil {
		fc.Fallback = fallback
	}

	return NewRegulatoryFeed(fc)
}

const feedBody = `{
	"notices": [
		{"notice_id": "n-1", "headline": "Older notice", "abstract": "a", "agency": "SEC", "topic": "Securities",
		 "severity": "minor", "published": "2026-08-01", "link": "https://example.org/n-1"},
		{"notice_id": "n-2", "headline": " Newer notice ", "abstract": "b", "agency": "IRS", "topic": "Tax",
		 "severity": "critical", "published": "2026-09-15T10:00:00Z", "link": "https://example.org/n-2"},
		{"notice_id": "", "headline": "No id", "severity": "minor", "published": "2026-09-01"},
		{"notice_id": "n-4", "headline": "Odd severity", "severity": "apocalyptic", "published": "2026-09-01"}
	]
}`

func TestNewRegulatoryFeed_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() { NewRegulatoryFeed(RegulatoryFeedConfig{}) })
}

func TestRegulatoryFeed_Updates_TranslatesAndSorts(t *testing.T) {
	feed := newFeed(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultFeedPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedBody))
	}, nil)

	updates, err := feed.Updates(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 2, "malformed notices are skipped")

	assert.Equal(t, "n-2", updates[0].ID)
	assert.Equal(t, "Newer notice", updates[0].Title)
	assert.Equal(t, domain.LevelHigh, updates[0].Impact)
	assert.Equal(t, "tax", updates[0].Category)
	assert.Equal(t, "IRS", updates[0].Source)

	assert.Equal(t, "n-1", updates[1].ID)
	assert.Equal(t, domain.LevelLow, updates[1].Impact)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), updates[1].PublishedAt)
}

func TestRegulatoryFeed_Updates_FallsBackOnServerError(t *testing.T) {
	fixtures := []domain.RegulatoryUpdate{{ID: "fixture-1", Title: "Fixture"}}

	fallback := mocks.NewMockRegulatoryFeed(t)
	fallback.EXPECT().Updates(mock.Anything).Return(fixtures, nil).Once()

	feed := newFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, fallback)

	updates, err := feed.Updates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixtures, updates)
}

func TestRegulatoryFeed_Updates_NoFallbackReturnsDomainError(t *testing.T) {
	feed := newFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	_, err := feed.Updates(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestRegulatoryFeed_Updates_ErrorCodeInBody(t *testing.T) {
	feed := newFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"notices":[],"error":{"code":"FORBIDDEN","message":"plan expired"}}`))
	}, nil)

	_, err := feed.Updates(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))
}

func TestRegulatoryFeed_Updates_AllMalformedFallsBack(t *testing.T) {
	fallback := mocks.NewMockRegulatoryFeed(t)
	fallback.EXPECT().Updates(mock.Anything).Return([]domain.RegulatoryUpdate{}, nil).Once()

	feed := newFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"notices":[{"notice_id":"x","headline":"h","severity":"?","published":"2026-01-01"}]}`))
	}, fallback)

	updates, err := feed.Updates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestRegulatoryFeed_Updates_InvalidJSON(t *testing.T) {
	feed := newFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}, nil)

	_, err := feed.Updates(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestRegulatoryFeed_Check(t *testing.T) {
	healthy := newFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"notices":[]}`))
	}, nil)
	assert.Equal(t, "regulatory-feed", healthy.Name())
	require.NoError(t, healthy.Check(context.Background()))

	down := newFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)
	require.Error(t, down.Check(context.Background()))
	assert.False(t, down.Optional())

	withFixtures := newFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, mocks.NewMockRegulatoryFeed(t))
	assert.True(t, withFixtures.Optional(), "fixtures cover for the upstream")
}

func TestTranslateSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Level
	}{
		{"critical", domain.LevelHigh},
		{"HIGH", domain.LevelHigh},
		{"major", domain.LevelMedium},
		{"moderate", domain.LevelMedium},
		{" minor ", domain.LevelLow},
		{"info", domain.LevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := translateSeverity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := translateSeverity("unknown")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestParsePublished(t *testing.T) {
	got, err := parsePublished("2026-09-15T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC), got)

	_, err = parsePublished("15/09/2026")
	require.Error(t, err)
}
