package acl

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/clients"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/logging"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

var (
	_ ports.RegulatoryFeed = (*RegulatoryFeed)(nil)
	_ ports.HealthChecker  = (*RegulatoryFeed)(nil)
	_ ports.Optional       = (*RegulatoryFeed)(nil)
)

// DefaultFeedPath is requested when RegulatoryFeedConfig.Path is empty.
const DefaultFeedPath = "/v1/updates"

// RegulatoryFeedConfig contains the dependencies of the regulatory feed adapter.
type RegulatoryFeedConfig struct {
	// Client calls the upstream feed. Its base URL points at the feed host.
	Client *clients.Client

	// Path of the notices listing.
	Path string

	// Fallback serves updates when the upstream fails. Optional.
	Fallback ports.RegulatoryFeed

	Logger *slog.Logger
}

// RegulatoryFeed reads notices from an upstream JSON feed and translates
// them into domain.RegulatoryUpdate values.
type RegulatoryFeed struct {
	client   *clients.Client
	path     string
	fallback ports.RegulatoryFeed
	logger   *slog.Logger
}

// NewRegulatoryFeed creates the adapter. Panics if Client is nil.
func NewRegulatoryFeed(cfg RegulatoryFeedConfig) *RegulatoryFeed {
	if cfg.Client == nil {
		panic("RegulatoryFeed: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RegulatoryFeed{
		client:   cfg.Client,
		path:     cmp.Or(cfg.Path, DefaultFeedPath),
		fallback: cfg.Fallback,
		logger:   logger.With(slog.String("component", "acl.RegulatoryFeed")),
	}
}

// feedResponse is the upstream listing.
type feedResponse struct {
	Notices []feedNotice   `json:"notices"`
	Error   *upstreamError `json:"error,omitempty"`
}

// feedNotice is one upstream notice.
type feedNotice struct {
	NoticeID  string `json:"notice_id"`
	Headline  string `json:"headline"`
	Abstract  string `json:"abstract"`
	Agency    string `json:"agency"`
	Topic     string `json:"topic"`
	Severity  string `json:"severity"`
	Published string `json:"published"`
	Link      string `json:"link"`
}

// Updates returns the upstream notices, newest first. When the upstream
// fails and a fallback is configured the fallback's updates are returned
// and the failure is logged.
func (f *RegulatoryFeed) Updates(ctx context.Context) ([]domain.RegulatoryUpdate, error) {
	updates, err := f.fetch(ctx)
	if err == nil {
		return updates, nil
	}

	if f.fallback == nil {
		return nil, err
	}

	logging.FromContext(ctx).WarnContext(ctx, "regulatory feed unavailable, serving fixtures",
		slog.String("downstream", f.Name()),
		slog.Any("error", err),
	)

	return f.fallback.Updates(ctx)
}

func (f *RegulatoryFeed) fetch(ctx context.Context) ([]domain.RegulatoryUpdate, error) {
	const op = "list regulatory updates"

	body, err := f.get(ctx, op)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	resp, err := decode[feedResponse](body)
	if err != nil {
		return nil, domain.NewUnavailableError(f.Name(), err.Error())
	}

	if resp.Error != nil && resp.Error.Code != "" {
		return nil, failure{service: f.Name(), operation: op}.code(resp.Error)
	}

	updates, skipped := translateAll(resp.Notices, translateNotice)
	if skipped != nil {
		f.logger.WarnContext(ctx, "skipped malformed regulatory notices", slog.Any("error", skipped))
		if len(updates) == 0 {
			return nil, domain.NewUnavailableError(f.Name(), "no usable notices")
		}
	}

	slices.SortStableFunc(updates, func(a, b domain.RegulatoryUpdate) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})

	f.logger.Log(ctx, logging.LevelTrace, "translated regulatory notices",
		slog.Int("received", len(resp.Notices)),
		slog.Int("kept", len(updates)))

	return updates, nil
}

// get requests the listing and returns the body of a 2xx response.
func (f *RegulatoryFeed) get(ctx context.Context, op string) (io.ReadCloser, error) {
	fail := failure{service: f.Name(), operation: op}

	resp, err := f.client.Get(ctx, f.path)
	if err != nil {
		return nil, fail.transport(err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()

		return nil, fail.status(resp)
	}

	return resp.Body, nil
}

// translateNotice validates one notice and converts it.
func translateNotice(n *feedNotice) (domain.RegulatoryUpdate, error) {
	switch {
	case n.NoticeID == "":
		return domain.RegulatoryUpdate{}, domain.NewValidationError("notice_id", "is required")
	case strings.TrimSpace(n.Headline) == "":
		return domain.RegulatoryUpdate{}, domain.NewValidationError("headline", "is required")
	}

	impact, err := translateSeverity(n.Severity)
	if err != nil {
		return domain.RegulatoryUpdate{}, err
	}

	published, err := parsePublished(n.Published)
	if err != nil {
		return domain.RegulatoryUpdate{}, err
	}

	return domain.RegulatoryUpdate{
		ID:          n.NoticeID,
		Title:       strings.TrimSpace(n.Headline),
		Summary:     strings.TrimSpace(n.Abstract),
		Source:      n.Agency,
		Category:    strings.ToLower(n.Topic),
		Impact:      impact,
		PublishedAt: published,
		URL:         n.Link,
	}, nil
}

func translateSeverity(s string) (domain.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "high":
		return domain.LevelHigh, nil
	case "major", "moderate", "medium":
		return domain.LevelMedium, nil
	case "minor", "low", "info":
		return domain.LevelLow, nil
	default:
		return "", domain.NewValidationErrorWithValue("severity", "unknown severity", s)
	}
}

// parsePublished accepts RFC 3339 timestamps and plain dates.
func parsePublished(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, domain.NewValidationErrorWithValue("published", fmt.Sprintf("expected %s or %s", time.RFC3339, time.DateOnly), s)
}

// Name implements ports.HealthChecker.
func (f *RegulatoryFeed) Name() string {
	return f.client.ServiceName()
}

// Check requests the listing and reports any failure.
func (f *RegulatoryFeed) Check(ctx context.Context) error {
	body, err := f.get(ctx, "health check")
	if err != nil {
		return err
	}

	return body.Close()
}

// Optional reports whether the service can do without the upstream, which
// it can when fixtures stand in for it.
func (f *RegulatoryFeed) Optional() bool {
	return f.fallback != nil
}
