//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/blob"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/catalog"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/featureflags"
	httpadapter "github.com/jsamuelsen/startup-toolkit/internal/adapters/http"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/handlers"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/persistence"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/render"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/metrics"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

const subjectHeader = "X-User-ID"

// toolkitOptions selects the adapters behind an in-process toolkit.
type toolkitOptions struct {
	Storage config.StorageConfig
	Archive config.ArchiveConfig

	// Feed replaces the catalog fixtures as the regulatory feed.
	Feed ports.RegulatoryFeed
}

// toolkit is the full service wired the way cmd/service does it, served
// by an httptest server.
type toolkit struct {
	URL      string
	Store    ports.StateStore
	Registry *prometheus.Registry

	server *httptest.Server
}

func (tk *toolkit) Close() {
	tk.server.Close()
	if closer, ok := tk.Store.(io.Closer); ok {
		_ = closer.Close()
	}
}

// startToolkit builds a toolkit outside of a test. The caller must Close it.
func startToolkit(ctx context.Context, opts toolkitOptions) (*toolkit, error) {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := persistence.Open(ctx, opts.Storage)
	if err != nil {
		return nil, err
	}

	archive, err := blob.Open(ctx, opts.Archive)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load("")
	if err != nil {
		return nil, err
	}

	var feed ports.RegulatoryFeed = cat
	if opts.Feed != nil {
		feed = opts.Feed
	}

	reg := prometheus.NewRegistry()
	toolMetrics := metrics.New(reg)

	deps := app.Deps{
		Store:   store,
		Clock:   ports.SystemClock{},
		Metrics: toolMetrics,
		Logger:  logger,
		Seed:    42,
	}

	exports := app.NewExportService(app.ExportServiceConfig{
		Renderers: []ports.DocumentRenderer{render.Text{}, render.NewPDF("Startup Toolkit")},
		Archive:   archive,
		Clock:     deps.Clock,
		Metrics:   toolMetrics,
		Logger:    logger,
	})

	flags := featureflags.New(config.FeaturesConfig{
		Flags: map[string]bool{app.FlagNameGenerator: true},
	})

	swot := app.NewSWOTService(deps, exports)
	canvas := app.NewCanvasService(deps, exports)
	catalogs := app.NewCatalogService(deps, cat, exports)
	legal := app.NewLegalService(deps, cat)
	compliance := app.NewComplianceService(deps, feed, 30*24*time.Hour)
	campaigns := app.NewCampaignService(deps)
	contracts := app.NewContractService(deps, cat, exports)
	guides := app.NewGuideService(deps, cat, exports, app.GuideServiceConfig{CertificateName: "Startup Founder"})
	experts := app.NewExpertService(deps)
	names := app.NewNameService(deps, flags, 0)
	workspaces := app.NewWorkspaceService(deps, exports)
	overview := app.NewOverviewService(deps, app.OverviewServiceConfig{
		SWOT:       swot,
		Canvas:     canvas,
		Catalog:    catalogs,
		Legal:      legal,
		Compliance: compliance,
		Campaigns:  campaigns,
		Guides:     guides,
		Experts:    experts,
	})

	health := ports.NewHealthRegistry()
	for _, v := range []any{store, archive, feed} {
		if checker, ok := v.(ports.HealthChecker); ok {
			if err := health.Register(checker); err != nil {
				return nil, err
			}
		}
	}

	routerCfg := httpadapter.NewDefaultRouterConfig(logger,
		&config.AppConfig{Name: "startup-toolkit-it"},
		&config.AuthConfig{SubjectHeader: subjectHeader},
		handlers.NewHealthHandler(health, handlers.NewBuildInfo("it", "none", "")).WithGatherer(reg),
		handlers.NewSWOTHandler(swot),
		handlers.NewCanvasHandler(canvas),
		handlers.NewCatalogHandler(catalogs),
		handlers.NewLegalHandler(legal),
		handlers.NewComplianceHandler(compliance),
		handlers.NewCampaignHandler(campaigns),
		handlers.NewContractHandler(contracts),
		handlers.NewGuideHandler(guides),
		handlers.NewExpertHandler(experts),
		handlers.NewNameHandler(names),
		handlers.NewWorkspaceHandler(workspaces, overview, exports),
	)

	engine := gin.New()
	httpadapter.SetupRouter(engine, routerCfg)

	server := httptest.NewServer(engine)

	return &toolkit{URL: server.URL, Store: store, Registry: reg, server: server}, nil
}

// newToolkit starts a toolkit that is closed when t finishes.
func newToolkit(t *testing.T, opts toolkitOptions) *toolkit {
	t.Helper()

	tk, err := startToolkit(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(tk.Close)

	return tk
}
