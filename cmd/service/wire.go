package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/blob"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/catalog"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/clients"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/clients/acl"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/featureflags"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/handlers"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/persistence"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/render"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/metrics"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// toolkit is the assembled application: the route handlers, the health
// registry their dependencies report to, and what must be closed on exit.
type toolkit struct {
	handlers []handlers.RouteRegistrar
	health   *ports.DefaultHealthRegistry
	closers  []io.Closer
	logger   *slog.Logger
}

func (tk *toolkit) close() {
	for i := len(tk.closers) - 1; i >= 0; i-- {
		if err := tk.closers[i].Close(); err != nil {
			tk.logger.Error("closing dependency", slog.Any("error", err))
		}
	}
}

// track registers v's health check and closer, if it has them.
func (tk *toolkit) track(v any) error {
	if c, ok := v.(io.Closer); ok {
		tk.closers = append(tk.closers, c)
	}

	if hc, ok := v.(ports.HealthChecker); ok {
		if err := tk.health.Register(hc); err != nil {
			return fmt.Errorf("registering %s: %w", hc.Name(), err)
		}
	}

	return nil
}

func build(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (_ *toolkit, err error) {
	tk := &toolkit{health: ports.NewHealthRegistry(), logger: logger}
	defer func() {
		if err != nil {
			tk.close()
		}
	}()

	store, err := persistence.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s state store: %w", cfg.Storage.Driver, err)
	}
	if err := tk.track(store); err != nil {
		return nil, err
	}

	archive, err := blob.Open(ctx, cfg.Export.Archive)
	if err != nil {
		return nil, fmt.Errorf("opening export archive: %w", err)
	}
	if err := tk.track(archive); err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.Catalog.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	feed, err := regulatoryFeed(cfg, cat, logger)
	if err != nil {
		return nil, err
	}
	if err := tk.track(feed); err != nil {
		return nil, err
	}

	m := metrics.New(reg)
	deps := app.Deps{
		Store:   store,
		Clock:   ports.SystemClock{},
		Metrics: m,
		Logger:  logger,
		Seed:    cfg.Tools.SimulationSeed,
	}

	exports := app.NewExportService(app.ExportServiceConfig{
		Renderers: []ports.DocumentRenderer{render.Text{}, render.NewPDF(cfg.App.Name)},
		Archive:   archive,
		Clock:     deps.Clock,
		Metrics:   m,
		Logger:    logger,
	})

	swot := app.NewSWOTService(deps, exports)
	canvas := app.NewCanvasService(deps, exports)
	catalogs := app.NewCatalogService(deps, cat, exports)
	legal := app.NewLegalService(deps, cat)
	compliance := app.NewComplianceService(deps, feed, cfg.Tools.UpcomingWindow)
	campaigns := app.NewCampaignService(deps)
	contracts := app.NewContractService(deps, cat, exports)
	guides := app.NewGuideService(deps, cat, exports, app.GuideServiceConfig{CertificateName: cfg.Tools.CertificateName})
	experts := app.NewExpertService(deps)
	names := app.NewNameService(deps, featureflags.New(cfg.Features), cfg.Tools.NameGeneratorDelay)
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

	tk.handlers = []handlers.RouteRegistrar{
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
		handlers.NewWorkspaceHandler(app.NewWorkspaceService(deps, exports), overview, exports),
	}

	return tk, nil
}

// regulatoryFeed returns the upstream adapter with the catalog fixtures as
// its fallback, or the fixtures alone when the upstream is disabled.
func regulatoryFeed(cfg *config.Config, fixtures ports.RegulatoryFeed, logger *slog.Logger) (ports.RegulatoryFeed, error) {
	endpoint := cfg.Services.RegulatoryFeed
	if !endpoint.Enabled {
		logger.Info("regulatory feed disabled, serving fixtures")
		return fixtures, nil
	}

	client, err := clients.FromConfig(endpoint, cfg.Client, logger)
	if err != nil {
		return nil, fmt.Errorf("creating regulatory feed client: %w", err)
	}

	return acl.NewRegulatoryFeed(acl.RegulatoryFeedConfig{
		Client:   client,
		Path:     endpoint.Path,
		Fallback: fixtures,
		Logger:   logger,
	}), nil
}
