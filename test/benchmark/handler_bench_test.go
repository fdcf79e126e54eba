package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/catalog"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/handlers"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/middleware"
	statemem "github.com/jsamuelsen/startup-toolkit/internal/adapters/persistence/memory"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// BenchmarkLivenessHandler measures the probe the orchestrator hits most.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.NewBuildInfo("1.0.0", "abc123", ""))
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = req
		handler.Liveness(c)
	}
}

func swotAnalysis(perQuadrant int) domain.SWOTAnalysis {
	items := func(prefix string) []domain.SWOTItem {
		out := make([]domain.SWOTItem, perQuadrant)
		for i := range out {
			out[i] = domain.SWOTItem{
				ID:       fmt.Sprintf("%s-%d", prefix, i),
				Text:     fmt.Sprintf("%s item %d", prefix, i),
				Priority: domain.LevelHigh,
				Impact:   domain.LevelMedium,
			}
		}

		return out
	}

	return domain.SWOTAnalysis{
		Strengths:     items("s"),
		Weaknesses:    items("w"),
		Opportunities: items("o"),
		Threats:       items("t"),
	}
}

// BenchmarkGenerateStrategies covers the cross product of high-priority items.
func BenchmarkGenerateStrategies(b *testing.B) {
	for _, n := range []int{5, 20, 50} {
		a := swotAnalysis(n)

		b.Run(fmt.Sprintf("items=%d", n), func(b *testing.B) {
			b.ReportAllocs()

			for b.Loop() {
				_ = domain.GenerateStrategies(a)
			}
		})
	}
}

// BenchmarkAnalyzeFit scores a canvas where half the pains are relieved.
func BenchmarkAnalyzeFit(b *testing.B) {
	var c domain.Canvas
	for i := range 100 {
		id := fmt.Sprintf("pain-%d", i)
		c.Pains = append(c.Pains, domain.CustomerPain{ID: id, Description: id, Severity: domain.LevelHigh})
		c.Gains = append(c.Gains, domain.CustomerGain{ID: fmt.Sprintf("gain-%d", i), Importance: domain.LevelMedium})
		if i%2 == 0 {
			c.PainRelievers = append(c.PainRelievers, domain.PainReliever{ID: "r-" + id, PainID: id})
		}
	}

	b.ReportAllocs()

	for b.Loop() {
		_ = domain.AnalyzeFit(c)
	}
}

// BenchmarkFilterAndPaginateGrants is the grants listing without HTTP.
func BenchmarkFilterAndPaginateGrants(b *testing.B) {
	cat, err := catalog.Load("")
	if err != nil {
		b.Fatal(err)
	}

	grants, err := cat.Grants(context.Background())
	if err != nil {
		b.Fatal(err)
	}

	// Widen the seed catalog so the filter has work to do.
	wide := make([]domain.Grant, 0, len(grants)*50)
	for i := range 50 {
		for _, g := range grants {
			g.ID = fmt.Sprintf("%s-%d", g.ID, i)
			wide = append(wide, g)
		}
	}

	filter := domain.GrantFilter{Search: "small business"}
	page := dto.PaginationRequest{Limit: 20}

	b.ReportAllocs()

	for b.Loop() {
		matched := domain.FilterGrants(wide, filter)
		if _, err := dto.Paginate(matched, page, func(g domain.Grant) string { return g.ID }); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSimulateCampaign measures one seeded delivery simulation.
func BenchmarkSimulateCampaign(b *testing.B) {
	c := domain.EmailCampaign{ID: "bench", Subject: "Launch day", Recipients: 50_000}
	rng := rand.New(rand.NewPCG(1, 2))

	b.ReportAllocs()

	for b.Loop() {
		_ = domain.SimulateCampaign(c, rng)
	}
}

// BenchmarkGenerateNames measures the name generator at its default count.
func BenchmarkGenerateNames(b *testing.B) {
	req := domain.NameRequest{Keywords: []string{"cloud", "ledger"}, Industry: "fintech", Style: domain.StyleTech}
	rng := rand.New(rand.NewPCG(1, 2))

	b.ReportAllocs()

	for b.Loop() {
		if _, err := domain.GenerateNames(req, rng); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSWOTAddItem goes through routing, workspace resolution, the
// service and the memory store.
func BenchmarkSWOTAddItem(b *testing.B) {
	deps := app.Deps{Store: statemem.NewStore(), Clock: ports.SystemClock{}, Logger: discardLogger(), Seed: 1}
	exports := app.NewExportService(app.ExportServiceConfig{Clock: deps.Clock, Logger: deps.Logger})

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	v1.Use(middleware.Workspace(&config.AuthConfig{SubjectHeader: "X-User-ID"}, config.DefaultWorkspace))
	handlers.NewSWOTHandler(app.NewSWOTService(deps, exports)).RegisterRoutes(v1)

	const body = `{"text": "Strong distribution partners", "priority": "high"}`

	b.ReportAllocs()

	i := 0
	for b.Loop() {
		// A fresh workspace per batch keeps the document from growing without bound.
		ws := fmt.Sprintf("bench-%d", i/100)
		i++

		req := httptest.NewRequest(http.MethodPost, "/api/v1/swot/strengths/items", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", ws)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
		}
	}
}
