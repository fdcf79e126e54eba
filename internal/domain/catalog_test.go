package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return t
}

func sampleGrants() []Grant {
	return []Grant{
		{ID: "g1", Name: "Zeta Fund", Status: GrantClosed, Deadline: day("2026-01-01"), AmountMax: 100, Category: "tech"},
		{ID: "g2", Name: "Beta Grant", Status: GrantOpen, Deadline: day("2026-06-01"), AmountMax: 500, Category: "tech", Tags: []string{"AI"}},
		{ID: "g3", Name: "Alpha Grant", Status: GrantOpen, Deadline: day("2026-06-01"), AmountMax: 250, Category: "green"},
		{ID: "g4", Name: "Gamma Grant", Status: GrantClosingSoon, Deadline: day("2026-11-01"), AmountMax: 1000, Category: "tech"},
		{ID: "g5", Name: "Delta Grant", Status: GrantUpcoming, Deadline: day("2027-02-01"), AmountMax: 50, Category: "tech"},
		{ID: "g6", Name: "Early Grant", Status: GrantOpen, Deadline: day("2026-03-01"), AmountMax: 10, Category: "tech"},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}

	return out
}

func grantID(g Grant) string { return g.ID }

func TestFilterGrants_SortOrder(t *testing.T) {
	got := FilterGrants(sampleGrants(), GrantFilter{})

	assert.Equal(t, []string{"g4", "g6", "g3", "g2", "g5", "g1"}, ids(got, grantID))

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Status.Rank(), got[i].Status.Rank())
	}
}

func TestFilterGrants_PredicatesCompose(t *testing.T) {
	grants := sampleGrants()
	saved := NewSavedSet([]string{"g2", "g3", "g4"})

	tests := []struct {
		name   string
		filter GrantFilter
		want   []string
	}{
		{"search matches tag", GrantFilter{Search: "ai"}, []string{"g2"}},
		{"search is case insensitive", GrantFilter{Search: "GAMMA"}, []string{"g4"}},
		{"status", GrantFilter{Status: GrantOpen}, []string{"g6", "g3", "g2"}},
		{"status and category", GrantFilter{Status: GrantOpen, Category: "TECH"}, []string{"g6", "g2"}},
		{"saved only", GrantFilter{SavedOnly: true, Saved: saved}, []string{"g4", "g3", "g2"}},
		{"saved and category", GrantFilter{SavedOnly: true, Saved: saved, Category: "green"}, []string{"g3"}},
		{"no match", GrantFilter{Search: "nothing"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterGrants(grants, tt.filter)
			assert.Equal(t, tt.want, ids(got, grantID))
			for _, g := range got {
				assert.True(t, tt.filter.Matches(g))
			}
		})
	}
}

func TestFilterGrants_DoesNotReorderInput(t *testing.T) {
	grants := sampleGrants()
	_ = FilterGrants(grants, GrantFilter{})
	assert.Equal(t, "g1", grants[0].ID)
}

func TestGrantStatus_UnknownSortsLast(t *testing.T) {
	assert.Equal(t, 4, GrantStatus("archived").Rank())
}

func TestSummarizeGrants(t *testing.T) {
	s := SummarizeGrants(sampleGrants())

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 3, s.ByStatus[GrantOpen])
	assert.Equal(t, 1, s.ByStatus[GrantClosed])
	assert.Equal(t, int64(500+250+1000+10), s.OpenFunding)
}

func TestFilterInvestors(t *testing.T) {
	investors := []Investor{
		{ID: "i1", Name: "Nora", Type: InvestorAngel, Stages: []string{"pre-seed"}, Sectors: []string{"fintech"}},
		{ID: "i2", Name: "Atlas Ventures", Type: InvestorVC, Stages: []string{"seed", "series-a"}, Sectors: []string{"SaaS"}},
		{ID: "i3", Name: "Mill Labs", Type: InvestorAccelerator, Stages: []string{"pre-seed", "seed"}, Sectors: []string{"saas", "fintech"}},
	}

	all := FilterInvestors(investors, InvestorFilter{})
	assert.Equal(t, []string{"i2", "i3", "i1"}, ids(all, func(i Investor) string { return i.ID }))

	seedSaaS := FilterInvestors(investors, InvestorFilter{Stage: "seed", Sector: "saas"})
	assert.Equal(t, []string{"i2", "i3"}, ids(seedSaaS, func(i Investor) string { return i.ID }))

	angels := FilterInvestors(investors, InvestorFilter{Type: InvestorAngel})
	require.Len(t, angels, 1)
	assert.Equal(t, "Nora", angels[0].Name)

	stats := SummarizeInvestors(investors)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByType[InvestorVC])
}

func TestFilterTools(t *testing.T) {
	tools := []Tool{
		{ID: "t1", Kind: ToolKindAI, Name: "Writer", Rating: 4.2, Pricing: PricingFreemium, HasFreeTier: true},
		{ID: "t2", Kind: ToolKindCloud, Name: "Compute", Rating: 4.8, Pricing: PricingPaid},
		{ID: "t3", Kind: ToolKindDevOps, Name: "Builder", Rating: 4.8, Pricing: PricingFree, HasFreeTier: true},
		{ID: "t4", Kind: ToolKindAI, Name: "Painter", Rating: 3.9, Pricing: PricingPaid},
	}

	all := FilterTools(tools, ToolFilter{})
	assert.Equal(t, []string{"t3", "t2", "t1", "t4"}, ids(all, func(t Tool) string { return t.ID }))

	free := FilterTools(tools, ToolFilter{FreeTierOnly: true, Kind: ToolKindAI})
	assert.Equal(t, []string{"t1"}, ids(free, func(t Tool) string { return t.ID }))

	stats := SummarizeTools(tools)
	assert.Equal(t, 2, stats.ByKind[ToolKindAI])
	assert.Equal(t, 2, stats.FreeTier)
	assert.InDelta(t, 4.425, stats.AverageRating, 1e-9)
}

func TestToggleSaved(t *testing.T) {
	saved, on := ToggleSaved(nil, "g1")
	assert.True(t, on)
	assert.Equal(t, []string{"g1"}, saved)

	saved, on = ToggleSaved(saved, "g2")
	assert.True(t, on)

	original := saved
	saved, on = ToggleSaved(saved, "g1")
	assert.False(t, on)
	assert.Equal(t, []string{"g2"}, saved)
	assert.Equal(t, []string{"g1", "g2"}, original)
}

func TestIcon_Valid(t *testing.T) {
	assert.True(t, IconBrain.Valid())
	assert.False(t, Icon("unicorn").Valid())
}

func TestGrantStatus_Valid(t *testing.T) {
	assert.True(t, GrantClosingSoon.Valid())
	assert.False(t, GrantStatus("rolling").Valid())
	assert.Equal(t, 4, GrantStatus("rolling").Rank())
}
