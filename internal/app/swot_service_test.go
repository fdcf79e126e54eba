package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

func newTestSWOT(t *testing.T) *SWOTService {
	t.Helper()

	deps := newTestDeps(t)
	return NewSWOTService(deps, newTestExports(deps, nil))
}

func TestSWOTService_AddItem(t *testing.T) {
	ctx := context.Background()
	svc := newTestSWOT(t)

	item, err := svc.AddItem(ctx, ws, domain.QuadrantStrengths, SWOTItemInput{Text: "  Experienced team  "})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Experienced team", item.Text)
	assert.Equal(t, domain.LevelMedium, item.Priority)
	assert.Equal(t, domain.LevelMedium, item.Impact)

	a, err := svc.Get(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, []domain.SWOTItem{item}, a.Strengths)

	t.Run("rejects blank text", func(t *testing.T) {
		_, err := svc.AddItem(ctx, ws, domain.QuadrantThreats, SWOTItemInput{Text: " "})

		assert.True(t, domain.IsValidation(err))
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := svc.AddItem(ctx, ws, domain.QuadrantThreats, SWOTItemInput{Text: "x", Priority: "urgent"})

		assert.True(t, domain.IsValidation(err))
	})
}

func TestSWOTService_UpdateDeleteItem(t *testing.T) {
	ctx := context.Background()
	svc := newTestSWOT(t)

	item, err := svc.AddItem(ctx, ws, domain.QuadrantWeaknesses, SWOTItemInput{Text: "No revenue"})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, ws, domain.QuadrantWeaknesses, item.ID,
		SWOTItemInput{Text: "Little revenue", Priority: domain.LevelHigh, Impact: domain.LevelLow})
	require.NoError(t, err)
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, domain.LevelHigh, updated.Priority)

	_, err = svc.UpdateItem(ctx, ws, domain.QuadrantStrengths, item.ID, SWOTItemInput{Text: "x"})
	assert.True(t, domain.IsNotFound(err), "item lives in another quadrant")

	require.NoError(t, svc.DeleteItem(ctx, ws, domain.QuadrantWeaknesses, item.ID))
	assert.True(t, domain.IsNotFound(svc.DeleteItem(ctx, ws, domain.QuadrantWeaknesses, item.ID)))
}

func TestSWOTService_GenerateStrategies(t *testing.T) {
	ctx := context.Background()
	svc := newTestSWOT(t)

	strategies, err := svc.GenerateStrategies(ctx, ws)
	require.NoError(t, err)
	assert.NotNil(t, strategies)
	assert.Empty(t, strategies)

	high := SWOTItemInput{Priority: domain.LevelHigh}
	for q, text := range map[domain.Quadrant]string{
		domain.QuadrantStrengths:     "Brand",
		domain.QuadrantWeaknesses:    "Cash",
		domain.QuadrantOpportunities: "New market",
		domain.QuadrantThreats:       "Competitor",
	} {
		in := high
		in.Text = text
		_, err := svc.AddItem(ctx, ws, q, in)
		require.NoError(t, err)
	}
	_, err = svc.AddItem(ctx, ws, domain.QuadrantStrengths, SWOTItemInput{Text: "Low priority", Priority: domain.LevelLow})
	require.NoError(t, err)

	strategies, err = svc.GenerateStrategies(ctx, ws)
	require.NoError(t, err)
	assert.Len(t, strategies, 4)

	a, err := svc.Get(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, strategies, a.Strategies, "strategies are stored with the worksheet")

	summary, err := svc.Summary(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Total)
}

func TestSWOTService_ExportImport(t *testing.T) {
	ctx := context.Background()
	svc := newTestSWOT(t)

	_, err := svc.AddItem(ctx, ws, domain.QuadrantStrengths, SWOTItemInput{Text: "Patent"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, ws, domain.QuadrantThreats, SWOTItemInput{Text: "Regulation"})
	require.NoError(t, err)

	exp, err := svc.Export(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatJSON, exp.Format)
	assert.Contains(t, exp.Filename, "swot-analysis")

	imported, err := svc.Import(ctx, "copy", exp.Data)
	require.NoError(t, err)

	original, err := svc.Get(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, original.AllItems(), imported.AllItems())

	t.Run("rejects duplicate ids", func(t *testing.T) {
		doc := domain.SWOTAnalysis{
			Strengths: []domain.SWOTItem{{ID: "a", Text: "x"}},
			Threats:   []domain.SWOTItem{{ID: "a", Text: "y"}},
		}
		raw, err := json.Marshal(doc)
		require.NoError(t, err)

		_, err = svc.Import(ctx, ws, raw)

		assert.True(t, domain.IsValidation(err))
		step, ok := GetExecutionStep(err)
		assert.True(t, ok)
		assert.Equal(t, StepValidate, step)
	})

	t.Run("rejects items without ids", func(t *testing.T) {
		_, err := svc.Import(ctx, ws, []byte(`{"strengths":[{"text":"x"}]}`))

		assert.True(t, domain.IsValidation(err))
	})

	t.Run("rejects non json", func(t *testing.T) {
		_, err := svc.Import(ctx, ws, []byte("strengths: x"))

		assert.True(t, domain.IsValidation(err))
	})
}

func TestSWOTService_Replace(t *testing.T) {
	ctx := context.Background()
	svc := newTestSWOT(t)

	a, err := svc.Replace(ctx, ws, domain.SWOTAnalysis{
		Opportunities: []domain.SWOTItem{{Text: " Export "}},
	})
	require.NoError(t, err)

	require.Len(t, a.Opportunities, 1)
	assert.NotEmpty(t, a.Opportunities[0].ID)
	assert.Equal(t, "Export", a.Opportunities[0].Text)
	assert.Equal(t, domain.LevelMedium, a.Opportunities[0].Priority)
	assert.NotNil(t, a.Strengths)
	assert.Nil(t, a.Strategies, "nothing generated yet")

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := svc.Replace(ctx, ws, domain.SWOTAnalysis{
			Threats: []domain.SWOTItem{{Text: "Churn"}, {Text: "Rates", Impact: "severe"}},
		})

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "threats[1].impact", ve.Field)
		assert.Equal(t, "severe", ve.Value)

		stored, err := svc.Get(ctx, ws)
		require.NoError(t, err)
		assert.Equal(t, a, stored, "rejected worksheet is not stored")
	})

	t.Run("sent strategies are regenerated from the items", func(t *testing.T) {
		low := domain.SWOTItem{ID: "s1", Text: "Brand", Priority: domain.LevelLow}
		opp := domain.SWOTItem{ID: "o1", Text: "Market", Priority: domain.LevelHigh}

		got, err := svc.Replace(ctx, ws, domain.SWOTAnalysis{
			Strengths:     []domain.SWOTItem{low},
			Opportunities: []domain.SWOTItem{opp},
			Strategies: []domain.Strategy{{
				ID: "bogus", Kind: domain.StrategySO, InternalItem: low, ExternalItem: opp,
			}},
		})
		require.NoError(t, err)
		assert.NotNil(t, got.Strategies)
		assert.Empty(t, got.Strategies)

		stored, err := svc.Get(ctx, ws)
		require.NoError(t, err)
		assert.Empty(t, stored.Strategies)
	})
}

func TestSWOTService_StrategiesFollowItems(t *testing.T) {
	ctx := context.Background()
	svc := newTestSWOT(t)

	s, err := svc.AddItem(ctx, ws, domain.QuadrantStrengths, SWOTItemInput{Text: "Brand", Priority: domain.LevelHigh})
	require.NoError(t, err)
	o, err := svc.AddItem(ctx, ws, domain.QuadrantOpportunities, SWOTItemInput{Text: "New market", Priority: domain.LevelHigh})
	require.NoError(t, err)

	a, err := svc.Get(ctx, ws)
	require.NoError(t, err)
	assert.Nil(t, a.Strategies, "edits alone do not generate strategies")

	strategies, err := svc.GenerateStrategies(ctx, ws)
	require.NoError(t, err)
	require.Len(t, strategies, 1)

	stored := func() []domain.Strategy {
		t.Helper()
		a, err := svc.Get(ctx, ws)
		require.NoError(t, err)
		return a.Strategies
	}

	_, err = svc.UpdateItem(ctx, ws, domain.QuadrantStrengths, s.ID, SWOTItemInput{Text: "Brand", Priority: domain.LevelLow})
	require.NoError(t, err)
	got := stored()
	assert.NotNil(t, got)
	assert.Empty(t, got, "a demoted strength no longer pairs")

	_, err = svc.UpdateItem(ctx, ws, domain.QuadrantStrengths, s.ID, SWOTItemInput{Text: "Brand", Priority: domain.LevelHigh})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, ws, domain.QuadrantThreats, SWOTItemInput{Text: "Competitor", Priority: domain.LevelHigh})
	require.NoError(t, err)

	got = stored()
	require.Len(t, got, 2)
	assert.Equal(t, domain.StrategySO, got[0].Kind)
	assert.Equal(t, domain.StrategyST, got[1].Kind)
	for _, st := range got {
		assert.Equal(t, domain.LevelHigh, st.InternalItem.Priority)
		assert.Equal(t, domain.LevelHigh, st.ExternalItem.Priority)
	}

	require.NoError(t, svc.DeleteItem(ctx, ws, domain.QuadrantOpportunities, o.ID))
	got = stored()
	require.Len(t, got, 1)
	assert.Equal(t, domain.StrategyST, got[0].Kind)
}

func TestSWOTService_ImportRejectsUnknownLevels(t *testing.T) {
	ctx := context.Background()
	svc := newTestSWOT(t)

	tests := []struct {
		name  string
		doc   string
		field string
		value string
	}{
		{
			name:  "wrong case",
			doc:   `{"strengths":[{"id":"a","text":"Brand","priority":"High"}]}`,
			field: "strengths[0].priority",
			value: "High",
		},
		{
			name:  "unknown word",
			doc:   `{"strengths":[{"id":"a","text":"Brand"}],"opportunities":[{"id":"b","text":"Market","priority":"urgent"}]}`,
			field: "opportunities[0].priority",
			value: "urgent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(ctx, ws, []byte(tt.doc))

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.value, ve.Value)

			step, ok := GetExecutionStep(err)
			assert.True(t, ok)
			assert.Equal(t, StepValidate, step)
		})
	}

	a, err := svc.Get(ctx, ws)
	require.NoError(t, err)
	assert.Empty(t, a.AllItems(), "nothing was imported")
}

func TestSWOTService_ImportKeepsEmptyStrategies(t *testing.T) {
	ctx := context.Background()
	svc := newTestSWOT(t)

	_, err := svc.AddItem(ctx, ws, domain.QuadrantWeaknesses, SWOTItemInput{Text: "Small team", Priority: domain.LevelLow})
	require.NoError(t, err)
	_, err = svc.GenerateStrategies(ctx, ws)
	require.NoError(t, err)

	exp, err := svc.Export(ctx, ws)
	require.NoError(t, err)
	assert.Contains(t, string(exp.Data), `"strategies": []`)

	imported, err := svc.Import(ctx, "copy", exp.Data)
	require.NoError(t, err)
	assert.NotNil(t, imported.Strategies)
	assert.Empty(t, imported.Strategies)
}
