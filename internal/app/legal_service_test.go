package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

func TestLegalService(t *testing.T) {
	ctx := context.Background()
	svc := NewLegalService(newTestDeps(t), loadCatalog(t))

	structures, err := svc.Structures(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, structures)

	q := domain.Questionnaire{Owners: 3, WantsLiability: true, PlansToRaiseCapital: true}
	matches, err := svc.Recommend(ctx, ws, q)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score, "matches are ranked")
	}
	for _, m := range matches {
		assert.False(t, m.Structure.Nonprofit)
		assert.NotEqual(t, "sole-proprietorship", m.Structure.ID, "three owners rule out sole ownership")
	}

	choice, err := svc.Choice(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, q, choice.Answers)
	assert.Empty(t, choice.Selected)

	choice, err = svc.Choose(ctx, ws, "c-corp")
	require.NoError(t, err)
	assert.Equal(t, "c-corp", choice.Selected)
	require.NotNil(t, choice.DecidedAt)
	assert.Equal(t, testNow, *choice.DecidedAt)
	assert.Equal(t, q, choice.Answers, "choosing keeps the answers")

	t.Run("unknown structure", func(t *testing.T) {
		_, err := svc.Choose(ctx, ws, "guild")

		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("negative owners", func(t *testing.T) {
		_, err := svc.Recommend(ctx, ws, domain.Questionnaire{Owners: -1})

		assert.True(t, domain.IsValidation(err))
	})
}
