package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/mocks"
)

func enabledFlags(t *testing.T, enabled bool) *mocks.MockFeatureFlags {
	t.Helper()

	flags := mocks.NewMockFeatureFlags(t)
	flags.EXPECT().IsEnabled(mock.Anything, FlagNameGenerator, true).Return(enabled)
	flags.EXPECT().GetString(mock.Anything, FlagNameStyle, string(domain.StyleModern)).Return(string(domain.StyleModern)).Maybe()
	flags.EXPECT().GetInt(mock.Anything, FlagNameCount, domain.DefaultNameCount).Return(domain.DefaultNameCount).Maybe()

	return flags
}

func TestNameService_Generate(t *testing.T) {
	ctx := context.Background()
	req := domain.NameRequest{Keywords: []string{"solar", "grid"}, Style: domain.StyleTech, Count: 5}

	t.Run("returns simulated suggestions", func(t *testing.T) {
		svc := NewNameService(newTestDeps(t), enabledFlags(t, true), 0)

		names, err := svc.Generate(ctx, req)
		require.NoError(t, err)

		assert.NotEmpty(t, names)
		assert.LessOrEqual(t, len(names), 5)
		for _, n := range names {
			assert.True(t, n.Simulated, n.Name)
		}
	})

	t.Run("same request and seed repeat", func(t *testing.T) {
		first, err := NewNameService(newTestDeps(t), enabledFlags(t, true), 0).Generate(ctx, req)
		require.NoError(t, err)
		second, err := NewNameService(newTestDeps(t), enabledFlags(t, true), 0).Generate(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("disabled flag is forbidden", func(t *testing.T) {
		svc := NewNameService(newTestDeps(t), enabledFlags(t, false), 0)

		_, err := svc.Generate(ctx, req)
		assert.True(t, domain.IsForbidden(err))
	})

	t.Run("no keywords", func(t *testing.T) {
		svc := NewNameService(newTestDeps(t), enabledFlags(t, true), 0)

		_, err := svc.Generate(ctx, domain.NameRequest{})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("flags fill in style and count", func(t *testing.T) {
		flags := mocks.NewMockFeatureFlags(t)
		flags.EXPECT().IsEnabled(mock.Anything, FlagNameGenerator, true).Return(true)
		flags.EXPECT().GetString(mock.Anything, FlagNameStyle, string(domain.StyleModern)).Return(string(domain.StyleClassic))
		flags.EXPECT().GetInt(mock.Anything, FlagNameCount, domain.DefaultNameCount).Return(2)

		names, err := NewNameService(newTestDeps(t), flags, 0).Generate(ctx, domain.NameRequest{Keywords: []string{"harbor"}})
		require.NoError(t, err)

		require.NotEmpty(t, names)
		assert.LessOrEqual(t, len(names), 2)
		for _, n := range names {
			assert.Equal(t, domain.StyleClassic, n.Style)
		}
	})

	t.Run("cancelled during the delay", func(t *testing.T) {
		svc := NewNameService(newTestDeps(t), enabledFlags(t, true), time.Hour)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.Generate(cctx, req)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
