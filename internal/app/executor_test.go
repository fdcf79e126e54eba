package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	ctx := context.Background()
	exec := NewExecutor(discardLogger())
	boom := errors.New("boom")

	var stored []string
	op := func(failAt ExecutionStep) Operation[string, string] {
		fails := func(step ExecutionStep) error {
			if step == failAt {
				return boom
			}
			return nil
		}

		return Operation[string, string]{
			Name:     "test.op",
			Validate: func(context.Context, string) error { return fails(StepValidate) },
			Perform: func(_ context.Context, in string) (string, error) {
				return in + "!", fails(StepPerform)
			},
			Verify: func(context.Context, string, string) error { return fails(StepVerify) },
			Archive: func(_ context.Context, _ string, out string) error {
				if err := fails(StepArchive); err != nil {
					return err
				}
				stored = append(stored, out)
				return nil
			},
		}
	}

	t.Run("runs every step", func(t *testing.T) {
		stored = nil

		out, err := Execute(ctx, exec, op(""), "hi")
		require.NoError(t, err)

		assert.Equal(t, "hi!", out)
		assert.Equal(t, []string{"hi!"}, stored)
	})

	for _, step := range []ExecutionStep{StepValidate, StepPerform, StepVerify, StepArchive} {
		t.Run("fails in "+string(step), func(t *testing.T) {
			stored = nil

			out, err := Execute(ctx, exec, op(step), "hi")

			require.ErrorIs(t, err, boom)
			assert.Empty(t, out)
			assert.Empty(t, stored)

			got, ok := GetExecutionStep(err)
			require.True(t, ok)
			assert.Equal(t, step, got)
			assert.Contains(t, err.Error(), "test.op")
		})
	}

	t.Run("nil steps are skipped", func(t *testing.T) {
		out, err := Execute(ctx, NewExecutor(nil), Operation[int, int]{Name: "empty"}, 1)
		require.NoError(t, err)
		assert.Zero(t, out)
	})
}

func TestGetExecutionStep_OtherError(t *testing.T) {
	_, ok := GetExecutionStep(errors.New("plain"))
	assert.False(t, ok)
}
