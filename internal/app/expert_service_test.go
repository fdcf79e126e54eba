package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

func expert(email string) domain.ExpertRegistration {
	return domain.ExpertRegistration{
		Name:         " Grace Hopper ",
		Email:        email,
		Expertise:    []string{"compilers", " "},
		Availability: "weekends",
		Bio:          "Navy rear admiral and programmer.",
	}
}

func TestExpertService_Register(t *testing.T) {
	ctx := context.Background()
	svc := NewExpertService(newTestDeps(t))

	reg, err := svc.Register(ctx, ws, expert("grace@example.com"))
	require.NoError(t, err)

	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, "Grace Hopper", reg.Name)
	assert.Equal(t, []string{"compilers"}, reg.Expertise)
	assert.Equal(t, testNow, reg.RegisteredAt)

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		_, err := svc.Register(ctx, ws, expert(" GRACE@example.com "))
		assert.True(t, domain.IsConflict(err))
	})

	t.Run("blank expertise", func(t *testing.T) {
		in := expert("other@example.com")
		in.Expertise = []string{"", "  "}

		_, err := svc.Register(ctx, ws, in)

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "expertise", ve.Field)
	})

	t.Run("list in sign-up order", func(t *testing.T) {
		_, err := svc.Register(ctx, ws, expert("alan@example.com"))
		require.NoError(t, err)

		list, err := svc.List(ctx, ws)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "grace@example.com", list[0].Email)
		assert.Equal(t, "alan@example.com", list[1].Email)
	})
}

func TestExpertService_List_Empty(t *testing.T) {
	list, err := NewExpertService(newTestDeps(t)).List(context.Background(), ws)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
