package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

func newGuideService(t *testing.T) *GuideService {
	t.Helper()

	deps := newTestDeps(t)

	return NewGuideService(deps, loadCatalog(t), newTestExports(deps, nil),
		GuideServiceConfig{CertificateName: "Test Founder"})
}

func TestGuideService_List(t *testing.T) {
	ctx := context.Background()
	svc := newGuideService(t)

	_, err := svc.CompleteChapter(ctx, ws, "legal-basics", "entity")
	require.NoError(t, err)

	guides, err := svc.List(ctx, ws)
	require.NoError(t, err)
	require.NotEmpty(t, guides)

	byID := make(map[string]GuideSummary, len(guides))
	for _, g := range guides {
		byID[g.ID] = g
	}

	legal := byID["legal-basics"]
	assert.Equal(t, 4, legal.Chapters)
	assert.Positive(t, legal.Minutes)
	assert.Equal(t, 25, legal.Status.Percent)
	assert.Equal(t, []string{"entity"}, legal.Status.Completed)

	assert.Zero(t, byID["fundraising-101"].Status.Percent)
}

func TestGuideService_CompleteChapter(t *testing.T) {
	ctx := context.Background()
	svc := newGuideService(t)

	t.Run("awards chapter and guide experience", func(t *testing.T) {
		var last domain.ChapterResult
		for _, ch := range []string{"stages", "instruments", "pitch"} {
			res, err := svc.CompleteChapter(ctx, ws, "fundraising-101", ch)
			require.NoError(t, err)
			last = res
		}

		assert.True(t, last.GuideCompleted)
		assert.Equal(t, domain.ChapterXP+domain.GuideBonusXP, last.XPAwarded)

		p, err := svc.Progress(ctx, ws)
		require.NoError(t, err)
		assert.Equal(t, 3*domain.ChapterXP+domain.GuideBonusXP, p.XP)
		assert.Equal(t, 1, p.GuidesDone)
		assert.Equal(t, 3, p.ChaptersRead)
		assert.Contains(t, p.Badges, domain.BadgeFirstSteps)
	})

	t.Run("re-reading awards nothing", func(t *testing.T) {
		res, err := svc.CompleteChapter(ctx, ws, "fundraising-101", "pitch")
		require.NoError(t, err)

		assert.True(t, res.AlreadyDone)
		assert.Zero(t, res.XPAwarded)
		assert.False(t, res.GuideCompleted)
	})

	t.Run("unknown chapter", func(t *testing.T) {
		_, err := svc.CompleteChapter(ctx, ws, "fundraising-101", "epilogue")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("unknown guide", func(t *testing.T) {
		_, err := svc.CompleteChapter(ctx, ws, "astrology", "intro")
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestGuideService_Progress_Empty(t *testing.T) {
	p, err := newGuideService(t).Progress(context.Background(), ws)
	require.NoError(t, err)

	assert.Equal(t, 1, p.Level)
	assert.NotNil(t, p.Badges)
	assert.Zero(t, p.ChaptersRead)
}

func TestGuideService_Certificate(t *testing.T) {
	ctx := context.Background()
	svc := newGuideService(t)

	_, err := svc.Certificate(ctx, ws, "fundraising-101", "", domain.FormatText)
	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))

	for _, ch := range []string{"stages", "instruments", "pitch"} {
		_, err := svc.CompleteChapter(ctx, ws, "fundraising-101", ch)
		require.NoError(t, err)
	}

	t.Run("defaults the recipient", func(t *testing.T) {
		exp, err := svc.Certificate(ctx, ws, "fundraising-101", "", domain.FormatText)
		require.NoError(t, err)

		assert.Equal(t, "certificate-fundraising-101-2026-03-01.txt", exp.Filename)
		assert.Contains(t, string(exp.Data), "This certifies that Test Founder")
		assert.Contains(t, string(exp.Data), "on 2026-03-01.")
	})

	t.Run("named recipient as pdf", func(t *testing.T) {
		exp, err := svc.Certificate(ctx, ws, "fundraising-101", "Ada", domain.FormatPDF)
		require.NoError(t, err)
		assert.Equal(t, domain.FormatPDF, exp.Format)
	})
}

func TestGuideService_Text(t *testing.T) {
	ctx := context.Background()
	svc := newGuideService(t)

	exp, err := svc.Text(ctx, ws, "legal-basics")
	require.NoError(t, err)

	assert.Equal(t, "guide-legal-basics-2026-03-01.txt", exp.Filename)
	assert.NotEmpty(t, exp.Data)

	_, err = svc.Text(ctx, ws, "astrology")
	assert.True(t, domain.IsNotFound(err))
}
