package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestSimulateCampaign_Deterministic(t *testing.T) {
	c := EmailCampaign{ID: "c1", Subject: "Hello {{name}}", Recipients: 1000}

	a := SimulateCampaign(c, seeded(42))
	b := SimulateCampaign(c, seeded(42))

	assert.Equal(t, a, b)
	assert.True(t, a.Simulated)
}

func TestSimulateCampaign_CountsAreOrdered(t *testing.T) {
	for seed := range uint64(50) {
		r := SimulateCampaign(EmailCampaign{Subject: "Launch!!! Big news!!", Recipients: 2500}, seeded(seed))

		assert.Equal(t, 2500, r.Sent)
		assert.Equal(t, r.Sent, r.Delivered+r.Bounced)
		assert.LessOrEqual(t, r.Opened, r.Delivered)
		assert.LessOrEqual(t, r.Clicked, r.Opened)
		assert.GreaterOrEqual(t, r.OpenRate, 0.0)
		assert.LessOrEqual(t, r.OpenRate, 60.1)
	}
}

func TestSimulateCampaign_NoRecipients(t *testing.T) {
	r := SimulateCampaign(EmailCampaign{Recipients: -5}, seeded(1))

	assert.Zero(t, r.Sent)
	assert.Zero(t, r.OpenRate)
	assert.Zero(t, r.ClickRate)
}

func TestSummarizeCampaigns(t *testing.T) {
	campaigns := []EmailCampaign{
		{ID: "a", Results: &CampaignResults{Sent: 100, Opened: 20, Clicked: 4, OpenRate: 21.0, ClickRate: 20.0}},
		{ID: "b", Results: &CampaignResults{Sent: 200, Opened: 70, Clicked: 7, OpenRate: 36.0, ClickRate: 10.0}},
		{ID: "c"},
	}

	s := SummarizeCampaigns(campaigns)

	assert.Equal(t, 3, s.Campaigns)
	assert.Equal(t, 2, s.Sent)
	assert.Equal(t, 1, s.Drafts)
	assert.Equal(t, 300, s.EmailsSent)
	assert.InDelta(t, 28.5, s.AvgOpenRate, 1e-9)
	assert.InDelta(t, 15.0, s.AvgClickRate, 1e-9)
	assert.Equal(t, "b", s.BestCampaignID)

	assert.Zero(t, SummarizeCampaigns(nil).AvgOpenRate)
}
