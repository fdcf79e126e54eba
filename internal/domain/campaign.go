package domain

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// CampaignStatus is the lifecycle state of an email campaign.
type CampaignStatus string

const (
	CampaignDraft CampaignStatus = "draft"
	CampaignSent  CampaignStatus = "sent"
)

// EmailCampaign is a campaign in the email simulator.
type EmailCampaign struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Subject     string           `json:"subject"`
	PreviewText string           `json:"previewText,omitempty"`
	Body        string           `json:"body"`
	Segment     string           `json:"segment"`
	Recipients  int              `json:"recipients"`
	Status      CampaignStatus   `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	SentAt      *time.Time       `json:"sentAt,omitempty"`
	Results     *CampaignResults `json:"results,omitempty"`
}

// CampaignResults are the outcome of a simulated send. Counts satisfy
// Clicked <= Opened <= Delivered <= Sent.
type CampaignResults struct {
	Sent         int     `json:"sent"`
	Delivered    int     `json:"delivered"`
	Bounced      int     `json:"bounced"`
	Opened       int     `json:"opened"`
	Clicked      int     `json:"clicked"`
	Unsubscribed int     `json:"unsubscribed"`
	OpenRate     float64 `json:"openRate"`
	ClickRate    float64 `json:"clickRate"`
	BounceRate   float64 `json:"bounceRate"`
	Simulated    bool    `json:"simulated"`
}

// EmailCampaignData is the persisted state of the simulator.
type EmailCampaignData struct {
	Campaigns []EmailCampaign `json:"campaigns"`
}

const (
	longSubject = 60
	minOpenRate = 0.05
	maxOpenRate = 0.6
)

// SimulateCampaign draws plausible engagement numbers for c. Personalized
// subjects open better; long or shouty subjects open worse. The same rng
// seed always gives the same result.
func SimulateCampaign(c EmailCampaign, rng *rand.Rand) CampaignResults {
	r := CampaignResults{Sent: max(0, c.Recipients), Simulated: true}

	bounce := uniform(rng, 0.01, 0.05)
	open := uniform(rng, 0.15, 0.35)
	click := uniform(rng, 0.05, 0.25)
	unsub := uniform(rng, 0, 0.01)

	subject := strings.ToLower(c.Subject)
	if strings.Contains(subject, "{{") || strings.Contains(subject, "{name}") {
		open += 0.05
	}
	if len(c.Subject) > longSubject {
		open -= 0.05
	}
	if strings.Count(c.Subject, "!") > 1 {
		open -= 0.03
	}
	open = math.Max(minOpenRate, math.Min(maxOpenRate, open))

	r.Bounced = int(math.Round(float64(r.Sent) * bounce))
	r.Delivered = r.Sent - r.Bounced
	r.Opened = int(math.Round(float64(r.Delivered) * open))
	r.Clicked = int(math.Round(float64(r.Opened) * click))
	r.Unsubscribed = int(math.Round(float64(r.Delivered) * unsub))

	r.BounceRate = percent(r.Bounced, r.Sent)
	r.OpenRate = percent(r.Opened, r.Delivered)
	r.ClickRate = percent(r.Clicked, r.Opened)

	return r
}

// CampaignStats aggregates every campaign in the simulator.
type CampaignStats struct {
	Campaigns      int     `json:"campaigns"`
	Sent           int     `json:"sent"`
	Drafts         int     `json:"drafts"`
	EmailsSent     int     `json:"emailsSent"`
	TotalOpened    int     `json:"totalOpened"`
	TotalClicked   int     `json:"totalClicked"`
	AvgOpenRate    float64 `json:"avgOpenRate"`
	AvgClickRate   float64 `json:"avgClickRate"`
	BestCampaignID string  `json:"bestCampaignId,omitempty"`
}

// SummarizeCampaigns averages rates over campaigns that have results.
func SummarizeCampaigns(campaigns []EmailCampaign) CampaignStats {
	s := CampaignStats{Campaigns: len(campaigns)}

	var openSum, clickSum, best float64
	for _, c := range campaigns {
		if c.Results == nil {
			s.Drafts++
			continue
		}
		s.Sent++
		s.EmailsSent += c.Results.Sent
		s.TotalOpened += c.Results.Opened
		s.TotalClicked += c.Results.Clicked
		openSum += c.Results.OpenRate
		clickSum += c.Results.ClickRate
		if s.BestCampaignID == "" || c.Results.OpenRate > best {
			best = c.Results.OpenRate
			s.BestCampaignID = c.ID
		}
	}

	if s.Sent > 0 {
		s.AvgOpenRate = round1(openSum / float64(s.Sent))
		s.AvgClickRate = round1(clickSum / float64(s.Sent))
	}

	return s
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}

	return round1(float64(part) * 100 / float64(whole))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
