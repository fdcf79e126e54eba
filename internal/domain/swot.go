package domain

import (
	"fmt"
	"strings"
)

// Level is a three-step rating used for priority, impact, severity and importance.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	default:
		return false
	}
}

// Quadrant names one of the four SWOT lists.
type Quadrant string

const (
	QuadrantStrengths     Quadrant = "strengths"
	QuadrantWeaknesses    Quadrant = "weaknesses"
	QuadrantOpportunities Quadrant = "opportunities"
	QuadrantThreats       Quadrant = "threats"
)

// ParseQuadrant converts a path or form value into a Quadrant.
func ParseQuadrant(s string) (Quadrant, error) {
	q := Quadrant(strings.ToLower(strings.TrimSpace(s)))
	switch q {
	case QuadrantStrengths, QuadrantWeaknesses, QuadrantOpportunities, QuadrantThreats:
		return q, nil
	default:
		return "", NewValidationErrorWithValue("quadrant",
			"must be one of strengths, weaknesses, opportunities, threats", s)
	}
}

// SWOTItem is a single entry in one of the SWOT lists.
type SWOTItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Priority Level  `json:"priority"`
	Impact   Level  `json:"impact"`
}

// SWOTAnalysis is the persisted state of the SWOT worksheet.
type SWOTAnalysis struct {
	Strengths     []SWOTItem `json:"strengths"`
	Weaknesses    []SWOTItem `json:"weaknesses"`
	Opportunities []SWOTItem `json:"opportunities"`
	Threats       []SWOTItem `json:"threats"`
	// Strategies is nil until strategies are generated. An empty list
	// means none qualified.
	Strategies    []Strategy `json:"strategies"`
}

// Items returns the list for q. The returned slice aliases the analysis.
func (a *SWOTAnalysis) Items(q Quadrant) []SWOTItem {
	switch q {
	case QuadrantStrengths:
		return a.Strengths
	case QuadrantWeaknesses:
		return a.Weaknesses
	case QuadrantOpportunities:
		return a.Opportunities
	case QuadrantThreats:
		return a.Threats
	default:
		return nil
	}
}

// SetItems replaces the list for q.
func (a *SWOTAnalysis) SetItems(q Quadrant, items []SWOTItem) {
	switch q {
	case QuadrantStrengths:
		a.Strengths = items
	case QuadrantWeaknesses:
		a.Weaknesses = items
	case QuadrantOpportunities:
		a.Opportunities = items
	case QuadrantThreats:
		a.Threats = items
	}
}

// AllItems returns every item across the four quadrants in quadrant order.
func (a *SWOTAnalysis) AllItems() []SWOTItem {
	all := make([]SWOTItem, 0, len(a.Strengths)+len(a.Weaknesses)+len(a.Opportunities)+len(a.Threats))
	all = append(all, a.Strengths...)
	all = append(all, a.Weaknesses...)
	all = append(all, a.Opportunities...)
	all = append(all, a.Threats...)

	return all
}

// StrategyKind identifies which quadrant pairing produced a strategy.
type StrategyKind string

const (
	StrategySO StrategyKind = "SO"
	StrategyST StrategyKind = "ST"
	StrategyWO StrategyKind = "WO"
	StrategyWT StrategyKind = "WT"
)

// Strategy is a suggestion derived from one internal and one external SWOT item.
type Strategy struct {
	ID           string       `json:"id"`
	Kind         StrategyKind `json:"kind"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	InternalItem SWOTItem     `json:"internalItem"`
	ExternalItem SWOTItem     `json:"externalItem"`
}

type strategyRule struct {
	kind        StrategyKind
	internal    Quadrant
	external    Quadrant
	title       string
	description string
}

// strategyRules are evaluated in order; the order defines the output order.
var strategyRules = []strategyRule{
	{StrategySO, QuadrantStrengths, QuadrantOpportunities,
		"Leverage %s to capture %s",
		"Use the strength %q to take advantage of the opportunity %q."},
	{StrategyST, QuadrantStrengths, QuadrantThreats,
		"Use %s to counter %s",
		"Apply the strength %q to reduce exposure to the threat %q."},
	{StrategyWO, QuadrantWeaknesses, QuadrantOpportunities,
		"Overcome %s by pursuing %s",
		"Address the weakness %q so the opportunity %q can be captured."},
	{StrategyWT, QuadrantWeaknesses, QuadrantThreats,
		"Minimize %s to avoid %s",
		"Shore up the weakness %q before the threat %q materializes."},
}

// GenerateStrategies pairs every high-priority internal item with every
// high-priority external item. Items below high priority never participate.
// The input is not modified.
func GenerateStrategies(a SWOTAnalysis) []Strategy {
	var out []Strategy

	for _, rule := range strategyRules {
		internal := highPriority(a.Items(rule.internal))
		external := highPriority(a.Items(rule.external))

		for _, in := range internal {
			for _, ex := range external {
				out = append(out, Strategy{
					ID:           strings.ToLower(string(rule.kind)) + "-" + in.ID + "-" + ex.ID,
					Kind:         rule.kind,
					Title:        fmt.Sprintf(rule.title, in.Text, ex.Text),
					Description:  fmt.Sprintf(rule.description, in.Text, ex.Text),
					InternalItem: in,
					ExternalItem: ex,
				})
			}
		}
	}

	return out
}

// MaxStrategies is the upper bound on len(GenerateStrategies(a)).
func MaxStrategies(a SWOTAnalysis) int {
	hs := len(highPriority(a.Strengths))
	hw := len(highPriority(a.Weaknesses))
	ho := len(highPriority(a.Opportunities))
	ht := len(highPriority(a.Threats))

	return hs*ho + hs*ht + hw*ho + hw*ht
}

func highPriority(items []SWOTItem) []SWOTItem {
	var out []SWOTItem

	for _, it := range items {
		if it.Priority == LevelHigh {
			out = append(out, it)
		}
	}

	return out
}

// QuadrantSummary counts items in one quadrant.
type QuadrantSummary struct {
	Total        int `json:"total"`
	HighPriority int `json:"highPriority"`
	HighImpact   int `json:"highImpact"`
}

// SWOTSummary aggregates the worksheet for dashboards.
type SWOTSummary struct {
	Quadrants map[Quadrant]QuadrantSummary `json:"quadrants"`
	Total     int                          `json:"total"`

	// Balance is internal items divided by all items, 0.5 meaning an even split.
	Balance            float64 `json:"balance"`
	PossibleStrategies int     `json:"possibleStrategies"`
}

// Summarize counts items per quadrant.
func Summarize(a SWOTAnalysis) SWOTSummary {
	s := SWOTSummary{Quadrants: make(map[Quadrant]QuadrantSummary, 4)}

	for _, q := range []Quadrant{QuadrantStrengths, QuadrantWeaknesses, QuadrantOpportunities, QuadrantThreats} {
		var qs QuadrantSummary
		for _, it := range a.Items(q) {
			qs.Total++
			if it.Priority == LevelHigh {
				qs.HighPriority++
			}
			if it.Impact == LevelHigh {
				qs.HighImpact++
			}
		}
		s.Quadrants[q] = qs
		s.Total += qs.Total
	}

	if s.Total > 0 {
		internal := len(a.Strengths) + len(a.Weaknesses)
		s.Balance = float64(internal) / float64(s.Total)
	}

	s.PossibleStrategies = MaxStrategies(a)

	return s
}
