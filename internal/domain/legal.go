package domain

import (
	"cmp"
	"slices"
	"time"
)

// LegalStructure describes a business entity type and its traits.
type LegalStructure struct {
	ID                  string   `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	Description         string   `json:"description" yaml:"description"`
	LiabilityProtection bool     `json:"liabilityProtection" yaml:"liabilityProtection"`
	PassThroughTax      bool     `json:"passThroughTax" yaml:"passThroughTax"`
	InvestorFriendly    bool     `json:"investorFriendly" yaml:"investorFriendly"`
	Nonprofit           bool     `json:"nonprofit" yaml:"nonprofit"`
	MinOwners           int      `json:"minOwners" yaml:"minOwners"`
	MaxOwners           int      `json:"maxOwners,omitempty" yaml:"maxOwners"` // 0 means unlimited
	SetupCost           Level    `json:"setupCost" yaml:"setupCost"`
	Complexity          Level    `json:"complexity" yaml:"complexity"`
	Pros                []string `json:"pros" yaml:"pros"`
	Cons                []string `json:"cons" yaml:"cons"`
	Icon                Icon     `json:"icon" yaml:"icon"`
}

// Questionnaire holds the founder's answers to the structure picker.
type Questionnaire struct {
	Owners              int   `json:"owners"`
	WantsLiability      bool  `json:"wantsLiabilityProtection"`
	PlansToRaiseCapital bool  `json:"plansToRaiseCapital"`
	PrefersPassThrough  bool  `json:"prefersPassThroughTax"`
	PrefersSimplicity   bool  `json:"prefersSimplicity"`
	Nonprofit           bool  `json:"nonprofit"`
	Budget              Level `json:"budget"`
}

// StructureMatch is a ranked recommendation.
type StructureMatch struct {
	Structure LegalStructure `json:"structure"`
	Score     int            `json:"score"`
	Reasons   []string       `json:"reasons"`
}

// LegalChoice is the persisted state of the structure picker.
type LegalChoice struct {
	Answers   Questionnaire `json:"answers"`
	Selected  string        `json:"selectedStructure,omitempty"`
	DecidedAt *time.Time    `json:"decidedAt,omitempty"`
}

const legalBaseScore = 50

// RecommendStructures ranks eligible structures for q, best first. A structure
// is ineligible when the owner count falls outside its range or its
// nonprofit status differs from the answer.
func RecommendStructures(structures []LegalStructure, q Questionnaire) []StructureMatch {
	owners := max(1, q.Owners)

	out := make([]StructureMatch, 0, len(structures))
	for _, s := range structures {
		if s.Nonprofit != q.Nonprofit || owners < s.MinOwners || (s.MaxOwners > 0 && owners > s.MaxOwners) {
			continue
		}

		m := StructureMatch{Structure: s, Score: legalBaseScore, Reasons: []string{}}
		add := func(points int, reason string) {
			m.Score += points
			m.Reasons = append(m.Reasons, reason)
		}

		if q.WantsLiability {
			if s.LiabilityProtection {
				add(25, "Separates personal assets from business debts")
			} else {
				add(-25, "Owners remain personally liable")
			}
		}
		if q.PlansToRaiseCapital {
			if s.InvestorFriendly {
				add(30, "Preferred by institutional investors")
			} else {
				add(-20, "Hard to issue equity to investors")
			}
		}
		if q.PrefersPassThrough && s.PassThroughTax {
			add(20, "Profits are taxed once on the owners' returns")
		}
		if q.Budget == LevelLow {
			switch s.SetupCost {
			case LevelLow:
				add(15, "Inexpensive to form")
			case LevelHigh:
				add(-10, "Formation and upkeep are costly")
			}
		}
		if q.PrefersSimplicity && s.Complexity == LevelLow {
			add(10, "Little ongoing paperwork")
		}

		m.Score = min(100, max(0, m.Score))
		out = append(out, m)
	}

	slices.SortStableFunc(out, func(a, b StructureMatch) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.Structure.Name, b.Structure.Name))
	})

	return out
}
