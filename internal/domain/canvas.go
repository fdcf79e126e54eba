package domain

import (
	"fmt"
	"math"
	"strings"
)

// Fit score weights. Coverage weights apply to the share of high-rated
// pains or gains that are addressed; the bonuses reward a filled-in canvas.
const (
	PainCoverageWeight = 40.0
	GainCoverageWeight = 30.0

	JobsBonus     = 10.0
	ProductsBonus = 10.0
	RelieverBonus = 10.0

	JobsBonusMin     = 3
	ProductsBonusMin = 2
	RelieverBonusMin = 3

	// softMatchPrefix is how many leading characters of a pain or gain
	// description must appear in a reliever or creator to count as a match.
	softMatchPrefix = 10

	maxFitScore = 100
)

// CanvasSection names a list on the Value Proposition Canvas.
type CanvasSection string

const (
	SectionJobs          CanvasSection = "jobs"
	SectionPains         CanvasSection = "pains"
	SectionGains         CanvasSection = "gains"
	SectionProducts      CanvasSection = "products"
	SectionPainRelievers CanvasSection = "painRelievers"
	SectionGainCreators  CanvasSection = "gainCreators"
)

// ParseCanvasSection converts a path value into a CanvasSection.
func ParseCanvasSection(s string) (CanvasSection, error) {
	switch sec := CanvasSection(strings.TrimSpace(s)); sec {
	case SectionJobs, SectionPains, SectionGains, SectionProducts, SectionPainRelievers, SectionGainCreators:
		return sec, nil
	default:
		return "", NewValidationErrorWithValue("section",
			"must be one of jobs, pains, gains, products, painRelievers, gainCreators", s)
	}
}

// CustomerJob is something the customer is trying to get done.
type CustomerJob struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Importance  Level  `json:"importance"`
}

// CustomerPain is a frustration or risk around a job.
type CustomerPain struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Severity    Level  `json:"severity"`
}

// CustomerGain is an outcome the customer wants.
type CustomerGain struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Importance  Level  `json:"importance"`
}

// Product is an offering in the value map.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PainReliever describes how a product eases a pain. PainID is a soft
// reference; it is never checked against the pain list.
type PainReliever struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	PainID      string `json:"painId,omitempty"`
}

// GainCreator describes how a product produces a gain. GainID is a soft reference.
type GainCreator struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	GainID      string `json:"gainId,omitempty"`
}

// Canvas is the persisted Value Proposition Canvas.
type Canvas struct {
	Jobs          []CustomerJob  `json:"jobs"`
	Pains         []CustomerPain `json:"pains"`
	Gains         []CustomerGain `json:"gains"`
	Products      []Product      `json:"products"`
	PainRelievers []PainReliever `json:"painRelievers"`
	GainCreators  []GainCreator  `json:"gainCreators"`
}

// IDs returns every item id on the canvas, in section order.
func (c *Canvas) IDs() []string {
	var ids []string
	for _, v := range c.Jobs {
		ids = append(ids, v.ID)
	}
	for _, v := range c.Pains {
		ids = append(ids, v.ID)
	}
	for _, v := range c.Gains {
		ids = append(ids, v.ID)
	}
	for _, v := range c.Products {
		ids = append(ids, v.ID)
	}
	for _, v := range c.PainRelievers {
		ids = append(ids, v.ID)
	}
	for _, v := range c.GainCreators {
		ids = append(ids, v.ID)
	}

	return ids
}

// Remove deletes the item with id from section and reports whether it existed.
func (c *Canvas) Remove(section CanvasSection, id string) bool {
	switch section {
	case SectionJobs:
		return removeByID(&c.Jobs, id, func(v CustomerJob) string { return v.ID })
	case SectionPains:
		return removeByID(&c.Pains, id, func(v CustomerPain) string { return v.ID })
	case SectionGains:
		return removeByID(&c.Gains, id, func(v CustomerGain) string { return v.ID })
	case SectionProducts:
		return removeByID(&c.Products, id, func(v Product) string { return v.ID })
	case SectionPainRelievers:
		return removeByID(&c.PainRelievers, id, func(v PainReliever) string { return v.ID })
	case SectionGainCreators:
		return removeByID(&c.GainCreators, id, func(v GainCreator) string { return v.ID })
	default:
		return false
	}
}

func removeByID[T any](items *[]T, id string, key func(T) string) bool {
	for i, v := range *items {
		if key(v) == id {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return true
		}
	}

	return false
}

// FitRating buckets a fit score.
type FitRating string

const (
	FitStrong   FitRating = "strong"
	FitModerate FitRating = "moderate"
	FitWeak     FitRating = "weak"
)

// FitAnalysis is the result of scoring a canvas.
type FitAnalysis struct {
	Score             int            `json:"score"`
	Rating            FitRating      `json:"rating"`
	PainCoverage      float64        `json:"painCoverage"`
	GainCoverage      float64        `json:"gainCoverage"`
	CompletenessBonus float64        `json:"completenessBonus"`
	UnaddressedPains  []CustomerPain `json:"unaddressedPains"`
	UnaddressedGains  []CustomerGain `json:"unaddressedGains"`
	Recommendations   []string       `json:"recommendations"`
}

// AnalyzeFit scores how well relievers and creators cover the high-severity
// pains and high-importance gains. The score is always within [0,100] and
// never decreases when relievers or creators are added.
func AnalyzeFit(c Canvas) FitAnalysis {
	var fa FitAnalysis

	var highPains, coveredPains int
	for _, p := range c.Pains {
		if p.Severity != LevelHigh {
			continue
		}
		highPains++
		if painCovered(p, c.PainRelievers) {
			coveredPains++
		} else {
			fa.UnaddressedPains = append(fa.UnaddressedPains, p)
		}
	}

	var highGains, coveredGains int
	for _, g := range c.Gains {
		if g.Importance != LevelHigh {
			continue
		}
		highGains++
		if gainCovered(g, c.GainCreators) {
			coveredGains++
		} else {
			fa.UnaddressedGains = append(fa.UnaddressedGains, g)
		}
	}

	fa.PainCoverage = float64(coveredPains) / float64(max(1, highPains))
	fa.GainCoverage = float64(coveredGains) / float64(max(1, highGains))

	if len(c.Jobs) >= JobsBonusMin {
		fa.CompletenessBonus += JobsBonus
	}
	if len(c.Products) >= ProductsBonusMin {
		fa.CompletenessBonus += ProductsBonus
	}
	if len(c.PainRelievers) >= RelieverBonusMin && len(c.GainCreators) >= RelieverBonusMin {
		fa.CompletenessBonus += RelieverBonus
	}

	raw := fa.PainCoverage*PainCoverageWeight + fa.GainCoverage*GainCoverageWeight + fa.CompletenessBonus
	fa.Score = min(maxFitScore, max(0, int(math.Round(raw))))

	switch {
	case fa.Score >= 80:
		fa.Rating = FitStrong
	case fa.Score >= 50:
		fa.Rating = FitModerate
	default:
		fa.Rating = FitWeak
	}

	fa.Recommendations = recommend(c, fa)

	return fa
}

func recommend(c Canvas, fa FitAnalysis) []string {
	recs := []string{}

	for _, p := range fa.UnaddressedPains {
		recs = append(recs, fmt.Sprintf("Add a pain reliever for the high-severity pain %q.", p.Description))
	}
	for _, g := range fa.UnaddressedGains {
		recs = append(recs, fmt.Sprintf("Add a gain creator for the high-importance gain %q.", g.Description))
	}
	if len(c.Jobs) < JobsBonusMin {
		recs = append(recs, fmt.Sprintf("List at least %d customer jobs.", JobsBonusMin))
	}
	if len(c.Products) < ProductsBonusMin {
		recs = append(recs, fmt.Sprintf("Describe at least %d products or services.", ProductsBonusMin))
	}
	if len(c.PainRelievers) < RelieverBonusMin || len(c.GainCreators) < RelieverBonusMin {
		recs = append(recs, fmt.Sprintf("Provide at least %d pain relievers and %d gain creators.",
			RelieverBonusMin, RelieverBonusMin))
	}

	return recs
}

func painCovered(p CustomerPain, relievers []PainReliever) bool {
	for _, r := range relievers {
		if r.PainID != "" && r.PainID == p.ID {
			return true
		}
		if softMatch(r.Description, p.Description) {
			return true
		}
	}

	return false
}

func gainCovered(g CustomerGain, creators []GainCreator) bool {
	for _, cr := range creators {
		if cr.GainID != "" && cr.GainID == g.ID {
			return true
		}
		if softMatch(cr.Description, g.Description) {
			return true
		}
	}

	return false
}

// softMatch reports whether answer mentions the opening of need.
func softMatch(answer, need string) bool {
	need = strings.ToLower(strings.TrimSpace(need))
	if need == "" {
		return false
	}

	if r := []rune(need); len(r) > softMatchPrefix {
		need = string(r[:softMatchPrefix])
	}

	return strings.Contains(strings.ToLower(answer), need)
}
