package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Icon is a closed set of icon identifiers that clients resolve at render time.
type Icon string

const (
	IconBrain     Icon = "brain"
	IconCloud     Icon = "cloud"
	IconServer    Icon = "server"
	IconCode      Icon = "code"
	IconDatabase  Icon = "database"
	IconShield    Icon = "shield"
	IconChart     Icon = "chart"
	IconMail      Icon = "mail"
	IconRocket    Icon = "rocket"
	IconGlobe     Icon = "globe"
	IconLock      Icon = "lock"
	IconGit       Icon = "git"
	IconContainer Icon = "container"
	IconTerminal  Icon = "terminal"
	IconBook      Icon = "book"
	IconScale     Icon = "scale"
)

var knownIcons = map[Icon]struct{}{
	IconBrain: {}, IconCloud: {}, IconServer: {}, IconCode: {}, IconDatabase: {},
	IconShield: {}, IconChart: {}, IconMail: {}, IconRocket: {}, IconGlobe: {},
	IconLock: {}, IconGit: {}, IconContainer: {}, IconTerminal: {}, IconBook: {},
	IconScale: {},
}

// Valid reports whether i is a known icon.
func (i Icon) Valid() bool {
	_, ok := knownIcons[i]
	return ok
}

// GrantStatus is the application window state of a grant.
type GrantStatus string

const (
	GrantClosingSoon GrantStatus = "closing-soon"
	GrantOpen        GrantStatus = "open"
	GrantUpcoming    GrantStatus = "upcoming"
	GrantClosed      GrantStatus = "closed"
)

// grantStatusRank orders grants in listings. Unknown statuses sort last.
var grantStatusRank = map[GrantStatus]int{
	GrantClosingSoon: 0,
	GrantOpen:        1,
	GrantUpcoming:    2,
	GrantClosed:      3,
}

// Valid reports whether s is a known status.
func (s GrantStatus) Valid() bool {
	_, ok := grantStatusRank[s]
	return ok
}

// Rank returns the listing position of the status.
func (s GrantStatus) Rank() int {
	if r, ok := grantStatusRank[s]; ok {
		return r
	}

	return len(grantStatusRank)
}

// Grant is a funding program from the grants catalog.
type Grant struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Provider    string      `json:"provider" yaml:"provider"`
	Description string      `json:"description" yaml:"description"`
	AmountMin   int64       `json:"amountMin" yaml:"amountMin"`
	AmountMax   int64       `json:"amountMax" yaml:"amountMax"`
	Deadline    time.Time   `json:"deadline" yaml:"deadline"`
	Status      GrantStatus `json:"status" yaml:"status"`
	Category    string      `json:"category" yaml:"category"`
	Eligibility []string    `json:"eligibility" yaml:"eligibility"`
	Tags        []string    `json:"tags" yaml:"tags"`
	URL         string      `json:"url" yaml:"url"`
}

// InvestorType classifies investors.
type InvestorType string

const (
	InvestorAngel       InvestorType = "angel"
	InvestorVC          InvestorType = "vc"
	InvestorAccelerator InvestorType = "accelerator"
	InvestorCorporate   InvestorType = "corporate"
)

// Investor is an entry from the investor directory.
type Investor struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Firm        string       `json:"firm" yaml:"firm"`
	Type        InvestorType `json:"type" yaml:"type"`
	Stages      []string     `json:"stages" yaml:"stages"`
	Sectors     []string     `json:"sectors" yaml:"sectors"`
	CheckMin    int64        `json:"checkMin" yaml:"checkMin"`
	CheckMax    int64        `json:"checkMax" yaml:"checkMax"`
	Location    string       `json:"location" yaml:"location"`
	Description string       `json:"description" yaml:"description"`
	Tags        []string     `json:"tags" yaml:"tags"`
}

// ToolKind separates the three tool directories.
type ToolKind string

const (
	ToolKindAI     ToolKind = "ai"
	ToolKindCloud  ToolKind = "cloud"
	ToolKindDevOps ToolKind = "devops"
)

// Pricing is a tool's pricing model.
type Pricing string

const (
	PricingFree     Pricing = "free"
	PricingFreemium Pricing = "freemium"
	PricingPaid     Pricing = "paid"
)

// Tool is an AI tool, cloud service or DevOps tool.
type Tool struct {
	ID          string   `json:"id" yaml:"id"`
	Kind        ToolKind `json:"kind" yaml:"kind"`
	Name        string   `json:"name" yaml:"name"`
	Vendor      string   `json:"vendor" yaml:"vendor"`
	Category    string   `json:"category" yaml:"category"`
	Pricing     Pricing  `json:"pricing" yaml:"pricing"`
	HasFreeTier bool     `json:"hasFreeTier" yaml:"hasFreeTier"`
	Rating      float64  `json:"rating" yaml:"rating"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	Icon        Icon     `json:"icon" yaml:"icon"`
}

// SavedSet is the set of catalog ids a workspace has bookmarked.
type SavedSet map[string]struct{}

// NewSavedSet builds a set from stored ids.
func NewSavedSet(ids []string) SavedSet {
	s := make(SavedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Has reports whether id is saved.
func (s SavedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// ToggleSaved adds id to ids when missing and removes it otherwise.
// It returns the new list and whether id is now saved.
func ToggleSaved(ids []string, id string) ([]string, bool) {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1), false
	}

	return append(slices.Clone(ids), id), true
}

// GrantFilter selects grants. Empty fields match everything; all set fields must match.
type GrantFilter struct {
	Search    string
	Status    GrantStatus
	Category  string
	SavedOnly bool
	Saved     SavedSet
}

// Matches reports whether g satisfies every active predicate.
func (f GrantFilter) Matches(g Grant) bool {
	return matchesSearch(f.Search, g.Tags, g.Name, g.Description, g.Provider) &&
		(f.Status == "" || g.Status == f.Status) &&
		(f.Category == "" || strings.EqualFold(g.Category, f.Category)) &&
		(!f.SavedOnly || f.Saved.Has(g.ID))
}

// FilterGrants returns matching grants sorted by status rank, deadline, then name.
func FilterGrants(grants []Grant, f GrantFilter) []Grant {
	out := filter(grants, f.Matches)
	SortGrants(out)

	return out
}

// SortGrants sorts in place by status rank, deadline ascending, then name.
func SortGrants(grants []Grant) {
	slices.SortStableFunc(grants, func(a, b Grant) int {
		return cmp.Or(
			cmp.Compare(a.Status.Rank(), b.Status.Rank()),
			a.Deadline.Compare(b.Deadline),
			cmp.Compare(a.Name, b.Name),
		)
	})
}

// GrantStats aggregates the grants catalog.
type GrantStats struct {
	Total       int                 `json:"total"`
	ByStatus    map[GrantStatus]int `json:"byStatus"`
	OpenFunding int64               `json:"openFunding"`
}

// SummarizeGrants counts grants per status and sums the maximum award of
// grants still accepting applications.
func SummarizeGrants(grants []Grant) GrantStats {
	s := GrantStats{Total: len(grants), ByStatus: make(map[GrantStatus]int)}
	for _, g := range grants {
		s.ByStatus[g.Status]++
		if g.Status == GrantOpen || g.Status == GrantClosingSoon {
			s.OpenFunding += g.AmountMax
		}
	}

	return s
}

// InvestorFilter selects investors.
type InvestorFilter struct {
	Search    string
	Type      InvestorType
	Stage     string
	Sector    string
	SavedOnly bool
	Saved     SavedSet
}

// Matches reports whether inv satisfies every active predicate.
func (f InvestorFilter) Matches(inv Investor) bool {
	return matchesSearch(f.Search, inv.Tags, inv.Name, inv.Description, inv.Firm) &&
		(f.Type == "" || inv.Type == f.Type) &&
		(f.Stage == "" || containsFold(inv.Stages, f.Stage)) &&
		(f.Sector == "" || containsFold(inv.Sectors, f.Sector)) &&
		(!f.SavedOnly || f.Saved.Has(inv.ID))
}

// FilterInvestors returns matching investors sorted by name.
func FilterInvestors(investors []Investor, f InvestorFilter) []Investor {
	out := filter(investors, f.Matches)
	slices.SortStableFunc(out, func(a, b Investor) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})

	return out
}

// InvestorStats aggregates the investor directory.
type InvestorStats struct {
	Total  int                  `json:"total"`
	ByType map[InvestorType]int `json:"byType"`
}

// SummarizeInvestors counts investors per type.
func SummarizeInvestors(investors []Investor) InvestorStats {
	s := InvestorStats{Total: len(investors), ByType: make(map[InvestorType]int)}
	for _, inv := range investors {
		s.ByType[inv.Type]++
	}

	return s
}

// ToolFilter selects tools across the three directories.
type ToolFilter struct {
	Search       string
	Kind         ToolKind
	Category     string
	Pricing      Pricing
	FreeTierOnly bool
	SavedOnly    bool
	Saved        SavedSet
}

// Matches reports whether t satisfies every active predicate.
func (f ToolFilter) Matches(t Tool) bool {
	return matchesSearch(f.Search, t.Tags, t.Name, t.Description, t.Vendor) &&
		(f.Kind == "" || t.Kind == f.Kind) &&
		(f.Category == "" || strings.EqualFold(t.Category, f.Category)) &&
		(f.Pricing == "" || t.Pricing == f.Pricing) &&
		(!f.FreeTierOnly || t.HasFreeTier) &&
		(!f.SavedOnly || f.Saved.Has(t.ID))
}

// FilterTools returns matching tools by rating, highest first, then name.
func FilterTools(tools []Tool, f ToolFilter) []Tool {
	out := filter(tools, f.Matches)
	slices.SortStableFunc(out, func(a, b Tool) int {
		return cmp.Or(cmp.Compare(b.Rating, a.Rating), cmp.Compare(a.Name, b.Name))
	})

	return out
}

// ToolStats aggregates the tool directories.
type ToolStats struct {
	Total         int              `json:"total"`
	ByKind        map[ToolKind]int `json:"byKind"`
	FreeTier      int              `json:"freeTier"`
	AverageRating float64          `json:"averageRating"`
}

// SummarizeTools counts tools per kind and averages their rating.
func SummarizeTools(tools []Tool) ToolStats {
	s := ToolStats{Total: len(tools), ByKind: make(map[ToolKind]int)}

	var sum float64
	for _, t := range tools {
		s.ByKind[t.Kind]++
		if t.HasFreeTier {
			s.FreeTier++
		}
		sum += t.Rating
	}

	if len(tools) > 0 {
		s.AverageRating = sum / float64(len(tools))
	}

	return s
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}

	return out
}

func matchesSearch(query string, tags []string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}

	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}

	return false
}

func containsFold(values []string, want string) bool {
	return slices.ContainsFunc(values, func(v string) bool { return strings.EqualFold(v, want) })
}
