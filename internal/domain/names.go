package domain

import (
	"math/rand/v2"
	"slices"
	"strings"
	"unicode"
)

// NameStyle steers the business name generator.
type NameStyle string

const (
	StyleModern  NameStyle = "modern"
	StyleClassic NameStyle = "classic"
	StylePlayful NameStyle = "playful"
	StyleTech    NameStyle = "tech"
)

// NameRequest is the input to the business name generator.
type NameRequest struct {
	Keywords []string  `json:"keywords"`
	Industry string    `json:"industry"`
	Style    NameStyle `json:"style"`
	Count    int       `json:"count"`
}

// NameSuggestion is one generated business name.
type NameSuggestion struct {
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	Style     NameStyle `json:"style"`
	Score     int       `json:"score"`
	Simulated bool      `json:"simulated"`
}

// DefaultNameCount is used when a request leaves Count unset.
const DefaultNameCount = 8

var (
	styleSuffixes = map[NameStyle][]string{
		StyleModern:  {"ly", "ify", "io", "hub", "labs", "co"},
		StyleClassic: {" & Co", " Group", " Partners", " Works", " Associates"},
		StylePlayful: {"oo", "zy", "bop", "pop", "buddy"},
		StyleTech:    {"AI", "Stack", "Logic", "Sync", "Byte", "Cloud"},
	}
	stylePrefixes = map[NameStyle][]string{
		StyleModern:  {"Get", "Try", "Go", "Hey"},
		StyleClassic: {"First", "Royal", "Heritage", "Summit"},
		StylePlayful: {"Happy", "Bubbly", "Jolly", "Wiggly"},
		StyleTech:    {"Neo", "Quantum", "Hyper", "Data"},
	}
)

// GenerateNames combines keywords with style-specific affixes. Output is
// unique by name, sorted by score, and always flagged as simulated.
func GenerateNames(req NameRequest, rng *rand.Rand) ([]NameSuggestion, error) {
	words := make([]string, 0, len(req.Keywords)+1)
	for _, k := range req.Keywords {
		if w := titleWord(k); w != "" {
			words = append(words, w)
		}
	}
	if w := titleWord(req.Industry); w != "" {
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, NewValidationError("keywords", "at least one keyword or an industry is required")
	}

	style := req.Style
	if _, ok := styleSuffixes[style]; !ok {
		style = StyleModern
	}

	count := req.Count
	if count <= 0 {
		count = DefaultNameCount
	}

	suffixes := styleSuffixes[style]
	prefixes := stylePrefixes[style]

	seen := make(map[string]struct{})
	out := make([]NameSuggestion, 0, count)

	for attempts := 0; len(out) < count && attempts < count*10; attempts++ {
		w := words[rng.IntN(len(words))]

		var name string
		switch rng.IntN(3) {
		case 0:
			name = w + suffixes[rng.IntN(len(suffixes))]
		case 1:
			name = prefixes[rng.IntN(len(prefixes))] + w
		default:
			other := words[rng.IntN(len(words))]
			if other == w {
				name = w + suffixes[rng.IntN(len(suffixes))]
			} else {
				name = w + other
			}
		}

		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, NameSuggestion{
			Name:      name,
			Domain:    domainFor(name),
			Style:     style,
			Score:     nameScore(name, rng),
			Simulated: true,
		})
	}

	slices.SortStableFunc(out, func(a, b NameSuggestion) int { return b.Score - a.Score })

	return out, nil
}

// nameScore favors short names and adds noise in [0,20).
func nameScore(name string, rng *rand.Rand) int {
	base := 90 - 2*max(0, len(name)-6)

	return min(100, max(40, base-10+rng.IntN(20)))
}

func domainFor(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String() + ".com"
}

func titleWord(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	fields := strings.Fields(s)
	for i, f := range fields {
		r := []rune(strings.ToLower(f))
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}

	return strings.Join(fields, "")
}
