package domain

import (
	"regexp"
	"strings"
	"time"
)

// TemplateField is a placeholder a contract template expects.
type TemplateField struct {
	Name        string `json:"name" yaml:"name"`
	Label       string `json:"label" yaml:"label"`
	Required    bool   `json:"required" yaml:"required"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder"`
}

// ContractTemplate is a legal document with {{field}} placeholders.
type ContractTemplate struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Category    string          `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
	Fields      []TemplateField `json:"fields" yaml:"fields"`
	Body        string          `json:"body" yaml:"body"`
}

// ContractDraft is a filled template saved by the user.
type ContractDraft struct {
	ID         string            `json:"id"`
	TemplateID string            `json:"templateId"`
	Title      string            `json:"title"`
	Values     map[string]string `json:"values"`
	Content    string            `json:"content"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// ContractDrafts is the persisted list of drafts.
type ContractDrafts struct {
	Drafts []ContractDraft `json:"drafts"`
}

// blankField replaces optional placeholders that were left empty.
const blankField = "____________"

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Placeholders lists the distinct field names referenced by body, in order of
// first appearance.
func Placeholders(body string) []string {
	seen := make(map[string]struct{})

	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}

	return out
}

// FillTemplate substitutes values into the template body. Missing required
// fields fail with a ValidationError naming the first one; missing optional
// fields render as a blank line.
func FillTemplate(tpl ContractTemplate, values map[string]string) (string, error) {
	for _, f := range tpl.Fields {
		if f.Required && strings.TrimSpace(values[f.Name]) == "" {
			label := f.Label
			if label == "" {
				label = f.Name
			}

			return "", NewValidationError(f.Name, label+" is required")
		}
	}

	return placeholderRe.ReplaceAllStringFunc(tpl.Body, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v := strings.TrimSpace(values[name]); v != "" {
			return v
		}

		return blankField
	}), nil
}
