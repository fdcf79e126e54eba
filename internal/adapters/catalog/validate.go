package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// validate reports every problem in the loaded data at once.
func (c *Catalog) validate() error {
	var errs []error

	errs = append(errs, uniqueIDs(FileGrants, c.grants, func(g domain.Grant) string { return g.ID })...)
	errs = append(errs, uniqueIDs(FileInvestors, c.investors, func(i domain.Investor) string { return i.ID })...)
	errs = append(errs, uniqueIDs(FileTools, c.tools, func(t domain.Tool) string { return t.ID })...)
	errs = append(errs, uniqueIDs(FileLegalStructures, c.legal, func(s domain.LegalStructure) string { return s.ID })...)
	errs = append(errs, uniqueIDs(FileContractTemplates, c.contracts, func(t domain.ContractTemplate) string { return t.ID })...)
	errs = append(errs, uniqueIDs(FileGuides, c.guides, func(g domain.Guide) string { return g.ID })...)
	errs = append(errs, uniqueIDs(FileRegulatoryUpdates, c.updates, func(u domain.RegulatoryUpdate) string { return u.ID })...)

	for _, g := range c.grants {
		if !g.Status.Valid() {
			errs = append(errs, fmt.Errorf("%s: grant %q has unknown status %q", FileGrants, g.ID, g.Status))
		}
		if g.AmountMax < g.AmountMin {
			errs = append(errs, fmt.Errorf("%s: grant %q amountMax below amountMin", FileGrants, g.ID))
		}
	}

	for _, t := range c.tools {
		if !slices.Contains([]domain.ToolKind{domain.ToolKindAI, domain.ToolKindCloud, domain.ToolKindDevOps}, t.Kind) {
			errs = append(errs, fmt.Errorf("%s: tool %q has unknown kind %q", FileTools, t.ID, t.Kind))
		}
		if !t.Icon.Valid() {
			errs = append(errs, fmt.Errorf("%s: tool %q has unknown icon %q", FileTools, t.ID, t.Icon))
		}
	}

	for _, s := range c.legal {
		if !s.Icon.Valid() {
			errs = append(errs, fmt.Errorf("%s: structure %q has unknown icon %q", FileLegalStructures, s.ID, s.Icon))
		}
	}

	for _, tpl := range c.contracts {
		errs = append(errs, checkTemplate(tpl)...)
	}

	for _, g := range c.guides {
		if !g.Icon.Valid() {
			errs = append(errs, fmt.Errorf("%s: guide %q has unknown icon %q", FileGuides, g.ID, g.Icon))
		}
		if len(g.Chapters) == 0 {
			errs = append(errs, fmt.Errorf("%s: guide %q has no chapters", FileGuides, g.ID))
		}
		errs = append(errs, uniqueIDs(FileGuides+"#"+g.ID, g.Chapters, func(ch domain.Chapter) string { return ch.ID })...)
	}

	return errors.Join(errs...)
}

// checkTemplate requires every placeholder in the body to be a declared field.
func checkTemplate(tpl domain.ContractTemplate) []error {
	var errs []error

	declared := make(map[string]struct{}, len(tpl.Fields))
	for _, f := range tpl.Fields {
		declared[f.Name] = struct{}{}
	}

	for _, name := range domain.Placeholders(tpl.Body) {
		if _, ok := declared[name]; !ok {
			errs = append(errs, fmt.Errorf("%s: template %q uses undeclared field %q", FileContractTemplates, tpl.ID, name))
		}
	}

	return errs
}

func uniqueIDs[T any](file string, items []T, id func(T) string) []error {
	var errs []error

	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		key := id(it)
		if key == "" {
			errs = append(errs, fmt.Errorf("%s: entry %d has no id", file, i))
			continue
		}
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", file, key))
		}
		seen[key] = struct{}{}
	}

	return errs
}
