package app

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// ContractService fills contract templates and keeps the workspace's drafts.
type ContractService struct {
	deps    Deps
	catalog ports.Catalog
	state   stateSlot[domain.ContractDrafts]
	exports *ExportService
}

// NewContractService creates a contract service.
func NewContractService(deps Deps, catalog ports.Catalog, exports *ExportService) *ContractService {
	return &ContractService{
		deps:    deps,
		catalog: catalog,
		state:   newSlot[domain.ContractDrafts](deps.Store, deps.Metrics, KeyContracts),
		exports: exports,
	}
}

// Templates lists the contract templates.
func (s *ContractService) Templates(ctx context.Context) ([]domain.ContractTemplate, error) {
	templates, err := s.catalog.ContractTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading contract templates: %w", err)
	}

	return templates, nil
}

// Template returns template id.
func (s *ContractService) Template(ctx context.Context, id string) (domain.ContractTemplate, error) {
	templates, err := s.Templates(ctx)
	if err != nil {
		return domain.ContractTemplate{}, err
	}

	return findByID(templates, id, "contract template", func(t domain.ContractTemplate) string { return t.ID })
}

// Preview fills template id without saving.
func (s *ContractService) Preview(ctx context.Context, templateID string, values map[string]string) (string, error) {
	tpl, err := s.Template(ctx, templateID)
	if err != nil {
		return "", err
	}

	return domain.FillTemplate(tpl, values)
}

// SaveDraft fills template id and stores the result. An empty title uses
// the template name.
func (s *ContractService) SaveDraft(ctx context.Context, workspace, templateID, title string, values map[string]string) (domain.ContractDraft, error) {
	tpl, err := s.Template(ctx, templateID)
	if err != nil {
		return domain.ContractDraft{}, err
	}

	content, err := domain.FillTemplate(tpl, values)
	if err != nil {
		return domain.ContractDraft{}, err
	}

	draft := domain.ContractDraft{
		ID:         newID(),
		TemplateID: tpl.ID,
		Title:      cmp.Or(strings.TrimSpace(title), tpl.Name),
		Values:     values,
		Content:    content,
		CreatedAt:  s.deps.now(),
	}

	_, err = s.state.Update(ctx, workspace, func(d *domain.ContractDrafts) error {
		d.Drafts = append(d.Drafts, draft)
		return nil
	})
	if err != nil {
		return domain.ContractDraft{}, err
	}

	return draft, nil
}

// Drafts lists saved drafts, newest first.
func (s *ContractService) Drafts(ctx context.Context, workspace string) ([]domain.ContractDraft, error) {
	d, err := s.state.Load(ctx, workspace)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(d.Drafts)
	slices.SortStableFunc(out, func(a, b domain.ContractDraft) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if out == nil {
		out = []domain.ContractDraft{}
	}

	return out, nil
}

// Draft returns draft id.
func (s *ContractService) Draft(ctx context.Context, workspace, id string) (domain.ContractDraft, error) {
	d, err := s.state.Load(ctx, workspace)
	if err != nil {
		return domain.ContractDraft{}, err
	}

	return findByID(d.Drafts, id, "contract draft", func(v domain.ContractDraft) string { return v.ID })
}

// DeleteDraft removes draft id.
func (s *ContractService) DeleteDraft(ctx context.Context, workspace, id string) error {
	_, err := s.state.Update(ctx, workspace, func(d *domain.ContractDrafts) error {
		n := len(d.Drafts)
		d.Drafts = slices.DeleteFunc(d.Drafts, func(v domain.ContractDraft) bool { return v.ID == id })
		if len(d.Drafts) == n {
			return domain.NewNotFoundError("contract draft", id)
		}

		return nil
	})

	return err
}

// ExportDraft renders draft id as text or PDF.
func (s *ContractService) ExportDraft(ctx context.Context, workspace, id string, format domain.ExportFormat) (domain.Export, error) {
	draft, err := s.Draft(ctx, workspace, id)
	if err != nil {
		return domain.Export{}, err
	}

	doc := domain.Document{
		Title:  draft.Title,
		Body:   draft.Content,
		Footer: "Generated " + draft.CreatedAt.UTC().Format("January 2, 2006") + ". This template is not legal advice.",
	}

	return s.exports.Document(ctx, workspace, "contract", doc, format)
}
