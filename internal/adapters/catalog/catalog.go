// Package catalog serves the toolkit's read-only reference data: grants,
// investors, tools, legal structures, contract templates, guides and the
// regulatory update fixtures. Data is decoded once from YAML, either the
// embedded seed files or a directory that overrides them file by file.
package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

//go:embed seed/*.yaml
var seed embed.FS

const seedDir = "seed"

// Seed file names.
const (
	FileGrants            = "grants.yaml"
	FileInvestors         = "investors.yaml"
	FileTools             = "tools.yaml"
	FileLegalStructures   = "legal_structures.yaml"
	FileContractTemplates = "contract_templates.yaml"
	FileGuides            = "guides.yaml"
	FileRegulatoryUpdates = "regulatory_updates.yaml"
)

var (
	_ ports.Catalog        = (*Catalog)(nil)
	_ ports.RegulatoryFeed = (*Catalog)(nil)
)

// Catalog holds the decoded reference data. Accessors return copies so
// callers may sort or filter freely.
type Catalog struct {
	grants    []domain.Grant
	investors []domain.Investor
	tools     []domain.Tool
	legal     []domain.LegalStructure
	contracts []domain.ContractTemplate
	guides    []domain.Guide
	updates   []domain.RegulatoryUpdate
}

// Load decodes every seed file. When dir is not empty, files present in dir
// replace the embedded ones of the same name.
func Load(dir string) (*Catalog, error) {
	src := source{embedded: mustSub(seed, seedDir)}
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("catalog dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("catalog dir %q is not a directory", dir)
		}
		src.override = os.DirFS(dir)
	}

	c := &Catalog{}

	loaders := []struct {
		file string
		into any
	}{
		{FileGrants, &c.grants},
		{FileInvestors, &c.investors},
		{FileTools, &c.tools},
		{FileLegalStructures, &c.legal},
		{FileContractTemplates, &c.contracts},
		{FileGuides, &c.guides},
		{FileRegulatoryUpdates, &c.updates},
	}

	for _, l := range loaders {
		if err := src.decode(l.file, l.into); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Grants returns the grants catalog.
func (c *Catalog) Grants(_ context.Context) ([]domain.Grant, error) {
	return slices.Clone(c.grants), nil
}

// Investors returns the investor directory.
func (c *Catalog) Investors(_ context.Context) ([]domain.Investor, error) {
	return slices.Clone(c.investors), nil
}

// Tools returns the AI, cloud and DevOps tool directories.
func (c *Catalog) Tools(_ context.Context) ([]domain.Tool, error) {
	return slices.Clone(c.tools), nil
}

// LegalStructures returns the business entity types.
func (c *Catalog) LegalStructures(_ context.Context) ([]domain.LegalStructure, error) {
	return slices.Clone(c.legal), nil
}

// ContractTemplates returns the contract templates.
func (c *Catalog) ContractTemplates(_ context.Context) ([]domain.ContractTemplate, error) {
	return slices.Clone(c.contracts), nil
}

// Guides returns the guide library.
func (c *Catalog) Guides(_ context.Context) ([]domain.Guide, error) {
	return slices.Clone(c.guides), nil
}

// Updates returns the regulatory update fixtures.
func (c *Catalog) Updates(_ context.Context) ([]domain.RegulatoryUpdate, error) {
	return slices.Clone(c.updates), nil
}

type source struct {
	embedded fs.FS
	override fs.FS
}

func (s source) decode(name string, into any) error {
	data, err := s.read(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}

	return nil
}

func (s source) read(name string) ([]byte, error) {
	if s.override != nil {
		data, err := fs.ReadFile(s.override, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fs.ReadFile(s.embedded, name)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}

	return sub
}
