// Package featureflags evaluates feature flags from static configuration.
package featureflags

import (
	"context"
	"slices"
	"strconv"

	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

var _ ports.FeatureFlags = (*Static)(nil)

// Static serves flags from the features config section. A flag with a
// workspace list is enabled only for those workspaces.
type Static struct {
	flags      map[string]bool
	values     map[string]string
	workspaces map[string][]string
}

// New copies cfg so later config changes do not leak in.
func New(cfg config.FeaturesConfig) *Static {
	s := &Static{
		flags:      make(map[string]bool, len(cfg.Flags)),
		values:     make(map[string]string, len(cfg.Values)),
		workspaces: make(map[string][]string, len(cfg.Workspaces)),
	}

	for k, v := range cfg.Flags {
		s.flags[k] = v
	}
	for k, v := range cfg.Values {
		s.values[k] = v
	}
	for k, v := range cfg.Workspaces {
		s.workspaces[k] = slices.Clone(v)
	}

	return s
}

// IsEnabled returns the configured value, narrowed by the workspace list
// when one exists for flag.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	on, ok := s.flags[flag]
	if !ok {
		return defaultValue
	}
	if !on {
		return false
	}

	allowed, restricted := s.workspaces[flag]
	if !restricted {
		return true
	}

	user := ports.GetFeatureFlagUser(ctx)
	if user == nil {
		return false
	}

	return slices.Contains(allowed, user.ID)
}

// GetString returns the configured value or defaultValue.
func (s *Static) GetString(_ context.Context, flag string, defaultValue string) string {
	if v, ok := s.values[flag]; ok {
		return v
	}

	return defaultValue
}

// GetInt parses the configured value, falling back to defaultValue when it
// is missing or not a number.
func (s *Static) GetInt(_ context.Context, flag string, defaultValue int) int {
	v, ok := s.values[flag]
	if !ok {
		return defaultValue
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}

	return n
}
