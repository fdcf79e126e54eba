package middleware

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/logging"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

const (
	// ContextKeyClaims is the gin context key for the caller's claims.
	ContextKeyClaims = "claims"

	// ContextKeyWorkspace is the gin context key for the resolved workspace.
	ContextKeyWorkspace = "workspace"

	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"

	maxWorkspaceLen = 128
)

// workspacePattern keeps subjects usable as store keys and archive prefixes.
var workspacePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._@-]*$`)

// Claims is what the gateway tells us about the caller. Nothing here is
// verified; the gateway is trusted.
type Claims struct {
	// Subject is the caller id. It doubles as the workspace.
	Subject string

	// Roles is the list of roles assigned to the caller.
	Roles []string
}

// HasRole checks if the caller has the specified role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// ExtractClaims reads the caller's claims from the configured headers.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader := defaultSubjectHeader
	rolesHeader := defaultRolesHeader

	if cfg != nil {
		if cfg.SubjectHeader != "" {
			subjectHeader = cfg.SubjectHeader
		}

		if cfg.RolesHeader != "" {
			rolesHeader = cfg.RolesHeader
		}
	}

	claims := &Claims{
		Subject: strings.TrimSpace(c.GetHeader(subjectHeader)),
	}

	if roles := c.GetHeader(rolesHeader); roles != "" {
		claims.Roles = parseCommaSeparated(roles)
	}

	return claims
}

// GetClaims retrieves claims from the gin context, or nil.
func GetClaims(c *gin.Context) *Claims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		if cl, ok := claims.(*Claims); ok {
			return cl
		}
	}

	return nil
}

// Workspace resolves the workspace every tool reads and writes. The subject
// header names it; requests without one share defaultWorkspace. The
// workspace is added to the request logger and to the feature flag context.
func Workspace(cfg *config.AuthConfig, defaultWorkspace string) gin.HandlerFunc {
	if defaultWorkspace == "" {
		defaultWorkspace = config.DefaultWorkspace
	}

	return func(c *gin.Context) {
		claims := ExtractClaims(c, cfg)

		workspace := claims.Subject
		anonymous := workspace == ""
		if anonymous {
			workspace = defaultWorkspace
		}

		if len(workspace) > maxWorkspaceLen || !workspacePattern.MatchString(workspace) {
			dto.AbortWithError(c, domain.NewValidationErrorWithValue("workspace",
				"must be at most 128 letters, digits or . _ @ - and start with a letter or digit", workspace))
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyWorkspace, workspace)

		ctx := logging.With(c.Request.Context(), slog.String("workspace", workspace))
		ctx = ports.WithFeatureFlagUser(ctx, &ports.FeatureFlagUser{
			ID:        workspace,
			Anonymous: anonymous,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// WorkspaceFrom returns the workspace resolved by the Workspace middleware,
// or the default workspace when the middleware did not run.
func WorkspaceFrom(c *gin.Context) string {
	if ws := c.GetString(ContextKeyWorkspace); ws != "" {
		return ws
	}

	return config.DefaultWorkspace
}

// parseCommaSeparated splits a comma-separated string into trimmed values.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")

	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
