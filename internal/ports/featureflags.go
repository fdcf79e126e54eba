package ports

import "context"

// FeatureFlags answers flag lookups. Each lookup returns defaultValue when
// the flag is not configured, so callers never have to handle a miss.
type FeatureFlags interface {
	// IsEnabled may narrow the answer to the workspace carried by ctx.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
	GetString(ctx context.Context, flag string, defaultValue string) string
	GetInt(ctx context.Context, flag string, defaultValue int) int
}

// FeatureFlagUser is the workspace a flag is evaluated for.
type FeatureFlagUser struct {
	ID string

	// Anonymous is set when the request carried no subject and fell back
	// to the shared workspace.
	Anonymous bool
}

type flagUserKey struct{}

// WithFeatureFlagUser returns ctx carrying user.
func WithFeatureFlagUser(ctx context.Context, user *FeatureFlagUser) context.Context {
	return context.WithValue(ctx, flagUserKey{}, user)
}

// GetFeatureFlagUser returns the user stored by WithFeatureFlagUser, or nil.
func GetFeatureFlagUser(ctx context.Context) *FeatureFlagUser {
	user, _ := ctx.Value(flagUserKey{}).(*FeatureFlagUser)
	return user
}
