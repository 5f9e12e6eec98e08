// Package internal provides shared utilities for server subpackages.
package internal

import "context"

// ProfileCookieName is the cookie holding the browser profile id.
// The profile scopes stored preferences the way an origin scopes browser storage.
const ProfileCookieName = "themer-profile"

type profileCtxKey struct{}

// WithProfile returns a context carrying the profile id.
func WithProfile(ctx context.Context, profile string) context.Context {
	return context.WithValue(ctx, profileCtxKey{}, profile)
}

// Profile returns the profile id from the context, empty if not set.
func Profile(ctx context.Context) string {
	if v, ok := ctx.Value(profileCtxKey{}).(string); ok {
		return v
	}
	return ""
}
