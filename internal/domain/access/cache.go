package access

import "context"

// DecisionCache stores resolved decision sets keyed by the exact
// (user, scope, resource) triple. It is best-effort: a cache outage must
// degrade to always-miss, never fail a permission check.
type DecisionCache interface {
	// Get returns the cached decision set, or nil on miss.
	Get(ctx context.Context, userID uint, scope Scope, resourceID string) (*DecisionSet, error)
	// Set stores a decision set with the cache's bounded TTL.
	Set(ctx context.Context, userID uint, scope Scope, resourceID string, decisions DecisionSet) error
	// InvalidateUser drops every cached decision for the user, at any
	// scope and resource.
	InvalidateUser(ctx context.Context, userID uint) error
}
