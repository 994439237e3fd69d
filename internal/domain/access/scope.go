package access

import "fmt"

// Scope is a level of the resource hierarchy at which a role or deny applies.
// Scopes form a total order from broadest (org) to narrowest (project).
type Scope string

const (
	ScopeOrg     Scope = "org"
	ScopeGroup   Scope = "group"
	ScopeTeam    Scope = "team"
	ScopeProject Scope = "project"
)

var scopeDepths = map[Scope]int{
	ScopeOrg:     0,
	ScopeGroup:   1,
	ScopeTeam:    2,
	ScopeProject: 3,
}

// Scopes returns all scopes ordered from broadest to narrowest.
func Scopes() []Scope {
	return []Scope{ScopeOrg, ScopeGroup, ScopeTeam, ScopeProject}
}

// ParseScope validates and converts a raw scope string.
func ParseScope(raw string) (Scope, error) {
	s := Scope(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid scope %q", raw)
	}
	return s, nil
}

// Valid reports whether the scope is a member of the hierarchy.
func (s Scope) Valid() bool {
	_, ok := scopeDepths[s]
	return ok
}

// Depth returns the scope's position in the hierarchy, 0 being the broadest.
func (s Scope) Depth() int {
	return scopeDepths[s]
}

// Contains reports whether s is a strict ancestor level of other.
func (s Scope) Contains(other Scope) bool {
	return s.Valid() && other.Valid() && s.Depth() < other.Depth()
}

func (s Scope) String() string {
	return string(s)
}

// WildcardResource denies across all resources at a scope for a user.
const WildcardResource = "*"

// ResourceRef identifies a concrete resource at a scope level.
type ResourceRef struct {
	Scope      Scope
	ResourceID string
}
