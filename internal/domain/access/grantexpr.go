package access

import (
	"fmt"
	"strings"
)

// GrantExprKind discriminates the closed set of grant expression forms.
type GrantExprKind int

const (
	// GrantAll matches every permission in the catalog ("*").
	GrantAll GrantExprKind = iota
	// GrantModulePrefix matches every permission of one module ("project.*").
	GrantModulePrefix
	// GrantExact matches a single literal code ("project.delete").
	GrantExact
)

// GrantExpr is a seed-time permission expression, parsed once into a tagged
// union and never re-interpreted at query time.
type GrantExpr struct {
	kind   GrantExprKind
	module string
	code   string
}

// ParseGrantExpr parses "*", "<module>.*" or a literal dot-namespaced code.
func ParseGrantExpr(raw string) (GrantExpr, error) {
	switch {
	case raw == "":
		return GrantExpr{}, fmt.Errorf("empty grant expression")
	case raw == WildcardResource:
		return GrantExpr{kind: GrantAll}, nil
	case strings.HasSuffix(raw, ".*"):
		module := strings.TrimSuffix(raw, ".*")
		if module == "" || strings.Contains(module, "*") {
			return GrantExpr{}, fmt.Errorf("invalid module wildcard %q", raw)
		}
		return GrantExpr{kind: GrantModulePrefix, module: module}, nil
	case strings.Contains(raw, "*"):
		return GrantExpr{}, fmt.Errorf("invalid grant expression %q", raw)
	case !strings.Contains(raw, "."):
		return GrantExpr{}, fmt.Errorf("grant expression %q is not dot-namespaced", raw)
	default:
		return GrantExpr{kind: GrantExact, code: raw}, nil
	}
}

func (e GrantExpr) Kind() GrantExprKind {
	return e.kind
}

// Matches reports whether the expression covers a concrete permission code.
func (e GrantExpr) Matches(code string) bool {
	switch e.kind {
	case GrantAll:
		return true
	case GrantModulePrefix:
		return strings.HasPrefix(code, e.module+".")
	case GrantExact:
		return e.code == code
	default:
		return false
	}
}

func (e GrantExpr) String() string {
	switch e.kind {
	case GrantAll:
		return WildcardResource
	case GrantModulePrefix:
		return e.module + ".*"
	default:
		return e.code
	}
}
