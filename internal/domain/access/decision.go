package access

import "sort"

// DecisionSet is the resolved ALLOW/DENY state for one (user, scope,
// resource) triple. Allow entries are concrete permission codes; deny
// entries may be concrete codes, module prefixes ("project.*") or the
// universal "*". Deny is absolute: no allow can override a matching deny.
type DecisionSet struct {
	allow map[string]struct{}
	deny  []GrantExpr
}

// NewDecisionSet builds a decision set from allow codes and deny
// expressions. Unparseable deny entries are treated as exact codes; a
// malformed stored deny must never widen into a grant.
func NewDecisionSet(allowCodes, denyCodes []string) DecisionSet {
	allow := make(map[string]struct{}, len(allowCodes))
	for _, code := range allowCodes {
		allow[code] = struct{}{}
	}
	deny := make([]GrantExpr, 0, len(denyCodes))
	for _, code := range denyCodes {
		expr, err := ParseGrantExpr(code)
		if err != nil {
			expr = GrantExpr{kind: GrantExact, code: code}
		}
		deny = append(deny, expr)
	}
	return DecisionSet{allow: allow, deny: deny}
}

// Allows reports the final decision for a single code: present in the allow
// set and not matched by any deny.
func (d DecisionSet) Allows(code string) bool {
	if _, ok := d.allow[code]; !ok {
		return false
	}
	return !d.Denied(code)
}

// Denied reports whether any deny entry matches the code.
func (d DecisionSet) Denied(code string) bool {
	for _, expr := range d.deny {
		if expr.Matches(code) {
			return true
		}
	}
	return false
}

// Effective returns the sorted allow-minus-deny permission set.
func (d DecisionSet) Effective() []string {
	out := make([]string, 0, len(d.allow))
	for code := range d.allow {
		if !d.Denied(code) {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

// AllowCodes returns the raw allow set, sorted, for serialization.
func (d DecisionSet) AllowCodes() []string {
	out := make([]string, 0, len(d.allow))
	for code := range d.allow {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// DenyCodes returns the raw deny expressions, for serialization.
func (d DecisionSet) DenyCodes() []string {
	out := make([]string, 0, len(d.deny))
	for _, expr := range d.deny {
		out = append(out, expr.String())
	}
	sort.Strings(out)
	return out
}
