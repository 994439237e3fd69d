package access

import (
	"context"
	"errors"
	"time"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/shared/logger"
)

// ResolverConfig controls cascade and degradation behavior.
type ResolverConfig struct {
	// Cascade lets ancestor-scope assignments take effect at descendant
	// resources. With cascade off, only exact scope+resource matches count.
	Cascade bool
	// HierarchyTimeout caps each ancestor lookup.
	HierarchyTimeout time.Duration
	// DegradedPermissive lets a timed-out hierarchy lookup proceed with no
	// ancestors instead of failing the query. Unknown resources still fail
	// closed. Off by default.
	DegradedPermissive bool
}

// Resolver computes effective allow/deny decisions. It only reads
// assignment, deny and grant rows; the Assignment Service is the writer.
type Resolver struct {
	roleRepo       access.RoleRepository
	assignmentRepo access.AssignmentRepository
	denyRepo       access.DenyRepository
	hierarchy      access.ResourceHierarchy
	cache          access.DecisionCache
	config         ResolverConfig
	logger         logger.Interface
}

func NewResolver(
	roleRepo access.RoleRepository,
	assignmentRepo access.AssignmentRepository,
	denyRepo access.DenyRepository,
	hierarchy access.ResourceHierarchy,
	cache access.DecisionCache,
	config ResolverConfig,
	log logger.Interface,
) *Resolver {
	if config.HierarchyTimeout <= 0 {
		config.HierarchyTimeout = 2 * time.Second
	}
	return &Resolver{
		roleRepo:       roleRepo,
		assignmentRepo: assignmentRepo,
		denyRepo:       denyRepo,
		hierarchy:      hierarchy,
		cache:          cache,
		config:         config,
		logger:         log,
	}
}

// HasPermission answers whether the user may perform code at scope/resource.
// An unknown code is simply absent from the allow set and yields false; a
// hierarchy failure is surfaced as an error so callers can tell "denied"
// from "resolution failed".
func (r *Resolver) HasPermission(ctx context.Context, userID uint, code string, scope access.Scope, resourceID string) (bool, error) {
	decisions, err := r.resolve(ctx, userID, scope, resourceID)
	if err != nil {
		return false, err
	}
	return decisions.Allows(code), nil
}

// ListEffectivePermissions returns the sorted allow-minus-deny set for the
// user at scope/resource.
func (r *Resolver) ListEffectivePermissions(ctx context.Context, userID uint, scope access.Scope, resourceID string) ([]string, error) {
	decisions, err := r.resolve(ctx, userID, scope, resourceID)
	if err != nil {
		return nil, err
	}
	return decisions.Effective(), nil
}

func (r *Resolver) resolve(ctx context.Context, userID uint, scope access.Scope, resourceID string) (access.DecisionSet, error) {
	// Cache errors degrade to a miss; an unreachable cache must not fail
	// the permission check.
	cached, err := r.cache.Get(ctx, userID, scope, resourceID)
	if err != nil {
		r.logger.Warnw("decision cache read failed; computing from store",
			"error", err, "user_id", userID)
	} else if cached != nil {
		return *cached, nil
	}

	refs, err := r.matchRefs(ctx, scope, resourceID)
	if err != nil {
		return access.DecisionSet{}, err
	}

	assignments, err := r.assignmentRepo.ListForUserAt(ctx, userID, refs)
	if err != nil {
		return access.DecisionSet{}, err
	}

	var allowCodes []string
	if len(assignments) > 0 {
		roleIDs := make([]uint, 0, len(assignments))
		for _, assignment := range assignments {
			roleIDs = append(roleIDs, assignment.RoleID())
		}
		allowCodes, err = r.roleRepo.GrantCodes(ctx, roleIDs)
		if err != nil {
			return access.DecisionSet{}, err
		}
	}

	denies, err := r.denyRepo.ListForUserAt(ctx, userID, refs)
	if err != nil {
		return access.DecisionSet{}, err
	}
	denyCodes := make([]string, 0, len(denies))
	for _, deny := range denies {
		denyCodes = append(denyCodes, deny.PermissionCode())
	}

	decisions := access.NewDecisionSet(allowCodes, denyCodes)

	if err := r.cache.Set(ctx, userID, scope, resourceID, decisions); err != nil {
		r.logger.Warnw("decision cache write failed",
			"error", err, "user_id", userID)
	}

	return decisions, nil
}

// matchRefs returns the queried ref plus, with cascade enabled, its
// ancestors. The hierarchy is consulted for every scope, org included, so
// an unknown resource fails closed rather than resolving to an empty
// decision. Hierarchy failures fail closed unless the resolver was
// explicitly configured degraded-permissive and the failure was a timeout.
func (r *Resolver) matchRefs(ctx context.Context, scope access.Scope, resourceID string) ([]access.ResourceRef, error) {
	refs := []access.ResourceRef{{Scope: scope, ResourceID: resourceID}}
	if !r.config.Cascade {
		return refs, nil
	}

	hctx, cancel := context.WithTimeout(ctx, r.config.HierarchyTimeout)
	defer cancel()

	ancestors, err := r.hierarchy.AncestorsOf(hctx, scope, resourceID)
	if err != nil {
		if r.config.DegradedPermissive && errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warnw("hierarchy lookup timed out; resolving without ancestors",
				"scope", scope, "resource_id", resourceID)
			return refs, nil
		}
		return nil, err
	}

	return append(refs, ancestors...), nil
}
