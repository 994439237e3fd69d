package access

import (
	"context"
	"fmt"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/shared/db"
	"gatekeeper/internal/shared/errors"
	"gatekeeper/internal/shared/logger"
)

// Service is the only writer of assignment and deny rows. Every mutation is
// transactional and idempotent, and invalidates the user's cached decisions
// after commit. Write-path errors abort the whole mutation; cache
// invalidation failures after commit are logged, with the entry TTL as the
// backstop.
type Service struct {
	roleRepo       access.RoleRepository
	assignmentRepo access.AssignmentRepository
	denyRepo       access.DenyRepository
	cache          access.DecisionCache
	txManager      *db.TransactionManager
	logger         logger.Interface
}

func NewService(
	roleRepo access.RoleRepository,
	assignmentRepo access.AssignmentRepository,
	denyRepo access.DenyRepository,
	cache access.DecisionCache,
	txManager *db.TransactionManager,
	log logger.Interface,
) *Service {
	return &Service{
		roleRepo:       roleRepo,
		assignmentRepo: assignmentRepo,
		denyRepo:       denyRepo,
		cache:          cache,
		txManager:      txManager,
		logger:         log,
	}
}

// AssignRole grants roleName to the user at scope/resource. The role is
// resolved with tenant-override precedence. When an identical assignment
// already exists it is returned unchanged.
func (s *Service) AssignRole(ctx context.Context, userID uint, roleName string, scope access.Scope, resourceID string, orgID *uint) (*access.Assignment, error) {
	role, err := s.roleRepo.ResolveByName(ctx, roleName, scope, orgID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.NewRoleNotFoundError(roleName, string(scope))
	}

	var result *access.Assignment
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.assignmentRepo.Find(ctx, userID, role.ID(), scope, resourceID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		assignment, err := access.NewAssignment(userID, role.ID(), scope, resourceID)
		if err != nil {
			return fmt.Errorf("invalid assignment: %w", err)
		}

		if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
			return err
		}

		result = assignment
		return nil
	})
	if err != nil {
		// A concurrent writer may have inserted the same natural key
		// between the check and the insert. Under REPEATABLE READ the
		// failed transaction's snapshot predates that commit, so the row
		// is only visible from a fresh read outside it.
		if errors.IsDuplicateError(err) {
			existing, findErr := s.assignmentRepo.Find(ctx, userID, role.ID(), scope, resourceID)
			if findErr == nil && existing != nil {
				s.invalidate(ctx, userID)
				return existing, nil
			}
		}
		return nil, err
	}

	s.invalidate(ctx, userID)
	return result, nil
}

// RemoveRole deletes the user's assignment(s) of roleName at scope/resource.
// Removal targets whatever was stored: every role matching (name, scope) is
// considered, regardless of org override precedence. An unknown role is a
// silent no-op.
func (s *Service) RemoveRole(ctx context.Context, userID uint, roleName string, scope access.Scope, resourceID string) error {
	roles, err := s.roleRepo.FindByNameScope(ctx, roleName, scope)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return nil
	}

	roleIDs := make([]uint, 0, len(roles))
	for _, role := range roles {
		roleIDs = append(roleIDs, role.ID())
	}

	var deleted int64
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		deleted, err = s.assignmentRepo.DeleteMatching(ctx, userID, roleIDs, scope, resourceID)
		return err
	})
	if err != nil {
		return err
	}

	if deleted == 0 {
		s.logger.Debugw("remove role was a no-op",
			"user_id", userID, "role", roleName, "scope", scope, "resource_id", resourceID)
	}

	// Invalidate regardless of whether a row was deleted.
	s.invalidate(ctx, userID)
	return nil
}

// AssignDeny records an explicit deny of permissionCode for the user at
// scope/resource (resource may be the wildcard "*"). Idempotent.
func (s *Service) AssignDeny(ctx context.Context, userID uint, permissionCode string, scope access.Scope, resourceID, reason string) (*access.Deny, error) {
	var result *access.Deny
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.denyRepo.Find(ctx, userID, permissionCode, scope, resourceID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		deny, err := access.NewDeny(userID, permissionCode, scope, resourceID, reason)
		if err != nil {
			return fmt.Errorf("invalid deny: %w", err)
		}

		if err := s.denyRepo.Create(ctx, deny); err != nil {
			return err
		}

		result = deny
		return nil
	})
	if err != nil {
		// Same race as AssignRole: recover with a read outside the
		// rolled-back transaction's snapshot.
		if errors.IsDuplicateError(err) {
			existing, findErr := s.denyRepo.Find(ctx, userID, permissionCode, scope, resourceID)
			if findErr == nil && existing != nil {
				s.invalidate(ctx, userID)
				return existing, nil
			}
		}
		return nil, err
	}

	s.invalidate(ctx, userID)
	return result, nil
}

// RemoveDeny deletes the matching deny row. Missing rows are a silent no-op.
func (s *Service) RemoveDeny(ctx context.Context, userID uint, permissionCode string, scope access.Scope, resourceID string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := s.denyRepo.Delete(ctx, userID, permissionCode, scope, resourceID)
		return err
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.Errorw("failed to invalidate decision cache; stale entries expire with TTL",
			"error", err, "user_id", userID)
	}
}
