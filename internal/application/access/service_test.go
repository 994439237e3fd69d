package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/domain/access"
	apperrors "gatekeeper/internal/shared/errors"
)

func TestService_AssignRoleIdempotent(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)
	ctx := context.Background()

	first, err := env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", nil)
	require.NoError(t, err)
	require.NotZero(t, first.ID())

	second, err := env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID(), "repeating the same assignment returns the existing row")
}

// blindFirstFindAssignments hides the result of the first Find, so the
// service behaves like a writer whose existence check ran before a
// concurrent insert of the same natural key committed.
type blindFirstFindAssignments struct {
	access.AssignmentRepository
	blinded bool
}

func (r *blindFirstFindAssignments) Find(ctx context.Context, userID, roleID uint, scope access.Scope, resourceID string) (*access.Assignment, error) {
	if !r.blinded {
		r.blinded = true
		return nil, nil
	}
	return r.AssignmentRepository.Find(ctx, userID, roleID, scope, resourceID)
}

type blindFirstFindDenies struct {
	access.DenyRepository
	blinded bool
}

func (r *blindFirstFindDenies) Find(ctx context.Context, userID uint, permissionCode string, scope access.Scope, resourceID string) (*access.Deny, error) {
	if !r.blinded {
		r.blinded = true
		return nil, nil
	}
	return r.DenyRepository.Find(ctx, userID, permissionCode, scope, resourceID)
}

func TestService_AssignRoleRecoversFromDuplicateInsertRace(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)
	ctx := context.Background()

	existing, err := env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", nil)
	require.NoError(t, err)

	// The existence check misses the row, so Create hits the unique index
	// like the losing writer of a concurrent duplicate insert. The service
	// must recover the existing row, not surface the constraint error.
	racing := NewService(env.roles, &blindFirstFindAssignments{AssignmentRepository: env.assignments},
		env.denies, env.cacheStore, env.tx, newNopLogger())

	recovered, err := racing.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", nil)
	require.NoError(t, err)
	require.NotNil(t, recovered)
	assert.Equal(t, existing.ID(), recovered.ID())
}

func TestService_AssignDenyRecoversFromDuplicateInsertRace(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)
	ctx := context.Background()

	existing, err := env.service.AssignDeny(ctx, 1, "project.update", access.ScopeProject, "p1", "offboarding")
	require.NoError(t, err)

	racing := NewService(env.roles, env.assignments,
		&blindFirstFindDenies{DenyRepository: env.denies}, env.cacheStore, env.tx, newNopLogger())

	recovered, err := racing.AssignDeny(ctx, 1, "project.update", access.ScopeProject, "p1", "offboarding")
	require.NoError(t, err)
	require.NotNil(t, recovered)
	assert.Equal(t, existing.ID(), recovered.ID())
}

func TestService_AssignRoleUnknownRole(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)

	_, err := env.service.AssignRole(context.Background(), 1, "maintainer", access.ScopeProject, "p1", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsRoleNotFoundError(err))
}

func TestService_AssignRoleUsesOrgOverride(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)
	ctx := context.Background()

	orgID := uint(7)
	override, err := env.catalog.RegisterRole(ctx, "editor", access.ScopeProject, &orgID)
	require.NoError(t, err)

	assignment, err := env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", &orgID)
	require.NoError(t, err)
	assert.Equal(t, override.ID(), assignment.RoleID(), "org-defined role shadows the system role of the same name")

	// Without the org context the system role is still the one used.
	system, err := env.roles.ResolveByName(ctx, "editor", access.ScopeProject, nil)
	require.NoError(t, err)
	assignment, err = env.service.AssignRole(ctx, 2, "editor", access.ScopeProject, "p1", nil)
	require.NoError(t, err)
	assert.Equal(t, system.ID(), assignment.RoleID())
}

func TestService_AssignRoleRejectsWildcardResource(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)

	_, err := env.service.AssignRole(context.Background(), 1, "editor", access.ScopeProject, access.WildcardResource, nil)
	require.Error(t, err)
}

func TestService_RemoveRoleNoopWhenAbsent(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)

	err := env.service.RemoveRole(context.Background(), 1, "editor", access.ScopeProject, "p1")
	assert.NoError(t, err, "removing an assignment that does not exist is a no-op")
}

func TestService_RemoveRoleRevokesAccess(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)
	env.hierarchy.add(access.ScopeProject, "p1")
	ctx := context.Background()

	_, err := env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", nil)
	require.NoError(t, err)

	// Warm the cache.
	ok, err := env.resolver.HasPermission(ctx, 1, "project.update", access.ScopeProject, "p1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, env.service.RemoveRole(ctx, 1, "editor", access.ScopeProject, "p1"))

	// The cached decision was invalidated, not served stale.
	ok, err = env.resolver.HasPermission(ctx, 1, "project.update", access.ScopeProject, "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_RemoveRoleCoversAllOrgVariants(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)
	ctx := context.Background()

	orgID := uint(7)
	_, err := env.catalog.RegisterRole(ctx, "editor", access.ScopeProject, &orgID)
	require.NoError(t, err)

	systemAssignment, err := env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", nil)
	require.NoError(t, err)
	orgAssignment, err := env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", &orgID)
	require.NoError(t, err)
	require.NotEqual(t, systemAssignment.RoleID(), orgAssignment.RoleID())

	require.NoError(t, env.service.RemoveRole(ctx, 1, "editor", access.ScopeProject, "p1"))

	// Both the system-role and org-role assignments are gone: reassigning
	// creates fresh rows rather than finding the old ones.
	again, err := env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", nil)
	require.NoError(t, err)
	assert.NotEqual(t, systemAssignment.ID(), again.ID())

	again, err = env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", &orgID)
	require.NoError(t, err)
	assert.NotEqual(t, orgAssignment.ID(), again.ID())
}

func TestService_AssignDenyIdempotent(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)
	ctx := context.Background()

	first, err := env.service.AssignDeny(ctx, 1, "project.update", access.ScopeProject, "p1", "offboarding")
	require.NoError(t, err)

	second, err := env.service.AssignDeny(ctx, 1, "project.update", access.ScopeProject, "p1", "offboarding")
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())
}

func TestService_AssignDenyRejectsMalformedCode(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)

	_, err := env.service.AssignDeny(context.Background(), 1, "project.*.extra*", access.ScopeProject, "p1", "")
	require.Error(t, err)
}

func TestService_RemoveDenyRestoresAccess(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)
	env.hierarchy.add(access.ScopeProject, "p1")
	ctx := context.Background()

	_, err := env.service.AssignRole(ctx, 1, "editor", access.ScopeProject, "p1", nil)
	require.NoError(t, err)
	_, err = env.service.AssignDeny(ctx, 1, "project.update", access.ScopeProject, "p1", "")
	require.NoError(t, err)

	ok, err := env.resolver.HasPermission(ctx, 1, "project.update", access.ScopeProject, "p1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, env.service.RemoveDeny(ctx, 1, "project.update", access.ScopeProject, "p1"))

	ok, err = env.resolver.HasPermission(ctx, 1, "project.update", access.ScopeProject, "p1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_RemoveDenyNoopWhenAbsent(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)

	err := env.service.RemoveDeny(context.Background(), 1, "project.update", access.ScopeProject, "p1")
	assert.NoError(t, err)
}

func TestService_MutationsSurviveCacheOutage(t *testing.T) {
	env := setupEnv(t)
	env.seedBasicPolicy(t)
	ctx := context.Background()

	env.redis.Close()

	// Writes commit even when invalidation cannot reach redis.
	assignment, err := env.service.AssignRole(ctx, 1, "viewer", access.ScopeProject, "p1", nil)
	require.NoError(t, err)
	assert.NotZero(t, assignment.ID())

	require.NoError(t, env.service.RemoveRole(ctx, 1, "viewer", access.ScopeProject, "p1"))
}
