package access

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/shared/db"
	"gatekeeper/internal/shared/logger"
	"gatekeeper/internal/shared/utils/setutil"
)

// SeedPermission is one catalog entry of the declarative policy.
type SeedPermission struct {
	Code        string `yaml:"code"`
	Module      string `yaml:"module"`
	Description string `yaml:"description"`
}

// SeedRole maps a role to its scope and grant expressions.
type SeedRole struct {
	Scope       string   `yaml:"scope"`
	Permissions []string `yaml:"permissions"`
}

// SeedPolicy is the version-controlled access-control policy consumed at
// startup/migration time.
type SeedPolicy struct {
	Permissions []SeedPermission    `yaml:"permissions"`
	Roles       map[string]SeedRole `yaml:"roles"`
}

// LoadSeedPolicy reads the policy from a YAML file.
func LoadSeedPolicy(path string) (*SeedPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed policy: %w", err)
	}

	var policy SeedPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse seed policy: %w", err)
	}

	return &policy, nil
}

// Seeder expands the declarative policy into concrete catalog rows and
// role grants. Wildcard expressions are parsed once here; the resolution
// engine only ever sees concrete grant rows.
type Seeder struct {
	permissionRepo access.PermissionRepository
	roleRepo       access.RoleRepository
	txManager      *db.TransactionManager
	logger         logger.Interface
}

func NewSeeder(
	permissionRepo access.PermissionRepository,
	roleRepo access.RoleRepository,
	txManager *db.TransactionManager,
	log logger.Interface,
) *Seeder {
	return &Seeder{
		permissionRepo: permissionRepo,
		roleRepo:       roleRepo,
		txManager:      txManager,
		logger:         log,
	}
}

// Seed upserts every permission and role, then replaces each role's entire
// grant set with the expansion of its expressions against the catalog as it
// stands after the permission upserts. Re-running with the same input
// converges to the same grant set.
func (s *Seeder) Seed(ctx context.Context, policy *SeedPolicy) error {
	// Validate every expression up front so a typo cannot leave a role
	// half-seeded.
	parsed := make(map[string][]access.GrantExpr, len(policy.Roles))
	scopes := make(map[string]access.Scope, len(policy.Roles))
	for name, def := range policy.Roles {
		scope, err := access.ParseScope(def.Scope)
		if err != nil {
			return fmt.Errorf("role %q: %w", name, err)
		}
		scopes[name] = scope

		exprs := make([]access.GrantExpr, 0, len(def.Permissions))
		for _, raw := range def.Permissions {
			expr, err := access.ParseGrantExpr(raw)
			if err != nil {
				return fmt.Errorf("role %q: %w", name, err)
			}
			exprs = append(exprs, expr)
		}
		parsed[name] = exprs
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, sp := range policy.Permissions {
			if err := s.upsertPermission(ctx, sp); err != nil {
				return err
			}
		}

		catalog, err := s.permissionRepo.List(ctx)
		if err != nil {
			return err
		}

		for name, exprs := range parsed {
			if err := s.seedRole(ctx, name, scopes[name], exprs, catalog); err != nil {
				return err
			}
		}

		return nil
	})
}

// upsertPermission inserts the permission unless the code already exists.
// Existing descriptions are never overwritten.
func (s *Seeder) upsertPermission(ctx context.Context, sp SeedPermission) error {
	existing, err := s.permissionRepo.GetByCode(ctx, sp.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	permission, err := access.NewPermission(sp.Code, sp.Module, sp.Description)
	if err != nil {
		return fmt.Errorf("invalid seed permission %q: %w", sp.Code, err)
	}

	if err := s.permissionRepo.Create(ctx, permission); err != nil {
		return err
	}

	s.logger.Debugw("seeded permission", "code", sp.Code)
	return nil
}

func (s *Seeder) seedRole(ctx context.Context, name string, scope access.Scope, exprs []access.GrantExpr, catalog []*access.Permission) error {
	// Seed-time roles are system roles; org overrides come in through the
	// administrative path.
	role, err := s.roleRepo.ResolveByName(ctx, name, scope, nil)
	if err != nil {
		return err
	}
	if role == nil {
		role, err = access.NewRole(name, scope, nil)
		if err != nil {
			return fmt.Errorf("invalid seed role %q: %w", name, err)
		}
		if err := s.roleRepo.Create(ctx, role); err != nil {
			return err
		}
	}

	granted := setutil.NewUintSetWithCap(len(catalog))
	for _, expr := range exprs {
		matched := false
		for _, permission := range catalog {
			if expr.Matches(permission.Code()) {
				granted.Add(permission.ID())
				matched = true
			}
		}
		// Catalog drift is tolerated: a literal code not (yet) in the
		// catalog is skipped, not fatal.
		if !matched && expr.Kind() == access.GrantExact {
			s.logger.Warnw("seed expression matched no permission",
				"role", name, "expr", expr.String())
		}
	}

	if err := s.roleRepo.ReplaceGrants(ctx, role.ID(), granted.ToSlice()); err != nil {
		return err
	}

	s.logger.Infow("seeded role", "role", name, "scope", scope, "grants", granted.Len())
	return nil
}
