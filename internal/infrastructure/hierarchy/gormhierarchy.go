package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/infrastructure/persistence/models"
	apperrors "gatekeeper/internal/shared/errors"
)

// GormHierarchy resolves resource ancestry from the org/group/team/project
// tables. Resource ids are the decimal form of the row's primary key.
type GormHierarchy struct {
	db *gorm.DB
}

func NewGormHierarchy(gdb *gorm.DB) *GormHierarchy {
	return &GormHierarchy{db: gdb}
}

var _ access.ResourceHierarchy = (*GormHierarchy)(nil)

// AncestorsOf walks the containment chain upward, nearest ancestor first.
// A missing row anywhere in the chain is a ResourceNotFound failure; the
// engine must not treat it as an empty ancestry.
func (h *GormHierarchy) AncestorsOf(ctx context.Context, scope access.Scope, resourceID string) ([]access.ResourceRef, error) {
	id, err := strconv.ParseUint(resourceID, 10, 64)
	if err != nil {
		return nil, apperrors.NewResourceNotFoundError(string(scope), resourceID)
	}

	var refs []access.ResourceRef

	switch scope {
	case access.ScopeOrg:
		if _, err := h.orgExists(ctx, uint(id)); err != nil {
			return nil, err
		}
		return nil, nil

	case access.ScopeGroup:
		group, err := h.group(ctx, uint(id))
		if err != nil {
			return nil, err
		}
		refs = append(refs, orgRef(group.OrgID))

	case access.ScopeTeam:
		team, err := h.team(ctx, uint(id))
		if err != nil {
			return nil, err
		}
		group, err := h.group(ctx, team.GroupID)
		if err != nil {
			return nil, err
		}
		refs = append(refs, groupRef(group.ID), orgRef(group.OrgID))

	case access.ScopeProject:
		project, err := h.project(ctx, uint(id))
		if err != nil {
			return nil, err
		}
		team, err := h.team(ctx, project.TeamID)
		if err != nil {
			return nil, err
		}
		group, err := h.group(ctx, team.GroupID)
		if err != nil {
			return nil, err
		}
		refs = append(refs, teamRef(team.ID), groupRef(group.ID), orgRef(group.OrgID))

	default:
		return nil, fmt.Errorf("invalid scope %q", scope)
	}

	return refs, nil
}

func (h *GormHierarchy) orgExists(ctx context.Context, id uint) (*models.OrganizationModel, error) {
	var model models.OrganizationModel
	if err := h.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, h.lookupError(err, access.ScopeOrg, id)
	}
	return &model, nil
}

func (h *GormHierarchy) group(ctx context.Context, id uint) (*models.ResourceGroupModel, error) {
	var model models.ResourceGroupModel
	if err := h.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, h.lookupError(err, access.ScopeGroup, id)
	}
	return &model, nil
}

func (h *GormHierarchy) team(ctx context.Context, id uint) (*models.TeamModel, error) {
	var model models.TeamModel
	if err := h.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, h.lookupError(err, access.ScopeTeam, id)
	}
	return &model, nil
}

func (h *GormHierarchy) project(ctx context.Context, id uint) (*models.ProjectModel, error) {
	var model models.ProjectModel
	if err := h.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, h.lookupError(err, access.ScopeProject, id)
	}
	return &model, nil
}

func (h *GormHierarchy) lookupError(err error, scope access.Scope, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewResourceNotFoundError(string(scope), strconv.FormatUint(uint64(id), 10))
	}
	return fmt.Errorf("hierarchy lookup failed: %w", err)
}

func orgRef(id uint) access.ResourceRef {
	return access.ResourceRef{Scope: access.ScopeOrg, ResourceID: strconv.FormatUint(uint64(id), 10)}
}

func groupRef(id uint) access.ResourceRef {
	return access.ResourceRef{Scope: access.ScopeGroup, ResourceID: strconv.FormatUint(uint64(id), 10)}
}

func teamRef(id uint) access.ResourceRef {
	return access.ResourceRef{Scope: access.ScopeTeam, ResourceID: strconv.FormatUint(uint64(id), 10)}
}
