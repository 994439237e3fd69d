package access

import (
	"fmt"
	"strings"
	"time"
)

// Permission is an atomic grantable action, identified by a globally unique
// dot-namespaced code ("project.delete").
type Permission struct {
	id          uint
	code        string
	module      string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewPermission(code, module, description string) (*Permission, error) {
	if code == "" {
		return nil, fmt.Errorf("permission code is required")
	}
	if module == "" {
		return nil, fmt.Errorf("permission module is required")
	}
	if !strings.Contains(code, ".") {
		return nil, fmt.Errorf("permission code %q must be dot-namespaced (module.action)", code)
	}
	if !strings.HasPrefix(code, module+".") {
		return nil, fmt.Errorf("permission code %q does not belong to module %q", code, module)
	}

	now := time.Now()
	return &Permission{
		code:        code,
		module:      module,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructPermission(id uint, code, module, description string, createdAt, updatedAt time.Time) (*Permission, error) {
	if id == 0 {
		return nil, fmt.Errorf("permission ID cannot be zero")
	}

	return &Permission{
		id:          id,
		code:        code,
		module:      module,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (p *Permission) ID() uint {
	return p.id
}

func (p *Permission) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("permission ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("permission ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Permission) Code() string {
	return p.code
}

func (p *Permission) Module() string {
	return p.module
}

func (p *Permission) Description() string {
	return p.description
}

func (p *Permission) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Permission) UpdatedAt() time.Time {
	return p.updatedAt
}
