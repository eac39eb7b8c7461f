package service

import (
	"strings"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// Principal is the authenticated identity performing an operation.
type Principal struct {
	UserID uint
	Role   models.Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return strings.EqualFold(string(p.Role), string(models.RoleAdmin))
}

// RequireAuth fails with UNAUTHORIZED when the principal carries no user.
func RequireAuth(p Principal) error {
	if p.UserID == 0 {
		return unauthorized("authentication required")
	}
	return nil
}

// RequireRole fails with FORBIDDEN when the authenticated principal lacks the role.
func RequireRole(p Principal, role models.Role) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	if !strings.EqualFold(string(p.Role), string(role)) {
		return forbidden("insufficient permissions")
	}
	return nil
}

// requireAnyRole fails with FORBIDDEN unless the principal holds one of the roles.
func requireAnyRole(p Principal, roles ...models.Role) error {
	if err := RequireAuth(p); err != nil {
		return err
	}
	for _, role := range roles {
		if strings.EqualFold(string(p.Role), string(role)) {
			return nil
		}
	}
	return forbidden("insufficient permissions")
}
