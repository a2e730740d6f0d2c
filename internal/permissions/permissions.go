// Package permissions resolves identity claims into a normalized permission
// object consulted by every read filter and write authorization.
package permissions

import (
	"fmt"

	"github.com/parksops/ar-api/internal/identity"
)

// RoleSysAdmin grants unrestricted access to every park and sub-area.
const RoleSysAdmin = "sysadmin"

// Permission is the caller's effective access, fixed for the request lifetime.
type Permission struct {
	IsAuthenticated bool
	IsAdmin         bool
	Roles           []string
}

// Resolve maps decoded claims onto a Permission. A nil claims value (token
// missing or failed verification) yields the anonymous permission. An
// authenticated caller with no roles for this resource is non-admin and owns
// nothing.
func Resolve(claims *identity.Claims, resource string) Permission {
	if claims == nil {
		return Permission{}
	}
	roles := claims.RolesFor(resource)
	return Permission{
		IsAuthenticated: true,
		IsAdmin:         containsRole(roles, RoleSysAdmin),
		Roles:           roles,
	}
}

// HasRole reports whether the caller holds the exact role string.
// Role comparison is case-sensitive.
func (p Permission) HasRole(role string) bool {
	return containsRole(p.Roles, role)
}

// SubAreaRole renders the scoped ownership role for one sub-area.
func SubAreaRole(orcs, subAreaID string) string {
	return fmt.Sprintf("%s:%s", orcs, subAreaID)
}

func containsRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
