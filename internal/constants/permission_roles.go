package constants

import (
	"slices"

	roles "farmconnect-backend/internal/pkg/constants"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewData:      {roles.RoleFarmer, roles.RoleLandowner, roles.RoleBuyer},
	RunPrediction: {roles.RoleFarmer},
	CreateListing: {roles.RoleFarmer},
	EditListing:   {roles.RoleFarmer},
	PlaceOrder:    {roles.RoleBuyer},
	SendInquiry:   {roles.RoleBuyer},
	CreateLand:    {roles.RoleLandowner},
	EditLand:      {roles.RoleLandowner},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	allowed, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	return slices.Contains(allowed, role)
}
