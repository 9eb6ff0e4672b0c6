package constants

const (
	RoleFarmer    = "farmer"
	RoleLandowner = "landowner"
	RoleBuyer     = "buyer"
)

// ValidRoles is the closed set of account roles (profiles.role CHECK constraint).
var ValidRoles = []string{RoleFarmer, RoleLandowner, RoleBuyer}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
