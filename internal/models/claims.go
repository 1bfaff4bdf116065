package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	PermissionFeesRead         = "fees:read"
	PermissionFeesWrite        = "fees:write"
	PermissionCollectionsRead  = "collections:read"
	PermissionCollectionsWrite = "collections:write"
	PermissionStudentsRead     = "students:read"
	PermissionStudentsWrite    = "students:write"
	PermissionExamsRead        = "exams:read"
	PermissionExamsWrite       = "exams:write"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	SchoolID     string   `json:"school_id"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CanAccessSchool reports whether the claims are scoped to schoolID.
func (c *UserClaims) CanAccessSchool(schoolID string) bool {
	if schoolID == "" {
		return false
	}
	return c.SchoolID == schoolID || (c.Role == RoleAdmin && c.SchoolID == AllSchools)
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionFeesRead,
			PermissionFeesWrite,
			PermissionCollectionsRead,
			PermissionCollectionsWrite,
			PermissionStudentsRead,
			PermissionStudentsWrite,
			PermissionExamsRead,
			PermissionExamsWrite,
		}
	case RoleAccountant:
		return []string{
			PermissionFeesRead,
			PermissionFeesWrite,
			PermissionCollectionsRead,
			PermissionCollectionsWrite,
			PermissionStudentsRead,
			PermissionExamsRead,
		}
	case RoleTeacher:
		return []string{
			PermissionFeesRead,
			PermissionCollectionsRead,
			PermissionStudentsRead,
			PermissionExamsRead,
		}
	default:
		return []string{}
	}
}
