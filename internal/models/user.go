package models

import (
	"time"
)

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSuperAdmin Role = "Super Admin"
	RoleEditor     Role = "Editor"
	RoleNormalUser Role = "Normal User"
	RoleAssociate  Role = "Associate"
	RoleGroundTeam Role = "Ground Team"
)

// Roles is the closed set of assignable roles.
var Roles = []Role{
	RoleAdmin,
	RoleSuperAdmin,
	RoleEditor,
	RoleNormalUser,
	RoleAssociate,
	RoleGroundTeam,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Elevated roles bypass per-resource ownership checks and see every
// project, task and comment.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperAdmin || r == RoleEditor
}

// AdminClass roles may manage users and delete projects and tasks.
func (r Role) AdminClass() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordDigest string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           Role      `gorm:"type:varchar(50);not null;default:'Normal User'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Sessions    []Session     `gorm:"foreignKey:UserID" json:"-"`
	Assignments []ProjectUser `gorm:"foreignKey:UserID" json:"-"`
}
