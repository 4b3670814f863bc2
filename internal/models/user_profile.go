package models

import "time"

type Role string

const (
	RoleVisitor Role = "Visitor"
	RoleMember  Role = "Member"
	RoleManager Role = "Manager"
	RoleAdmin   Role = "Admin"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleVisitor, RoleMember, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// UserProfile mirrors a row in user_profiles. The ID is the opaque subject
// identifier issued by the external identity provider (a UUID). Profiles are
// created lazily on first login and never deleted.
type UserProfile struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'Visitor'" json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
