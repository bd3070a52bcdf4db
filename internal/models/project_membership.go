package models

import "time"

type MembershipRole string

const (
	RoleOwner  MembershipRole = "owner"
	RoleMember MembershipRole = "member"
)

// ProjectMembership grants a user access to a project. The role is advisory;
// ownership checks always go through Project.OwnerID.
type ProjectMembership struct {
	ID        uint           `gorm:"primarykey"`
	ProjectID uint           `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_project_user;index"`
	Role      MembershipRole `gorm:"size:10;not null;default:'member'"`
	JoinedAt  time.Time      `gorm:"autoCreateTime"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
