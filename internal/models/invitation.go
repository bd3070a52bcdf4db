package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "P"
	InvitationAccepted InvitationStatus = "A"
	InvitationDeclined InvitationStatus = "D"
)

// Invitation lets the holder of Email join Project once. Only one PENDING
// row may exist per (email, project); idx_invitation_email_project_status
// enforces that at the storage level.
type Invitation struct {
	ID          uint             `gorm:"primarykey"`
	Email       string           `gorm:"size:254;not null;uniqueIndex:idx_invitation_email_project_status"`
	ProjectID   uint             `gorm:"not null;uniqueIndex:idx_invitation_email_project_status;index"`
	InvitedByID uint             `gorm:"not null;index"`
	Token       string           `gorm:"size:36;not null;uniqueIndex"`
	Status      InvitationStatus `gorm:"size:1;not null;default:'P';uniqueIndex:idx_invitation_email_project_status"`
	CreatedAt   time.Time

	// Relationships
	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	InvitedBy User    `gorm:"foreignKey:InvitedByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
