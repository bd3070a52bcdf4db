package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/taskmaster-dev/taskmaster/internal/logging"
	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateInvitation lets a project owner invite an email address. The address
// does not have to belong to a registered user yet.
func CreateInvitation(db *gorm.DB, actor types.AuthenticatedUser, projectID uint, email string) (*models.Invitation, error) {
	email = normalizeEmail(email)

	if email == "" {
		return nil, invalid("email", "this field may not be blank")
	}

	project, err := loadProject(db, projectID)

	if err != nil {
		return nil, err
	}

	if !IsOwner(actor, project) {
		return nil, denied("you are not the owner of this project")
	}

	var pending int64

	err = db.Model(&models.Invitation{}).
		Where("email = ? AND project_id = ? AND status = ?", email, project.ID, models.InvitationPending).
		Count(&pending).Error

	if err != nil {
		return nil, fmt.Errorf("check pending invitations: %w", err)
	}

	if pending > 0 {
		return nil, duplicatePending()
	}

	invitation := models.Invitation{
		Email:       email,
		ProjectID:   project.ID,
		InvitedByID: actor.ID,
		Token:       uuid.NewString(),
		Status:      models.InvitationPending,
	}

	if err := db.Omit(clause.Associations).Create(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicatePending()
		}
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	logging.Logger.WithFields(logrus.Fields{
		"project_id":    project.ID,
		"invitation_id": invitation.ID,
		"invited_by":    actor.ID,
	}).Info("invitation created")

	return loadInvitation(db, invitation.ID)
}

func duplicatePending() error {
	return invalid("email", "a pending invitation for this email already exists for this project")
}

func loadInvitation(db *gorm.DB, id uint) (*models.Invitation, error) {
	var invitation models.Invitation

	if err := db.Preload("Project.Owner").Preload("InvitedBy").First(&invitation, id).Error; err != nil {
		return nil, fmt.Errorf("load invitation %d: %w", id, err)
	}

	return &invitation, nil
}

// findPendingInvitation resolves a token to a PENDING invitation addressed to
// the actor.
func findPendingInvitation(db *gorm.DB, actor types.AuthenticatedUser, token string) (*models.Invitation, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, invalid("token", "must be a valid UUID")
	}

	var invitation models.Invitation

	err := db.Where("token = ? AND status = ?", token, models.InvitationPending).First(&invitation).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("invalid or expired invitation token")
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}

	if !strings.EqualFold(strings.TrimSpace(actor.Email), invitation.Email) {
		return nil, denied("this invitation was sent to a different email address")
	}

	return &invitation, nil
}

// AcceptInvitation adds the actor to the project and marks the invitation
// ACCEPTED in the same transaction. An existing membership is kept as is.
func AcceptInvitation(db *gorm.DB, actor types.AuthenticatedUser, token string) (*models.Invitation, error) {
	invitation, err := findPendingInvitation(db, actor, token)

	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		member, err := IsMember(tx, actor, invitation.ProjectID)

		if err != nil {
			return err
		}

		if !member {
			membership := models.ProjectMembership{
				ProjectID: invitation.ProjectID,
				UserID:    actor.ID,
				Role:      models.RoleMember,
			}

			// A concurrent accept may have added the row since the check.
			err := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&membership).Error

			if err != nil {
				return fmt.Errorf("add member: %w", err)
			}
		}

		return resolveInvitation(tx, invitation, models.InvitationAccepted)
	})

	if err != nil {
		return nil, err
	}

	return loadInvitation(db, invitation.ID)
}

func DeclineInvitation(db *gorm.DB, actor types.AuthenticatedUser, token string) (*models.Invitation, error) {
	invitation, err := findPendingInvitation(db, actor, token)

	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return resolveInvitation(tx, invitation, models.InvitationDeclined)
	})

	if err != nil {
		return nil, err
	}

	return loadInvitation(db, invitation.ID)
}

// resolveInvitation moves a PENDING invitation to a terminal status. An older
// invitation already in that status for the same email and project is
// superseded and removed, otherwise the (email, project, status) index would
// reject the transition.
func resolveInvitation(tx *gorm.DB, invitation *models.Invitation, status models.InvitationStatus) error {
	err := tx.Where("email = ? AND project_id = ? AND status = ? AND id <> ?",
		invitation.Email, invitation.ProjectID, status, invitation.ID).
		Delete(&models.Invitation{}).Error

	if err != nil {
		return fmt.Errorf("supersede invitations: %w", err)
	}

	result := tx.Model(&models.Invitation{}).
		Where("id = ? AND status = ?", invitation.ID, models.InvitationPending).
		Update("status", status)

	if result.Error != nil {
		return fmt.Errorf("update invitation %d: %w", invitation.ID, result.Error)
	}

	// Resolved concurrently by another request.
	if result.RowsAffected == 0 {
		return notFound("invalid or expired invitation token")
	}

	invitation.Status = status

	return nil
}

// ListPendingInvitations returns the invitations addressed to the actor that
// have not been accepted. Declined invitations are included.
func ListPendingInvitations(db *gorm.DB, actor types.AuthenticatedUser) ([]models.Invitation, error) {
	var invitations []models.Invitation

	err := db.Preload("Project.Owner").Preload("InvitedBy").
		Where("LOWER(email) = ?", normalizeEmail(actor.Email)).
		Where("status <> ?", models.InvitationAccepted).
		Order("id").
		Find(&invitations).Error

	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}

	return invitations, nil
}

// ListProjectInvitations returns every invitation of a project to its owner.
func ListProjectInvitations(db *gorm.DB, actor types.AuthenticatedUser, projectID uint) ([]models.Invitation, error) {
	project, err := loadProject(db, projectID)

	if err != nil {
		return nil, err
	}

	if err := requireOwner(actor, project); err != nil {
		return nil, err
	}

	var invitations []models.Invitation

	err = db.Preload("Project.Owner").Preload("InvitedBy").
		Where("project_id = ?", project.ID).
		Order("id").
		Find(&invitations).Error

	if err != nil {
		return nil, fmt.Errorf("list invitations of project %d: %w", project.ID, err)
	}

	return invitations, nil
}
