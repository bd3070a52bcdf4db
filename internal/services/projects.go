package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxTitleLength = 255

type ProjectInput struct {
	Title       string
	Description *string
}

// ProjectUpdate carries a partial update; nil fields are left unchanged.
type ProjectUpdate struct {
	Title       *string
	Description *string
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return "", invalid("title", "this field may not be blank")
	}

	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", invalid("title", fmt.Sprintf("ensure this field has no more than %d characters", maxTitleLength))
	}

	return title, nil
}

// CreateProject inserts the project and the owner's membership in one
// transaction, so a project never exists without its owner as a member.
func CreateProject(db *gorm.DB, actor types.AuthenticatedUser, input ProjectInput) (*models.Project, error) {
	title, err := validateTitle(input.Title)

	if err != nil {
		return nil, err
	}

	project := models.Project{
		Title:       title,
		Description: input.Description,
		OwnerID:     actor.ID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&project).Error; err != nil {
			return err
		}

		membership := models.ProjectMembership{
			ProjectID: project.ID,
			UserID:    actor.ID,
			Role:      models.RoleOwner,
		}

		return tx.Omit(clause.Associations).Create(&membership).Error
	})

	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return loadProject(db, project.ID)
}

// ListProjectsForUser returns every project the actor holds a membership in.
func ListProjectsForUser(db *gorm.DB, actor types.AuthenticatedUser) ([]models.Project, error) {
	var projects []models.Project

	err := db.Preload("Owner").
		Joins("JOIN project_memberships ON project_memberships.project_id = projects.id").
		Where("project_memberships.user_id = ?", actor.ID).
		Order("projects.id").
		Find(&projects).Error

	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return projects, nil
}

// GetProject returns a project to any of its members.
func GetProject(db *gorm.DB, actor types.AuthenticatedUser, projectID uint) (*models.Project, error) {
	project, err := loadProject(db, projectID)

	if err != nil {
		return nil, err
	}

	if err := requireMember(db, actor, project.ID); err != nil {
		return nil, err
	}

	return project, nil
}

func UpdateProject(db *gorm.DB, actor types.AuthenticatedUser, projectID uint, update ProjectUpdate) (*models.Project, error) {
	project, err := loadProject(db, projectID)

	if err != nil {
		return nil, err
	}

	if err := requireOwner(actor, project); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if update.Title != nil {
		title, err := validateTitle(*update.Title)

		if err != nil {
			return nil, err
		}

		updates["title"] = title
	}

	if update.Description != nil {
		updates["description"] = *update.Description
	}

	if len(updates) > 0 {
		if err := db.Model(&models.Project{BaseModel: models.BaseModel{ID: project.ID}}).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update project %d: %w", project.ID, err)
		}
	}

	return loadProject(db, project.ID)
}

// DeleteProject removes the project together with its invitations, tasks and
// memberships.
func DeleteProject(db *gorm.DB, actor types.AuthenticatedUser, projectID uint) error {
	project, err := loadProject(db, projectID)

	if err != nil {
		return err
	}

	if err := requireOwner(actor, project); err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, project.ID).Error
	})

	if err != nil {
		return fmt.Errorf("delete project %d: %w", project.ID, err)
	}

	return nil
}

// RemoveMember lets the owner drop another user from the project. Tasks the
// removed user authored or is assigned to are left untouched.
func RemoveMember(db *gorm.DB, actor types.AuthenticatedUser, projectID, userID uint) error {
	project, err := loadProject(db, projectID)

	if err != nil {
		return err
	}

	if err := requireOwner(actor, project); err != nil {
		return err
	}

	if userID == project.OwnerID {
		return invalid("", "cannot remove the project owner")
	}

	return deleteMembership(db, project.ID, userID)
}

func LeaveProject(db *gorm.DB, actor types.AuthenticatedUser, projectID uint) error {
	project, err := loadProject(db, projectID)

	if err != nil {
		return err
	}

	if IsOwner(actor, project) {
		return invalid("", "the project owner cannot leave the project")
	}

	return deleteMembership(db, project.ID, actor.ID)
}

func deleteMembership(db *gorm.DB, projectID, userID uint) error {
	result := db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectMembership{})

	if result.Error != nil {
		return fmt.Errorf("delete membership: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return notFound("user %d is not a member of project %d", userID, projectID)
	}

	return nil
}

// ListMembers returns the roster to members of the project.
func ListMembers(db *gorm.DB, actor types.AuthenticatedUser, projectID uint) ([]models.ProjectMembership, error) {
	project, err := loadProject(db, projectID)

	if err != nil {
		return nil, err
	}

	if err := requireMember(db, actor, project.ID); err != nil {
		return nil, err
	}

	return MembersOf(db, project.ID)
}

// MembersOf loads the roster without an access check. Callers must have
// authorized the actor already.
func MembersOf(db *gorm.DB, projectID uint) ([]models.ProjectMembership, error) {
	var memberships []models.ProjectMembership

	err := db.Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at, id").
		Find(&memberships).Error

	if err != nil {
		return nil, fmt.Errorf("list members of project %d: %w", projectID, err)
	}

	return memberships, nil
}

func TaskCount(db *gorm.DB, projectID uint) (int64, error) {
	var count int64

	if err := db.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks of project %d: %w", projectID, err)
	}

	return count, nil
}
