package services

import (
	"errors"
	"fmt"

	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/types"
	"gorm.io/gorm"
)

// The predicates below always query the database; membership can change
// between two requests, so nothing is cached.

func IsOwner(actor types.AuthenticatedUser, project *models.Project) bool {
	return project != nil && project.OwnerID == actor.ID
}

func IsMember(db *gorm.DB, actor types.AuthenticatedUser, projectID uint) (bool, error) {
	var count int64

	err := db.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", projectID, actor.ID).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}

	return count > 0, nil
}

// CanAccessTask: project tasks are visible to project members, personal tasks
// only to their author.
func CanAccessTask(db *gorm.DB, actor types.AuthenticatedUser, task *models.Task) (bool, error) {
	if task.ProjectID != nil {
		return IsMember(db, actor, *task.ProjectID)
	}

	return task.AuthorID == actor.ID, nil
}

func loadProject(db *gorm.DB, projectID uint) (*models.Project, error) {
	var project models.Project

	if err := db.Preload("Owner").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("project %d does not exist", projectID)
		}
		return nil, fmt.Errorf("load project %d: %w", projectID, err)
	}

	return &project, nil
}

func requireOwner(actor types.AuthenticatedUser, project *models.Project) error {
	if !IsOwner(actor, project) {
		return denied("you must be the project owner to perform this action")
	}

	return nil
}

func requireMember(db *gorm.DB, actor types.AuthenticatedUser, projectID uint) error {
	member, err := IsMember(db, actor, projectID)

	if err != nil {
		return err
	}

	if !member {
		return denied("you must be a member of this project")
	}

	return nil
}
