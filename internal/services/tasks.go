package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/taskmaster-dev/taskmaster/internal/logging"
	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskInput describes a new task. The author is always the acting user.
type TaskInput struct {
	Title       string
	Description *string
	Status      string
	Priority    *string
	AssigneeID  *uint
	ProjectID   *uint
	Deadline    *time.Time
	Order       *int
}

// TaskUpdate is a partial update; nil fields are left unchanged. An empty
// Priority and a zero AssigneeID or ProjectID clear the field, ClearDeadline
// clears the deadline.
type TaskUpdate struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	AssigneeID    *uint
	ProjectID     *uint
	Deadline      *time.Time
	ClearDeadline bool
	Order         *int
}

type TaskFilter struct {
	Status    string
	ProjectID *uint
}

func parseStatus(status string) (models.TaskStatus, error) {
	s := models.TaskStatus(strings.TrimSpace(status))

	if !s.Valid() {
		return "", invalid("status", fmt.Sprintf("%q is not a valid choice", status))
	}

	return s, nil
}

func parsePriority(priority string) (*models.TaskPriority, error) {
	if priority == "" {
		return nil, nil
	}

	p := models.TaskPriority(priority)

	if !p.Valid() {
		return nil, invalid("priority", fmt.Sprintf("%q is not a valid choice", priority))
	}

	return &p, nil
}

func validateOrder(order int) error {
	if order < 0 {
		return invalid("order", "ensure this value is greater than or equal to 0")
	}

	return nil
}

func requireUser(db *gorm.DB, userID uint, field string) error {
	var count int64

	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("check user %d: %w", userID, err)
	}

	if count == 0 {
		return invalid(field, fmt.Sprintf("user %d does not exist", userID))
	}

	return nil
}

// requireTaskProject checks that the target project exists and that the actor
// may put tasks into it.
func requireTaskProject(db *gorm.DB, actor types.AuthenticatedUser, projectID uint) error {
	if _, err := loadProject(db, projectID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalid("project", fmt.Sprintf("project %d does not exist", projectID))
		}
		return err
	}

	member, err := IsMember(db, actor, projectID)

	if err != nil {
		return err
	}

	if !member {
		return denied("you can only add tasks to projects you are a member of")
	}

	return nil
}

func CreateTask(db *gorm.DB, actor types.AuthenticatedUser, input TaskInput) (*models.Task, error) {
	title, err := validateTitle(input.Title)

	if err != nil {
		return nil, err
	}

	status := models.StatusTodo

	if input.Status != "" {
		if status, err = parseStatus(input.Status); err != nil {
			return nil, err
		}
	}

	task := models.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		AuthorID:    actor.ID,
		Deadline:    input.Deadline,
	}

	if input.Priority != nil {
		if task.Priority, err = parsePriority(*input.Priority); err != nil {
			return nil, err
		}
	}

	if input.Order != nil {
		if err := validateOrder(*input.Order); err != nil {
			return nil, err
		}
		task.Order = *input.Order
	}

	if input.ProjectID != nil && *input.ProjectID != 0 {
		if err := requireTaskProject(db, actor, *input.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = input.ProjectID
	}

	if input.AssigneeID != nil && *input.AssigneeID != 0 {
		if err := requireUser(db, *input.AssigneeID, "assignee"); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}

	if err := db.Omit(clause.Associations).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return loadTask(db, task.ID)
}

func loadTask(db *gorm.DB, taskID uint) (*models.Task, error) {
	var task models.Task

	err := db.Preload("Author").Preload("Assignee").Preload("Project.Owner").First(&task, taskID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("task %d does not exist", taskID)
		}
		return nil, fmt.Errorf("load task %d: %w", taskID, err)
	}

	return &task, nil
}

func loadAccessibleTask(db *gorm.DB, actor types.AuthenticatedUser, taskID uint) (*models.Task, error) {
	task, err := loadTask(db, taskID)

	if err != nil {
		return nil, err
	}

	ok, err := CanAccessTask(db, actor, task)

	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, denied("you do not have access to this task")
	}

	return task, nil
}

func GetTask(db *gorm.DB, actor types.AuthenticatedUser, taskID uint) (*models.Task, error) {
	return loadAccessibleTask(db, actor, taskID)
}

// UpdateTask applies a partial update. The author can never be changed.
func UpdateTask(db *gorm.DB, actor types.AuthenticatedUser, taskID uint, update TaskUpdate) (*models.Task, error) {
	task, err := loadAccessibleTask(db, actor, taskID)

	if err != nil {
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

	if update.Status != nil {
		status, err := parseStatus(*update.Status)

		if err != nil {
			return nil, err
		}

		updates["status"] = status
	}

	if update.Priority != nil {
		priority, err := parsePriority(*update.Priority)

		if err != nil {
			return nil, err
		}

		if priority == nil {
			updates["priority"] = nil
		} else {
			updates["priority"] = *priority
		}
	}

	if update.Order != nil {
		if err := validateOrder(*update.Order); err != nil {
			return nil, err
		}

		updates["sort_order"] = *update.Order
	}

	if update.AssigneeID != nil {
		if *update.AssigneeID == 0 {
			updates["assignee_id"] = nil
		} else {
			if err := requireUser(db, *update.AssigneeID, "assignee"); err != nil {
				return nil, err
			}
			updates["assignee_id"] = *update.AssigneeID
		}
	}

	if update.ProjectID != nil {
		switch {
		case *update.ProjectID == 0:
			updates["project_id"] = nil
		case task.ProjectID == nil || *task.ProjectID != *update.ProjectID:
			if err := requireTaskProject(db, actor, *update.ProjectID); err != nil {
				return nil, err
			}
			updates["project_id"] = *update.ProjectID
		}
	}

	if update.ClearDeadline {
		updates["deadline"] = nil
	} else if update.Deadline != nil {
		updates["deadline"] = *update.Deadline
	}

	if len(updates) > 0 {
		if err := db.Model(&models.Task{BaseModel: models.BaseModel{ID: task.ID}}).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update task %d: %w", task.ID, err)
		}
	}

	return loadTask(db, task.ID)
}

// DeleteTask removes the task and returns it as it was before deletion.
func DeleteTask(db *gorm.DB, actor types.AuthenticatedUser, taskID uint) (*models.Task, error) {
	task, err := loadAccessibleTask(db, actor, taskID)

	if err != nil {
		return nil, err
	}

	if err := db.Delete(&models.Task{}, task.ID).Error; err != nil {
		return nil, fmt.Errorf("delete task %d: %w", task.ID, err)
	}

	return task, nil
}

// ListTasks returns the actor's personal tasks plus the tasks of every
// project the actor is a member of, ordered by their board position.
func ListTasks(db *gorm.DB, actor types.AuthenticatedUser, filter TaskFilter) ([]models.Task, error) {
	memberProjects := db.Model(&models.ProjectMembership{}).
		Select("project_id").
		Where("user_id = ?", actor.ID)

	query := db.Preload("Author").Preload("Assignee").Preload("Project.Owner").
		Where("(tasks.project_id IS NULL AND tasks.author_id = ?) OR tasks.project_id IN (?)", actor.ID, memberProjects)

	if filter.Status != "" {
		status, err := parseStatus(filter.Status)

		if err != nil {
			return nil, err
		}

		query = query.Where("tasks.status = ?", status)
	}

	if filter.ProjectID != nil {
		if err := requireMember(db, actor, *filter.ProjectID); err != nil {
			return nil, err
		}

		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}

	var tasks []models.Task

	if err := query.Order("tasks.sort_order, tasks.id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// BatchReorder gives the task at position i of orderedIDs order i and the
// given status, all in one transaction. Unknown ids are skipped. Tasks the
// actor cannot access are skipped when enforceAccess is set and updated with
// a logged warning otherwise. The ids of the projects touched are returned so
// callers can notify board viewers.
func BatchReorder(db *gorm.DB, actor types.AuthenticatedUser, status string, orderedIDs []uint, enforceAccess bool) ([]uint, error) {
	target, err := parseStatus(status)

	if err != nil {
		return nil, err
	}

	if len(orderedIDs) == 0 {
		return nil, nil
	}

	var (
		touched      []uint
		inaccessible int
	)

	err = db.Transaction(func(tx *gorm.DB) error {
		var tasks []models.Task

		if err := tx.Select("id", "project_id", "author_id").Where("id IN ?", orderedIDs).Find(&tasks).Error; err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}

		byID := make(map[uint]*models.Task, len(tasks))
		for i := range tasks {
			byID[tasks[i].ID] = &tasks[i]
		}

		membership := make(map[uint]bool)
		seenProject := make(map[uint]bool)

		for position, id := range orderedIDs {
			task, ok := byID[id]

			if !ok {
				continue
			}

			allowed := task.AuthorID == actor.ID

			if task.ProjectID != nil {
				member, cached := membership[*task.ProjectID]

				if !cached {
					var checkErr error

					if member, checkErr = IsMember(tx, actor, *task.ProjectID); checkErr != nil {
						return checkErr
					}
					membership[*task.ProjectID] = member
				}

				allowed = member
			}

			if !allowed {
				inaccessible++

				if enforceAccess {
					continue
				}
			}

			result := tx.Model(&models.Task{}).
				Where("id = ?", id).
				Updates(map[string]interface{}{"sort_order": position, "status": target})

			if result.Error != nil {
				return fmt.Errorf("reorder task %d: %w", id, result.Error)
			}

			if task.ProjectID != nil && !seenProject[*task.ProjectID] {
				seenProject[*task.ProjectID] = true
				touched = append(touched, *task.ProjectID)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if inaccessible > 0 {
		logging.Logger.WithFields(logrus.Fields{
			"user_id":        actor.ID,
			"inaccessible":   inaccessible,
			"enforce_access": enforceAccess,
		}).Warn("batch reorder referenced tasks the user cannot access")
	}

	return touched, nil
}
