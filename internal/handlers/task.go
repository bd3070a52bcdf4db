package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskmaster-dev/taskmaster/db"
	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/services"
	"github.com/taskmaster-dev/taskmaster/internal/utils"
)

// EnforceReorderAccess makes the batch reorder skip tasks the acting user
// cannot access. Set from configuration by the router.
var EnforceReorderAccess bool

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=TODO BACKLOG IN_PROGRESS DONE"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=L M H"`
	AssigneeID  *uint      `json:"assignee"`
	ProjectID   *uint      `json:"project"`
	Deadline    *time.Time `json:"deadline"`
	Order       *int       `json:"order" binding:"omitempty,min=0"`
}

// UpdateTaskRequest serves PUT and PATCH. A zero project or assignee clears
// the relation, an empty priority clears the priority.
type UpdateTaskRequest struct {
	Title         *string    `json:"title" binding:"omitempty,max=255"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status" binding:"omitempty,oneof=TODO BACKLOG IN_PROGRESS DONE"`
	Priority      *string    `json:"priority" binding:"omitempty,oneof=L M H"`
	AssigneeID    *uint      `json:"assignee"`
	ProjectID     *uint      `json:"project"`
	Deadline      *time.Time `json:"deadline"`
	ClearDeadline bool       `json:"clear_deadline"`
	Order         *int       `json:"order" binding:"omitempty,min=0"`
}

type UpdateOrderRequest struct {
	Status     string `json:"status" binding:"required,oneof=TODO BACKLOG IN_PROGRESS DONE"`
	OrderedIDs []uint `json:"ordered_ids"`
}

func broadcastTask(task *models.Task, reason string) {
	if task != nil && task.ProjectID != nil {
		BroadcastRefresh(*task.ProjectID, reason)
	}
}

func CreateTask(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.CreateTask(db.DB, user, services.TaskInput{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		AssigneeID:  body.AssigneeID,
		ProjectID:   body.ProjectID,
		Deadline:    body.Deadline,
		Order:       body.Order,
	})

	if err != nil {
		respondError(ctx, err, "create task")
		return
	}

	broadcastTask(task, "task_created")

	ctx.JSON(http.StatusCreated, taskResponse(*task))
}

func ListTasks(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetOptionalUintQuery(ctx, "project")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := services.ListTasks(db.DB, user, services.TaskFilter{
		Status:    ctx.Query("status"),
		ProjectID: projectID,
	})

	if err != nil {
		respondError(ctx, err, "retrieve tasks")
		return
	}

	ctx.JSON(http.StatusOK, taskListResponse(tasks))
}

func GetTask(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.GetTask(db.DB, user, taskID)

	if err != nil {
		respondError(ctx, err, "retrieve task")
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(*task))
}

func UpdateTask(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ctx.Request.Method == http.MethodPut && (body.Title == nil || *body.Title == "") {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "title is required", "field": "title"})
		return
	}

	before, err := services.GetTask(db.DB, user, taskID)

	if err != nil {
		respondError(ctx, err, "update task")
		return
	}

	task, err := services.UpdateTask(db.DB, user, taskID, services.TaskUpdate{
		Title:         body.Title,
		Description:   body.Description,
		Status:        body.Status,
		Priority:      body.Priority,
		AssigneeID:    body.AssigneeID,
		ProjectID:     body.ProjectID,
		Deadline:      body.Deadline,
		ClearDeadline: body.ClearDeadline,
		Order:         body.Order,
	})

	if err != nil {
		respondError(ctx, err, "update task")
		return
	}

	broadcastTask(task, "task_updated")

	if before.ProjectID != nil && (task.ProjectID == nil || *task.ProjectID != *before.ProjectID) {
		broadcastTask(before, "task_updated")
	}

	ctx.JSON(http.StatusOK, taskResponse(*task))
}

func DeleteTask(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.DeleteTask(db.DB, user, taskID)

	if err != nil {
		respondError(ctx, err, "delete task")
		return
	}

	broadcastTask(task, "task_deleted")

	ctx.Status(http.StatusNoContent)
}

func UpdateTaskOrder(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateOrderRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projectIDs, err := services.BatchReorder(db.DB, user, body.Status, body.OrderedIDs, EnforceReorderAccess)

	if err != nil {
		respondError(ctx, err, "update task order")
		return
	}

	for _, projectID := range projectIDs {
		BroadcastRefresh(projectID, "tasks_reordered")
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Task order updated successfully."})
}
