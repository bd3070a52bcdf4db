package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskmaster-dev/taskmaster/db"
	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/services"
	"github.com/taskmaster-dev/taskmaster/internal/utils"
)

type CreateProjectRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
}

func buildProjectResponse(project models.Project) (ProjectResponse, error) {
	memberships, err := services.MembersOf(db.DB, project.ID)

	if err != nil {
		return ProjectResponse{}, err
	}

	taskCount, err := services.TaskCount(db.DB, project.ID)

	if err != nil {
		return ProjectResponse{}, err
	}

	return projectResponse(project, memberships, taskCount), nil
}

func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := services.CreateProject(db.DB, user, services.ProjectInput{
		Title:       body.Title,
		Description: body.Description,
	})

	if err != nil {
		respondError(ctx, err, "create project")
		return
	}

	response, err := buildProjectResponse(*project)

	if err != nil {
		respondError(ctx, err, "create project")
		return
	}

	ctx.JSON(http.StatusCreated, response)
}

func ListProjects(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := services.ListProjectsForUser(db.DB, user)

	if err != nil {
		respondError(ctx, err, "retrieve projects")
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		item, err := buildProjectResponse(project)

		if err != nil {
			respondError(ctx, err, "retrieve projects")
			return
		}

		response = append(response, item)
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := services.GetProject(db.DB, user, projectID)

	if err != nil {
		respondError(ctx, err, "retrieve project")
		return
	}

	response, err := buildProjectResponse(*project)

	if err != nil {
		respondError(ctx, err, "retrieve project")
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func UpdateProject(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := services.UpdateProject(db.DB, user, projectID, services.ProjectUpdate{
		Title:       body.Title,
		Description: body.Description,
	})

	if err != nil {
		respondError(ctx, err, "update project")
		return
	}

	response, err := buildProjectResponse(*project)

	if err != nil {
		respondError(ctx, err, "update project")
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func DeleteProject(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.DeleteProject(db.DB, user, projectID); err != nil {
		respondError(ctx, err, "delete project")
		return
	}

	BroadcastRefresh(projectID, "project_deleted")

	ctx.Status(http.StatusNoContent)
}
