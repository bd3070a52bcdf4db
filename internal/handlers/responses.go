package handlers

import (
	"time"

	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/types"
)

// Response shapes are built by one named function per projection.

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ProjectBasicResponse struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Owner       UserResponse `json:"owner"`
	CreatedAt   time.Time    `json:"created_at"`
}

type ProjectResponse struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Owner       UserResponse   `json:"owner"`
	Members     []UserResponse `json:"members"`
	TaskCount   int64          `json:"task_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type MemberResponse struct {
	ID       uint         `json:"id"`
	User     UserResponse `json:"user"`
	Role     string       `json:"role"`
	JoinedAt time.Time    `json:"joined_at"`
}

type TaskResponse struct {
	ID              uint                  `json:"id"`
	Title           string                `json:"title"`
	Description     *string               `json:"description"`
	Status          string                `json:"status"`
	Priority        *string               `json:"priority"`
	Order           int                   `json:"order"`
	Deadline        *time.Time            `json:"deadline"`
	Project         *uint                 `json:"project"`
	ProjectDetails  *ProjectBasicResponse `json:"project_details"`
	AssigneeDetails *UserResponse         `json:"assignee_details"`
	Author          UserResponse          `json:"author"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type InvitationResponse struct {
	ID        uint                 `json:"id"`
	Email     string               `json:"email"`
	Project   ProjectBasicResponse `json:"project"`
	InvitedBy UserResponse         `json:"invited_by"`
	Status    string               `json:"status"`
	Token     string               `json:"token"`
	CreatedAt time.Time            `json:"created_at"`
}

type PendingInvitationResponse struct {
	ID        uint                 `json:"id"`
	Project   ProjectBasicResponse `json:"project"`
	InvitedBy UserResponse         `json:"invited_by"`
	Status    string               `json:"status"`
	Token     string               `json:"token"`
	CreatedAt time.Time            `json:"created_at"`
}

func userResponse(user models.User) UserResponse {
	return UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}
}

func currentUserResponse(user types.AuthenticatedUser) UserResponse {
	return UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}
}

func projectBasicResponse(project models.Project) ProjectBasicResponse {
	return ProjectBasicResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Owner:       userResponse(project.Owner),
		CreatedAt:   project.CreatedAt,
	}
}

func projectResponse(project models.Project, memberships []models.ProjectMembership, taskCount int64) ProjectResponse {
	members := make([]UserResponse, 0, len(memberships))
	for _, membership := range memberships {
		members = append(members, userResponse(membership.User))
	}

	return ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Owner:       userResponse(project.Owner),
		Members:     members,
		TaskCount:   taskCount,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func memberResponse(membership models.ProjectMembership) MemberResponse {
	return MemberResponse{
		ID:       membership.ID,
		User:     userResponse(membership.User),
		Role:     string(membership.Role),
		JoinedAt: membership.JoinedAt,
	}
}

func taskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Order:       task.Order,
		Deadline:    task.Deadline,
		Project:     task.ProjectID,
		Author:      userResponse(task.Author),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Priority != nil {
		priority := string(*task.Priority)
		response.Priority = &priority
	}

	if task.Project != nil {
		details := projectBasicResponse(*task.Project)
		response.ProjectDetails = &details
	}

	if task.Assignee != nil {
		assignee := userResponse(*task.Assignee)
		response.AssigneeDetails = &assignee
	}

	return response
}

func taskListResponse(tasks []models.Task) []TaskResponse {
	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}
	return response
}

func invitationResponse(invitation models.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:        invitation.ID,
		Email:     invitation.Email,
		Project:   projectBasicResponse(invitation.Project),
		InvitedBy: userResponse(invitation.InvitedBy),
		Status:    string(invitation.Status),
		Token:     invitation.Token,
		CreatedAt: invitation.CreatedAt,
	}
}

func pendingInvitationResponse(invitation models.Invitation) PendingInvitationResponse {
	return PendingInvitationResponse{
		ID:        invitation.ID,
		Project:   projectBasicResponse(invitation.Project),
		InvitedBy: userResponse(invitation.InvitedBy),
		Status:    string(invitation.Status),
		Token:     invitation.Token,
		CreatedAt: invitation.CreatedAt,
	}
}
