package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskmaster-dev/taskmaster/db"
	"github.com/taskmaster-dev/taskmaster/internal/services"
	"github.com/taskmaster-dev/taskmaster/internal/utils"
)

func ListMembers(ctx *gin.Context) {
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

	memberships, err := services.ListMembers(db.DB, user, projectID)

	if err != nil {
		respondError(ctx, err, "retrieve members")
		return
	}

	response := make([]MemberResponse, 0, len(memberships))
	for _, membership := range memberships {
		response = append(response, memberResponse(membership))
	}

	ctx.JSON(http.StatusOK, response)
}

func RemoveMember(ctx *gin.Context) {
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

	memberID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.RemoveMember(db.DB, user, projectID, memberID); err != nil {
		respondError(ctx, err, "remove member")
		return
	}

	BroadcastRefresh(projectID, "members_changed")

	ctx.Status(http.StatusNoContent)
}

func LeaveProject(ctx *gin.Context) {
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

	if err := services.LeaveProject(db.DB, user, projectID); err != nil {
		respondError(ctx, err, "leave project")
		return
	}

	BroadcastRefresh(projectID, "members_changed")

	ctx.Status(http.StatusNoContent)
}
