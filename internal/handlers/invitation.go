package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskmaster-dev/taskmaster/db"
	"github.com/taskmaster-dev/taskmaster/internal/services"
	"github.com/taskmaster-dev/taskmaster/internal/utils"
)

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

type InvitationActionRequest struct {
	Token string `json:"token" binding:"required,uuid"`
}

func CreateInvitation(ctx *gin.Context) {
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

	var body CreateInvitationRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := services.CreateInvitation(db.DB, user, projectID, body.Email)

	if err != nil {
		respondError(ctx, err, "create invitation")
		return
	}

	ctx.JSON(http.StatusCreated, invitationResponse(*invitation))
}

func ListProjectInvitations(ctx *gin.Context) {
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

	invitations, err := services.ListProjectInvitations(db.DB, user, projectID)

	if err != nil {
		respondError(ctx, err, "retrieve invitations")
		return
	}

	response := make([]InvitationResponse, 0, len(invitations))
	for _, invitation := range invitations {
		response = append(response, invitationResponse(invitation))
	}

	ctx.JSON(http.StatusOK, response)
}

func AcceptInvitation(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body InvitationActionRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := services.AcceptInvitation(db.DB, user, body.Token)

	if err != nil {
		respondError(ctx, err, "accept invitation")
		return
	}

	BroadcastRefresh(invitation.ProjectID, "members_changed")

	ctx.JSON(http.StatusOK, gin.H{"detail": "Invitation accepted successfully."})
}

func DeclineInvitation(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body InvitationActionRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := services.DeclineInvitation(db.DB, user, body.Token); err != nil {
		respondError(ctx, err, "decline invitation")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Invitation declined."})
}

func ListPendingInvitations(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	invitations, err := services.ListPendingInvitations(db.DB, user)

	if err != nil {
		respondError(ctx, err, "retrieve invitations")
		return
	}

	response := make([]PendingInvitationResponse, 0, len(invitations))
	for _, invitation := range invitations {
		response = append(response, pendingInvitationResponse(invitation))
	}

	ctx.JSON(http.StatusOK, response)
}
