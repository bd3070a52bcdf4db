package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/taskmaster-dev/taskmaster/internal/types"
)

// GetCurrentUser returns the acting user stored by the auth middleware.
// Handlers call it once and pass the result into every service call.
func GetCurrentUser(ctx *gin.Context) (types.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return types.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(types.AuthenticatedUser)

	if !ok {
		return types.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}
