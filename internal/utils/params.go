package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func getIDParam(ctx *gin.Context, name, label string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(label + " ID not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, errors.New("Invalid " + label + " ID")
	}

	return uint(id), nil
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	return getIDParam(ctx, "project_id", "Project")
}

func GetTaskID(ctx *gin.Context) (uint, error) {
	return getIDParam(ctx, "task_id", "Task")
}

func GetUserID(ctx *gin.Context) (uint, error) {
	return getIDParam(ctx, "user_id", "User")
}

// GetOptionalUintQuery parses an optional numeric query parameter.
func GetOptionalUintQuery(ctx *gin.Context, key string) (*uint, error) {
	raw, ok := ctx.GetQuery(key)

	if !ok || raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return nil, errors.New("Invalid " + key + " filter")
	}

	id := uint(value)
	return &id, nil
}
