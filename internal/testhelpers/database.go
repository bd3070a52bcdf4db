// Package testhelpers provides throwaway SQLite databases and fixtures for
// package tests.
package testhelpers

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskmaster-dev/taskmaster/db"
	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in the test's temp dir through
// db.Open, so tests run with the same foreign-key handling as the server.
// The connection is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "taskmaster.db") + "?_pragma=busy_timeout(5000)"

	conn, err := db.Open("sqlite", dsn)
	require.NoError(t, err)

	conn.Logger = logger.Default.LogMode(logger.Silent)

	require.NoError(t, db.Migrate(conn))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return conn
}

// CreateUser inserts a user with the email <username>@example.com.
func CreateUser(t testing.TB, conn *gorm.DB, username string) types.AuthenticatedUser {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, conn.Create(&user).Error)

	return types.AuthenticatedUser{ID: user.ID, Username: user.Username, Email: user.Email}
}

// AddMember gives user a plain membership of the project.
func AddMember(t testing.TB, conn *gorm.DB, projectID uint, user types.AuthenticatedUser) {
	t.Helper()

	require.NoError(t, conn.Create(&models.ProjectMembership{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      models.RoleMember,
	}).Error)
}
