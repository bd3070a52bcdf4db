package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/services"
	"github.com/taskmaster-dev/taskmaster/internal/testhelpers"
)

func TestIsOwner(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	bob := testhelpers.CreateUser(t, conn, "bob")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)

	assert.True(t, services.IsOwner(alice, project))
	assert.False(t, services.IsOwner(bob, project))
	assert.False(t, services.IsOwner(alice, nil))
}

func TestIsMemberReflectsCurrentMemberships(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	bob := testhelpers.CreateUser(t, conn, "bob")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)

	member, err := services.IsMember(conn, bob, project.ID)
	require.NoError(t, err)
	assert.False(t, member)

	testhelpers.AddMember(t, conn, project.ID, bob)

	member, err = services.IsMember(conn, bob, project.ID)
	require.NoError(t, err)
	assert.True(t, member)

	require.NoError(t, services.LeaveProject(conn, bob, project.ID))

	member, err = services.IsMember(conn, bob, project.ID)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestCanAccessTask(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	bob := testhelpers.CreateUser(t, conn, "bob")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)

	personal, err := services.CreateTask(conn, alice, services.TaskInput{Title: "Groceries"})
	require.NoError(t, err)

	shared, err := services.CreateTask(conn, alice, services.TaskInput{Title: "Ship it", ProjectID: &project.ID})
	require.NoError(t, err)

	tests := []struct {
		name string
		task *models.Task
		bob  bool
	}{
		{name: "personal task is private to its author", task: personal, bob: false},
		{name: "project task requires membership", task: shared, bob: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := services.CanAccessTask(conn, alice, tt.task)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = services.CanAccessTask(conn, bob, tt.task)
			require.NoError(t, err)
			assert.Equal(t, tt.bob, ok)
		})
	}

	testhelpers.AddMember(t, conn, project.ID, bob)

	ok, err := services.CanAccessTask(conn, bob, shared)
	require.NoError(t, err)
	assert.True(t, ok, "membership grants access to project tasks authored by others")

	ok, err = services.CanAccessTask(conn, bob, personal)
	require.NoError(t, err)
	assert.False(t, ok, "membership never grants access to personal tasks")
}

func TestProjectTaskIsHiddenFromItsAuthorAfterLeaving(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	bob := testhelpers.CreateUser(t, conn, "bob")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)

	testhelpers.AddMember(t, conn, project.ID, bob)

	task, err := services.CreateTask(conn, bob, services.TaskInput{Title: "Draft", ProjectID: &project.ID})
	require.NoError(t, err)

	require.NoError(t, services.RemoveMember(conn, alice, project.ID, bob.ID))

	ok, err := services.CanAccessTask(conn, bob, task)
	require.NoError(t, err)
	assert.False(t, ok)
}
