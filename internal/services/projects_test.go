package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/services"
	"github.com/taskmaster-dev/taskmaster/internal/testhelpers"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func countRows(t *testing.T, conn *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, conn.Model(model).Where(query, args...).Count(&count).Error)
	return count
}

func TestCreateProjectAddsOwnerMembership(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{
		Title:       "  Roadmap  ",
		Description: strPtr("Q3 planning"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Roadmap", project.Title)
	assert.Equal(t, alice.ID, project.OwnerID)
	assert.Equal(t, "alice", project.Owner.Username)

	var memberships []models.ProjectMembership
	require.NoError(t, conn.Where("project_id = ?", project.ID).Find(&memberships).Error)
	require.Len(t, memberships, 1)
	assert.Equal(t, alice.ID, memberships[0].UserID)
	assert.Equal(t, models.RoleOwner, memberships[0].Role)
}

func TestCreateProjectValidatesTitle(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")

	tests := []struct {
		name  string
		title string
	}{
		{name: "blank", title: "   "},
		{name: "too long", title: strings.Repeat("x", 256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.CreateProject(conn, alice, services.ProjectInput{Title: tt.title})

			var validationErr *services.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "title", validationErr.Field)
		})
	}

	assert.Zero(t, countRows(t, conn, &models.Project{}, "1 = 1"))
}

func TestCreateProjectRollsBackWhenMembershipInsertFails(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")

	err := conn.Callback().Create().Before("gorm:create").Register("test:fail_membership", func(tx *gorm.DB) {
		if tx.Statement.Table == "project_memberships" {
			tx.AddError(errors.New("membership insert failed"))
		}
	})
	require.NoError(t, err)

	_, err = services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.Error(t, err)

	assert.Zero(t, countRows(t, conn, &models.Project{}, "1 = 1"))
	assert.Zero(t, countRows(t, conn, &models.ProjectMembership{}, "1 = 1"))
}

func TestOnlyOwnerCanUpdateOrDeleteProject(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	bob := testhelpers.CreateUser(t, conn, "bob")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)
	testhelpers.AddMember(t, conn, project.ID, bob)

	_, err = services.UpdateProject(conn, bob, project.ID, services.ProjectUpdate{Title: strPtr("Hijacked")})
	assert.ErrorIs(t, err, services.ErrPermissionDenied)

	err = services.DeleteProject(conn, bob, project.ID)
	assert.ErrorIs(t, err, services.ErrPermissionDenied)

	got, err := services.GetProject(conn, bob, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", got.Title)

	updated, err := services.UpdateProject(conn, alice, project.ID, services.ProjectUpdate{
		Title:       strPtr("Roadmap 2"),
		Description: strPtr("next quarter"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Roadmap 2", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "next quarter", *updated.Description)
}

func TestProjectOperationsOnMissingProject(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")

	_, err := services.GetProject(conn, alice, 999)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = services.UpdateProject(conn, alice, 999, services.ProjectUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.ErrorIs(t, services.DeleteProject(conn, alice, 999), services.ErrNotFound)
	assert.ErrorIs(t, services.LeaveProject(conn, alice, 999), services.ErrNotFound)
	assert.ErrorIs(t, services.RemoveMember(conn, alice, 999, alice.ID), services.ErrNotFound)
}

func TestGetProjectRequiresMembership(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	mallory := testhelpers.CreateUser(t, conn, "mallory")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)

	_, err = services.GetProject(conn, mallory, project.ID)
	assert.ErrorIs(t, err, services.ErrPermissionDenied)
}

func TestListProjectsForUser(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	bob := testhelpers.CreateUser(t, conn, "bob")

	first, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "First"})
	require.NoError(t, err)
	_, err = services.CreateProject(conn, bob, services.ProjectInput{Title: "Bob's"})
	require.NoError(t, err)
	third, err := services.CreateProject(conn, bob, services.ProjectInput{Title: "Shared"})
	require.NoError(t, err)
	testhelpers.AddMember(t, conn, third.ID, alice)

	projects, err := services.ListProjectsForUser(conn, alice)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, first.ID, projects[0].ID)
	assert.Equal(t, third.ID, projects[1].ID)
	assert.Equal(t, "bob", projects[1].Owner.Username)
}

func TestOwnerCannotBeRemovedOrLeave(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)

	var validationErr *services.ValidationError

	err = services.RemoveMember(conn, alice, project.ID, alice.ID)
	require.ErrorAs(t, err, &validationErr)

	err = services.LeaveProject(conn, alice, project.ID)
	require.ErrorAs(t, err, &validationErr)

	member, err := services.IsMember(conn, alice, project.ID)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestRemoveMember(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	bob := testhelpers.CreateUser(t, conn, "bob")
	carol := testhelpers.CreateUser(t, conn, "carol")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)
	testhelpers.AddMember(t, conn, project.ID, bob)
	testhelpers.AddMember(t, conn, project.ID, carol)

	assert.ErrorIs(t, services.RemoveMember(conn, bob, project.ID, carol.ID), services.ErrPermissionDenied)

	require.NoError(t, services.RemoveMember(conn, alice, project.ID, carol.ID))
	assert.ErrorIs(t, services.RemoveMember(conn, alice, project.ID, carol.ID), services.ErrNotFound)

	member, err := services.IsMember(conn, carol, project.ID)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestLeaveProjectWhenNotMember(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	bob := testhelpers.CreateUser(t, conn, "bob")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)

	assert.ErrorIs(t, services.LeaveProject(conn, bob, project.ID), services.ErrNotFound)

	testhelpers.AddMember(t, conn, project.ID, bob)
	require.NoError(t, services.LeaveProject(conn, bob, project.ID))
	assert.ErrorIs(t, services.LeaveProject(conn, bob, project.ID), services.ErrNotFound)
}

func TestListMembers(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")
	bob := testhelpers.CreateUser(t, conn, "bob")
	mallory := testhelpers.CreateUser(t, conn, "mallory")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)
	testhelpers.AddMember(t, conn, project.ID, bob)

	members, err := services.ListMembers(conn, bob, project.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	usernames := []string{members[0].User.Username, members[1].User.Username}
	assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)

	_, err = services.ListMembers(conn, mallory, project.ID)
	assert.ErrorIs(t, err, services.ErrPermissionDenied)
}

func TestDeleteProjectRemovesDependents(t *testing.T) {
	conn := testhelpers.NewDB(t)
	alice := testhelpers.CreateUser(t, conn, "alice")

	project, err := services.CreateProject(conn, alice, services.ProjectInput{Title: "Roadmap"})
	require.NoError(t, err)

	_, err = services.CreateTask(conn, alice, services.TaskInput{Title: "Ship it", ProjectID: &project.ID})
	require.NoError(t, err)
	_, err = services.CreateInvitation(conn, alice, project.ID, "bob@example.com")
	require.NoError(t, err)

	count, err := services.TaskCount(conn, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, services.DeleteProject(conn, alice, project.ID))

	assert.Zero(t, countRows(t, conn, &models.Project{}, "id = ?", project.ID))
	assert.Zero(t, countRows(t, conn, &models.ProjectMembership{}, "project_id = ?", project.ID))
	assert.Zero(t, countRows(t, conn, &models.Task{}, "project_id = ?", project.ID))
	assert.Zero(t, countRows(t, conn, &models.Invitation{}, "project_id = ?", project.ID))
}
