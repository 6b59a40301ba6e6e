package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/apperrors"
	"github.com/beingsuperior/Freelancing-project-managment/models"
)

func TestCreateProject_BidirectionalSymmetry(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()
	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)

	created, err := env.ProjectService.CreateProject(ctx, u1, "Website redesign")
	require.NoError(t, err)

	project := env.fetchProject(t, created.ID)
	require.Equal(t, []primitive.ObjectID{u1.ID}, project.Owners)
	require.Empty(t, project.Clients)
	require.Empty(t, project.Tasks)

	user := env.fetchUser(t, u1.ID)
	require.Contains(t, user.Projects, created.ID)
}

func TestCreateProject_RequiresAuthAndTitle(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	_, err := env.ProjectService.CreateProject(ctx, nil, "Anything")
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)
	_, err = env.ProjectService.CreateProject(ctx, u1, "")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetProject_MembershipGate(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()
	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)
	u2 := env.seedUser(t, "stranger@example.com", models.RoleAdmin)

	created, err := env.ProjectService.CreateProject(ctx, u1, "Internal tooling")
	require.NoError(t, err)

	_, err = env.ProjectService.GetProject(ctx, u2, created.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	got, err := env.ProjectService.GetProject(ctx, u1, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Internal tooling", got.Title)
	require.Len(t, got.Owners, 1)
	require.Equal(t, u1.ID, got.Owners[0].ID)
}

func TestGetProject_MissingIsNotFoundNotUnauthorized(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)

	_, err := env.ProjectService.GetProject(context.Background(), u1, primitive.NewObjectID())
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NotErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAddClient_CreatesAccountWithProjectPrepopulated(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()
	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)

	created, err := env.ProjectService.CreateProject(ctx, u1, "Storefront")
	require.NoError(t, err)

	resolved, err := env.ProjectService.AddClient(ctx, u1, created.ID, ClientInput{
		FirstName: "Ada",
		LastName:  "Client",
		Email:     "ada@example.com",
	})
	require.NoError(t, err)
	require.Len(t, resolved.Clients, 1)
	require.Equal(t, models.RoleClient, resolved.Clients[0].Role)

	client := env.fetchUser(t, resolved.Clients[0].ID)
	require.Contains(t, client.Projects, created.ID)
	require.NotEmpty(t, client.Password)
}

func TestAddClient_Idempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()
	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)

	created, err := env.ProjectService.CreateProject(ctx, u1, "Storefront")
	require.NoError(t, err)

	input := ClientInput{FirstName: "Ada", LastName: "Client", Email: "ada@example.com"}
	_, err = env.ProjectService.AddClient(ctx, u1, created.ID, input)
	require.NoError(t, err)
	resolved, err := env.ProjectService.AddClient(ctx, u1, created.ID, input)
	require.NoError(t, err)

	require.Len(t, resolved.Clients, 1)
	client := env.fetchUser(t, resolved.Clients[0].ID)
	count := 0
	for _, id := range client.Projects {
		if id == created.ID {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestAddClient_OwnerRestricted(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()
	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)

	created, err := env.ProjectService.CreateProject(ctx, u1, "Storefront")
	require.NoError(t, err)

	resolved, err := env.ProjectService.AddClient(ctx, u1, created.ID, ClientInput{Email: "ada@example.com"})
	require.NoError(t, err)

	clientCaller := callerFor(resolved.Clients[0].ID)
	_, err = env.ProjectService.AddClient(ctx, clientCaller, created.ID, ClientInput{Email: "other@example.com"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRenameProject_OwnerRestricted(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()
	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)

	created, err := env.ProjectService.CreateProject(ctx, u1, "Old name")
	require.NoError(t, err)

	resolved, err := env.ProjectService.AddClient(ctx, u1, created.ID, ClientInput{Email: "ada@example.com"})
	require.NoError(t, err)

	clientCaller := callerFor(resolved.Clients[0].ID)
	_, err = env.ProjectService.RenameProject(ctx, clientCaller, created.ID, "Hijacked")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	renamed, err := env.ProjectService.RenameProject(ctx, u1, created.ID, "New name")
	require.NoError(t, err)
	require.Equal(t, "New name", renamed.Title)
}

func TestDeleteProject_NoCascade(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()
	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)

	created, err := env.ProjectService.CreateProject(ctx, u1, "Doomed")
	require.NoError(t, err)

	require.NoError(t, env.ProjectService.DeleteProject(ctx, u1, created.ID))

	var gone models.Project
	err = env.Projects.FindByID(ctx, created.ID, &gone)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// The user's project list keeps the dangling id; resolution skips it.
	user := env.fetchUser(t, u1.ID)
	require.Contains(t, user.Projects, created.ID)

	mine, err := env.ProjectService.MyProjects(ctx, u1)
	require.NoError(t, err)
	require.Empty(t, mine)
}

func TestMyProjects_ListsOwnedAndClientProjects(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()
	u1 := env.seedUser(t, "owner@example.com", models.RoleAdmin)

	first, err := env.ProjectService.CreateProject(ctx, u1, "First")
	require.NoError(t, err)
	second, err := env.ProjectService.CreateProject(ctx, u1, "Second")
	require.NoError(t, err)

	mine, err := env.ProjectService.MyProjects(ctx, u1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, first.ID, mine[0].ID)
	require.Equal(t, second.ID, mine[1].ID)
}
