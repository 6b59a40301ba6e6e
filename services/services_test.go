package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/auth"
	"github.com/beingsuperior/Freelancing-project-managment/models"
	"github.com/beingsuperior/Freelancing-project-managment/store"
)

// testEnv wires the full service stack against memory collections.
type testEnv struct {
	Users    *store.MemoryCollection
	Projects *store.MemoryCollection
	Tasks    *store.MemoryCollection
	Comments *store.MemoryCollection
	TimeLog  *store.MemoryCollection

	UserService    *UserService
	ProjectService *ProjectService
	TaskService    *TaskService
	Resolver       *ResolverService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		Users:    store.NewMemoryCollection("email"),
		Projects: store.NewMemoryCollection(),
		Tasks:    store.NewMemoryCollection(),
		Comments: store.NewMemoryCollection(),
		TimeLog:  store.NewMemoryCollection(),
	}

	env.Resolver = NewResolverService(env.Users, env.Projects, env.Tasks, env.Comments, env.TimeLog)
	env.UserService = NewUserService(env.Users, auth.NewJWTService("test-secret", time.Hour))
	env.ProjectService = NewProjectService(env.Projects, env.Users, env.Resolver)
	env.TaskService = NewTaskService(env.Tasks, env.Projects, env.Comments, env.TimeLog, env.Resolver)
	return env
}

// seedUser inserts a user directly, skipping registration (and the
// bcrypt cost that comes with it).
func (env *testEnv) seedUser(t *testing.T, email string, role models.UserRole) *auth.Caller {
	t.Helper()

	id, err := env.Users.InsertOne(context.Background(), models.User{
		Role:      role,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "irrelevant",
		Projects:  []primitive.ObjectID{},
	})
	require.NoError(t, err)
	return &auth.Caller{ID: id, Role: role}
}

func (env *testEnv) fetchUser(t *testing.T, id primitive.ObjectID) models.User {
	t.Helper()

	var user models.User
	require.NoError(t, env.Users.FindByID(context.Background(), id, &user))
	return user
}

func (env *testEnv) fetchProject(t *testing.T, id primitive.ObjectID) models.Project {
	t.Helper()

	var project models.Project
	require.NoError(t, env.Projects.FindByID(context.Background(), id, &project))
	return project
}

func (env *testEnv) fetchTask(t *testing.T, id primitive.ObjectID) models.Task {
	t.Helper()

	var task models.Task
	require.NoError(t, env.Tasks.FindByID(context.Background(), id, &task))
	return task
}
