package services

import (
	"context"
	"errors"
	"fmt"
	"html"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/apperrors"
	"github.com/beingsuperior/Freelancing-project-managment/auth"
	"github.com/beingsuperior/Freelancing-project-managment/logging"
	"github.com/beingsuperior/Freelancing-project-managment/models"
	"github.com/beingsuperior/Freelancing-project-managment/store"
	"github.com/beingsuperior/Freelancing-project-managment/utils"
)

// ProjectService owns the project side of the graph: creation, the
// owner/client membership lists, and their mirror entries on each
// user's project list. There is no multi-document transaction, so
// every compound write is a fixed sequence of idempotent steps;
// preconditions are checked before the first write and later failures
// are never rolled back.
type ProjectService struct {
	Projects store.Collection
	Users    store.Collection
	Resolver *ResolverService
}

func NewProjectService(projects, users store.Collection, resolver *ResolverService) *ProjectService {
	return &ProjectService{Projects: projects, Users: users, Resolver: resolver}
}

// CreateProject inserts the project with empty membership lists, then
// links creator and project with two independent add-unique writes.
// The adds are idempotent, so a retry after partial failure converges
// instead of duplicating.
func (s *ProjectService) CreateProject(ctx context.Context, caller *auth.Caller, title string) (models.ResolvedProject, error) {
	if caller == nil {
		return models.ResolvedProject{}, apperrors.ErrUnauthenticated
	}
	if title == "" {
		return models.ResolvedProject{}, fmt.Errorf("%w: project must have a title", apperrors.ErrValidation)
	}

	project := models.Project{
		Title:   html.EscapeString(title),
		Owners:  []primitive.ObjectID{},
		Clients: []primitive.ObjectID{},
		Tasks:   []primitive.ObjectID{},
	}

	projectID, err := s.Projects.InsertOne(ctx, project)
	if err != nil {
		return models.ResolvedProject{}, err
	}

	if err := s.Projects.AddUnique(ctx, projectID, "owners", caller.ID); err != nil {
		return models.ResolvedProject{}, fmt.Errorf("failed to attach owner to project: %w", err)
	}
	if err := s.Users.AddUnique(ctx, caller.ID, "projects", projectID); err != nil {
		// The project exists and has its owner; the missing back
		// reference only hides it from the creator's project queries
		// until the add is retried.
		logging.Logger.Warnf("Event ID: PROJECT_BACKREF_FAILED, Description: Project %s created but not added to user %s: %v", projectID.Hex(), caller.ID.Hex(), err)
	}

	return s.loadResolved(ctx, projectID)
}

// GetProject returns the fully resolved project, readable by owners
// and clients alike.
func (s *ProjectService) GetProject(ctx context.Context, caller *auth.Caller, projectID primitive.ObjectID) (models.ResolvedProject, error) {
	project, err := s.requireProject(ctx, projectID)
	if err != nil {
		return models.ResolvedProject{}, err
	}
	if err := Authorize(caller, OpProjectRead, membershipOf(project)); err != nil {
		return models.ResolvedProject{}, err
	}
	return s.Resolver.ResolveProject(ctx, project)
}

// MyProjects resolves the caller's own project list.
func (s *ProjectService) MyProjects(ctx context.Context, caller *auth.Caller) ([]models.ResolvedProject, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	var user models.User
	if err := s.Users.FindByID(ctx, caller.ID, &user); err != nil {
		return nil, err
	}
	return s.Resolver.ResolveUserProjects(ctx, user.Projects)
}

// RenameProject changes the title. Owner-restricted.
func (s *ProjectService) RenameProject(ctx context.Context, caller *auth.Caller, projectID primitive.ObjectID, title string) (models.ResolvedProject, error) {
	project, err := s.requireProject(ctx, projectID)
	if err != nil {
		return models.ResolvedProject{}, err
	}
	if err := Authorize(caller, OpProjectRename, membershipOf(project)); err != nil {
		return models.ResolvedProject{}, err
	}
	if title == "" {
		return models.ResolvedProject{}, fmt.Errorf("%w: project must have a title", apperrors.ErrValidation)
	}

	if err := s.Projects.UpdateByID(ctx, projectID, bson.M{"title": html.EscapeString(title)}, nil); err != nil {
		return models.ResolvedProject{}, err
	}
	return s.loadResolved(ctx, projectID)
}

type ClientInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// AddClient attaches a client to the project by email. If no user with
// that email exists one is created with the project already in its
// list, which saves the second write. Two concurrent attaches can both
// see "does not exist"; the store's unique email index decides the
// race and the loser gets a Conflict.
func (s *ProjectService) AddClient(ctx context.Context, caller *auth.Caller, projectID primitive.ObjectID, input ClientInput) (models.ResolvedProject, error) {
	project, err := s.requireProject(ctx, projectID)
	if err != nil {
		return models.ResolvedProject{}, err
	}
	if err := Authorize(caller, OpProjectAddClient, membershipOf(project)); err != nil {
		return models.ResolvedProject{}, err
	}
	if input.Email == "" {
		return models.ResolvedProject{}, fmt.Errorf("%w: client email is required", apperrors.ErrValidation)
	}

	email := html.EscapeString(input.Email)

	var clientID primitive.ObjectID
	var existing models.User
	err = s.Users.FindOne(ctx, bson.M{"email": email}, &existing)
	switch {
	case err == nil:
		clientID = existing.ID
		if err := s.Users.AddUnique(ctx, clientID, "projects", projectID); err != nil {
			return models.ResolvedProject{}, err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		password, hashErr := utils.HashPassword(utils.GenerateRandomPassword())
		if hashErr != nil {
			return models.ResolvedProject{}, hashErr
		}
		client := models.User{
			Role:      models.RoleClient,
			FirstName: html.EscapeString(input.FirstName),
			LastName:  html.EscapeString(input.LastName),
			Email:     email,
			Password:  password,
			Projects:  []primitive.ObjectID{projectID},
		}
		clientID, err = s.Users.InsertOne(ctx, client)
		if err != nil {
			return models.ResolvedProject{}, err
		}
	default:
		return models.ResolvedProject{}, err
	}

	if err := s.Projects.AddUnique(ctx, projectID, "clients", clientID); err != nil {
		return models.ResolvedProject{}, err
	}
	return s.loadResolved(ctx, projectID)
}

// DeleteProject removes only the project document. Tasks and the
// members' project lists are left alone; their dangling references
// are skipped on resolution. Explicit policy, see DESIGN.md.
func (s *ProjectService) DeleteProject(ctx context.Context, caller *auth.Caller, projectID primitive.ObjectID) error {
	project, err := s.requireProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := Authorize(caller, OpProjectDelete, membershipOf(project)); err != nil {
		return err
	}
	return s.Projects.DeleteByID(ctx, projectID)
}

func (s *ProjectService) requireProject(ctx context.Context, projectID primitive.ObjectID) (models.Project, error) {
	var project models.Project
	if err := s.Projects.FindByID(ctx, projectID, &project); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Project{}, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID.Hex())
		}
		return models.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) loadResolved(ctx context.Context, projectID primitive.ObjectID) (models.ResolvedProject, error) {
	var project models.Project
	if err := s.Projects.FindByID(ctx, projectID, &project); err != nil {
		return models.ResolvedProject{}, err
	}
	return s.Resolver.ResolveProject(ctx, project)
}

func membershipOf(project models.Project) Membership {
	return Membership{Owners: project.Owners, Clients: project.Clients}
}
