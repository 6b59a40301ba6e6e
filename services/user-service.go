package services

import (
	"context"
	"fmt"
	"html"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/apperrors"
	"github.com/beingsuperior/Freelancing-project-managment/auth"
	"github.com/beingsuperior/Freelancing-project-managment/models"
	"github.com/beingsuperior/Freelancing-project-managment/store"
	"github.com/beingsuperior/Freelancing-project-managment/utils"
)

type UserService struct {
	Users      store.Collection
	JWTService *auth.JWTService
}

func NewUserService(users store.Collection, jwtService *auth.JWTService) *UserService {
	return &UserService{Users: users, JWTService: jwtService}
}

type RegisterInput struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Role      models.UserRole `json:"role"`
}

// Register creates a user and signs them in. A duplicate email
// surfaces as a Conflict; the store's unique index is the only guard
// against two concurrent registrations racing on the same address.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (models.User, string, error) {
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return models.User{}, "", fmt.Errorf("%w: first name, last name, email and password are required", apperrors.ErrValidation)
	}

	role := input.Role
	if role == "" {
		role = models.RoleClient
	}
	if role != models.RoleAdmin && role != models.RoleClient {
		return models.User{}, "", fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, input.Role)
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{
		Role:      role,
		FirstName: html.EscapeString(input.FirstName),
		LastName:  html.EscapeString(input.LastName),
		Email:     html.EscapeString(input.Email),
		Password:  hashedPassword,
		Projects:  []primitive.ObjectID{},
	}

	id, err := s.Users.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, "", err
	}
	user.ID = id

	token, err := s.JWTService.GenerateToken(user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %v", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token. A missing
// user and a wrong password get the same answer on purpose.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	var user models.User
	if err := s.Users.FindOne(ctx, bson.M{"email": email}, &user); err != nil {
		return models.User{}, "", fmt.Errorf("%w: incorrect login credentials", apperrors.ErrUnauthenticated)
	}

	if !utils.CheckPassword(user.Password, password) {
		return models.User{}, "", fmt.Errorf("%w: incorrect login credentials", apperrors.ErrUnauthenticated)
	}

	token, err := s.JWTService.GenerateToken(user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %v", err)
	}
	return user, token, nil
}

// CurrentUser returns the caller's own record.
func (s *UserService) CurrentUser(ctx context.Context, caller *auth.Caller) (models.User, error) {
	if caller == nil {
		return models.User{}, apperrors.ErrUnauthenticated
	}

	var user models.User
	if err := s.Users.FindByID(ctx, caller.ID, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

type UpdateUserInput struct {
	FirstName *string          `json:"firstName"`
	LastName  *string          `json:"lastName"`
	Email     *string          `json:"email"`
	Password  *string          `json:"password"`
	Role      *models.UserRole `json:"role"`
}

// UpdateUser patches the caller's own profile. The target is the
// caller by construction, which is the whole self-service policy.
func (s *UserService) UpdateUser(ctx context.Context, caller *auth.Caller, input UpdateUserInput) (models.User, error) {
	if caller == nil {
		return models.User{}, apperrors.ErrUnauthenticated
	}

	set := bson.M{}
	if input.FirstName != nil {
		set["firstName"] = html.EscapeString(*input.FirstName)
	}
	if input.LastName != nil {
		set["lastName"] = html.EscapeString(*input.LastName)
	}
	if input.Email != nil {
		set["email"] = html.EscapeString(*input.Email)
	}
	if input.Role != nil {
		if *input.Role != models.RoleAdmin && *input.Role != models.RoleClient {
			return models.User{}, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, *input.Role)
		}
		set["role"] = *input.Role
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			return models.User{}, err
		}
		set["password"] = hashed
	}
	if len(set) == 0 {
		return models.User{}, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}

	var user models.User
	if err := s.Users.UpdateByID(ctx, caller.ID, set, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes the caller's own account after re-verifying the
// supplied password against the stored hash. Deletion does not cascade
// to projects; the opposite side's reference lists keep a dangling id
// that resolution skips.
func (s *UserService) DeleteUser(ctx context.Context, caller *auth.Caller, password string) error {
	if caller == nil {
		return apperrors.ErrUnauthenticated
	}

	var user models.User
	if err := s.Users.FindByID(ctx, caller.ID, &user); err != nil {
		return err
	}

	if !utils.CheckPassword(user.Password, password) {
		return fmt.Errorf("%w: incorrect password", apperrors.ErrUnauthorized)
	}

	return s.Users.DeleteByID(ctx, caller.ID)
}
