package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleClient UserRole = "CLIENT"
)

type User struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Role      UserRole             `json:"role" bson:"role"`
	FirstName string               `json:"firstName" bson:"firstName"`
	LastName  string               `json:"lastName" bson:"lastName"`
	Email     string               `json:"email" bson:"email"`
	Password  string               `json:"password,omitempty" bson:"password"`
	Projects  []primitive.ObjectID `json:"projects" bson:"projects"`
}

// UserView is what goes over the wire: no password hash, plus the
// projectCount virtual computed from the projects reference list.
type UserView struct {
	ID           primitive.ObjectID   `json:"id"`
	Role         UserRole             `json:"role"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	Email        string               `json:"email"`
	Projects     []primitive.ObjectID `json:"projects"`
	ProjectCount int                  `json:"projectCount"`
}

func (u User) View() UserView {
	return UserView{
		ID:           u.ID,
		Role:         u.Role,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Projects:     u.Projects,
		ProjectCount: len(u.Projects),
	}
}
