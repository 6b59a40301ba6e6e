package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Project struct {
	ID      primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title   string               `json:"title" bson:"title"`
	Owners  []primitive.ObjectID `json:"owners" bson:"owners"`
	Clients []primitive.ObjectID `json:"clients" bson:"clients"`
	Tasks   []primitive.ObjectID `json:"tasks" bson:"tasks"`
}

// ResolvedProject is a Project with its reference lists expanded into
// full documents. Identifiers that no longer resolve are skipped.
type ResolvedProject struct {
	ID      primitive.ObjectID `json:"id"`
	Title   string             `json:"title"`
	Owners  []UserView         `json:"owners"`
	Clients []UserView         `json:"clients"`
	Tasks   []Task             `json:"tasks"`
}
