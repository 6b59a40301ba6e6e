package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Body      string             `json:"body" bson:"body"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	TaskID    primitive.ObjectID `json:"taskId" bson:"taskId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type ResolvedComment struct {
	ID        primitive.ObjectID `json:"id"`
	Body      string             `json:"body"`
	User      *UserView          `json:"user,omitempty"`
	TaskID    primitive.ObjectID `json:"taskId"`
	CreatedAt time.Time          `json:"createdAt"`
}
