package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type LoggedTime struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Description string             `json:"description" bson:"description"`
	Date        string             `json:"date" bson:"date"`
	Hours       float64            `json:"hours" bson:"hours"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	TaskID      primitive.ObjectID `json:"taskId" bson:"taskId"`
}
