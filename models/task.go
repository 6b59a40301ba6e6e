package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type TaskStatus string

const (
	StatusRequested  TaskStatus = "REQUESTED"
	StatusInProgress TaskStatus = "INPROGRESS"
	StatusComplete   TaskStatus = "COMPLETE"
)

// ValidStatus reports whether s is one of the known task states. The
// states carry no enforced transition order.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusRequested, StatusInProgress, StatusComplete:
		return true
	}
	return false
}

type Task struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Project        primitive.ObjectID   `json:"project" bson:"project"`
	Title          string               `json:"title" bson:"title"`
	Description    string               `json:"description" bson:"description"`
	Status         TaskStatus           `json:"status" bson:"status"`
	EstimatedHours float64              `json:"estimatedHours" bson:"estimatedHours"`
	Comments       []primitive.ObjectID `json:"comments" bson:"comments"`
	TimeLog        []primitive.ObjectID `json:"timeLog" bson:"timeLog"`
}

// ResolvedTask expands the task's references and carries the derived
// totalHours value, which is recomputed on every read and never stored.
type ResolvedTask struct {
	ID             primitive.ObjectID `json:"id"`
	Project        *Project           `json:"project,omitempty"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         TaskStatus         `json:"status"`
	EstimatedHours float64            `json:"estimatedHours"`
	Comments       []ResolvedComment  `json:"comments"`
	TimeLog        []LoggedTime       `json:"timeLog"`
	TotalHours     float64            `json:"totalHours"`
}
