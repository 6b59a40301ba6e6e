package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/apperrors"
	"github.com/beingsuperior/Freelancing-project-managment/auth"
)

// Operation names every protected action on the project graph.
type Operation string

const (
	OpProjectRead      Operation = "project:read"
	OpProjectRename    Operation = "project:rename"
	OpProjectAddClient Operation = "project:add-client"
	OpProjectDelete    Operation = "project:delete"
	OpTaskRead         Operation = "task:read"
	OpTaskCreate       Operation = "task:create"
	OpTaskUpdate       Operation = "task:update"
	OpTaskDelete       Operation = "task:delete"
	OpCommentAdd       Operation = "comment:add"
	OpCommentDelete    Operation = "comment:delete"
	OpLoggedTimeAdd    Operation = "time:add"
	OpLoggedTimeDelete Operation = "time:delete"
)

// Relation is the relationship a caller must hold to the target.
type Relation int

const (
	// RelationMember: caller is in the project's owner or client list.
	RelationMember Relation = iota
	// RelationOwner: caller is in the owner list; clients are not enough.
	RelationOwner
	// RelationAuthor: caller authored the target document.
	RelationAuthor
)

// policyTable is the single place the per-operation authorization
// rules live. Note the deliberate asymmetry: clients may read and
// comment, but logged time is owner territory in both directions.
var policyTable = map[Operation]Relation{
	OpProjectRead:      RelationMember,
	OpProjectRename:    RelationOwner,
	OpProjectAddClient: RelationOwner,
	OpProjectDelete:    RelationOwner,
	OpTaskRead:         RelationMember,
	OpTaskCreate:       RelationOwner,
	OpTaskUpdate:       RelationOwner,
	OpTaskDelete:       RelationOwner,
	OpCommentAdd:       RelationMember,
	OpCommentDelete:    RelationAuthor,
	OpLoggedTimeAdd:    RelationOwner,
	OpLoggedTimeDelete: RelationOwner,
}

// Membership carries the target's relationship lists. For author-gated
// operations only Author is consulted.
type Membership struct {
	Owners  []primitive.ObjectID
	Clients []primitive.ObjectID
	Author  primitive.ObjectID
}

// Authorize decides whether the caller may perform op on a target with
// the given membership. A nil caller is "not logged in", which is a
// different answer than "not authorized". Existence of the target is
// checked before this is called, so NotFound never masquerades as an
// authorization failure.
func Authorize(caller *auth.Caller, op Operation, m Membership) error {
	if caller == nil {
		return apperrors.ErrUnauthenticated
	}

	rel, ok := policyTable[op]
	if !ok {
		return apperrors.ErrUnauthorized
	}

	switch rel {
	case RelationOwner:
		if containsID(m.Owners, caller.ID) {
			return nil
		}
	case RelationMember:
		if containsID(m.Owners, caller.ID) || containsID(m.Clients, caller.ID) {
			return nil
		}
	case RelationAuthor:
		if !m.Author.IsZero() && m.Author == caller.ID {
			return nil
		}
	}
	return apperrors.ErrUnauthorized
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
