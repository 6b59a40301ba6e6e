// Package store is the entity-store boundary. Services talk to a
// Collection, never to a mongo handle directly, so the same graph
// logic runs against MongoDB in production and the in-memory store in
// tests. The list primitives (AddUnique, Push, Pull) are idempotent,
// which is what the multi-step write sequences rely on instead of
// cross-document transactions.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Collection interface {
	// InsertOne stores the document and returns the identifier the
	// store assigned to it. A unique-index violation is reported as
	// apperrors.ErrConflict.
	InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error)

	// FindByID decodes the document with the given identifier into out.
	// Returns apperrors.ErrNotFound if no such document exists.
	FindByID(ctx context.Context, id primitive.ObjectID, out interface{}) error

	// FindOne decodes the first document matching the filter into out.
	// Returns apperrors.ErrNotFound if nothing matches.
	FindOne(ctx context.Context, filter bson.M, out interface{}) error

	// UpdateByID applies a $set-style patch. When out is non-nil the
	// updated document is decoded into it.
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M, out interface{}) error

	// DeleteByID removes the document. Deleting an absent document
	// returns apperrors.ErrNotFound.
	DeleteByID(ctx context.Context, id primitive.ObjectID) error

	// AddUnique adds value to the list field iff it is not already
	// present. Safe to retry.
	AddUnique(ctx context.Context, id primitive.ObjectID, field string, value interface{}) error

	// Push appends value to the list field.
	Push(ctx context.Context, id primitive.ObjectID, field string, value interface{}) error

	// Pull removes every occurrence of value from the list field. Safe
	// to retry; pulling an absent value is a no-op.
	Pull(ctx context.Context, id primitive.ObjectID, field string, value interface{}) error

	// Exists reports whether any document matches the filter.
	Exists(ctx context.Context, filter bson.M) (bool, error)
}
