package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/apperrors"
	"github.com/beingsuperior/Freelancing-project-managment/auth"
	"github.com/beingsuperior/Freelancing-project-managment/models"
)

func callerFor(id primitive.ObjectID) *auth.Caller {
	return &auth.Caller{ID: id, Role: models.RoleAdmin}
}

func TestAuthorize_NilCallerIsUnauthenticated(t *testing.T) {
	t.Parallel()

	for op := range policyTable {
		err := Authorize(nil, op, Membership{})
		require.ErrorIs(t, err, apperrors.ErrUnauthenticated, "op %s", op)
	}
}

func TestAuthorize_OwnerAndClientScopes(t *testing.T) {
	t.Parallel()

	owner := primitive.NewObjectID()
	client := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	m := Membership{
		Owners:  []primitive.ObjectID{owner},
		Clients: []primitive.ObjectID{client},
	}

	memberOps := []Operation{OpProjectRead, OpTaskRead, OpCommentAdd}
	ownerOps := []Operation{
		OpProjectRename, OpProjectAddClient, OpProjectDelete,
		OpTaskCreate, OpTaskUpdate, OpTaskDelete,
		OpLoggedTimeAdd, OpLoggedTimeDelete,
	}

	for _, op := range memberOps {
		require.NoError(t, Authorize(callerFor(owner), op, m), "owner on %s", op)
		require.NoError(t, Authorize(callerFor(client), op, m), "client on %s", op)
		require.ErrorIs(t, Authorize(callerFor(stranger), op, m), apperrors.ErrUnauthorized, "stranger on %s", op)
	}

	for _, op := range ownerOps {
		require.NoError(t, Authorize(callerFor(owner), op, m), "owner on %s", op)
		require.ErrorIs(t, Authorize(callerFor(client), op, m), apperrors.ErrUnauthorized, "client on %s", op)
		require.ErrorIs(t, Authorize(callerFor(stranger), op, m), apperrors.ErrUnauthorized, "stranger on %s", op)
	}
}

// A caller denied a member-level read must also be denied every
// owner-level write on the same project.
func TestAuthorize_Monotonic(t *testing.T) {
	t.Parallel()

	stranger := callerFor(primitive.NewObjectID())
	m := Membership{
		Owners:  []primitive.ObjectID{primitive.NewObjectID()},
		Clients: []primitive.ObjectID{primitive.NewObjectID()},
	}

	readErr := Authorize(stranger, OpProjectRead, m)
	require.ErrorIs(t, readErr, apperrors.ErrUnauthorized)

	for op, rel := range policyTable {
		if rel != RelationOwner {
			continue
		}
		require.ErrorIs(t, Authorize(stranger, op, m), apperrors.ErrUnauthorized, "op %s", op)
	}
}

func TestAuthorize_CommentDeleteIsAuthorOnly(t *testing.T) {
	t.Parallel()

	author := primitive.NewObjectID()
	projectOwner := primitive.NewObjectID()

	m := Membership{Author: author}

	require.NoError(t, Authorize(callerFor(author), OpCommentDelete, m))
	// Project ownership does not help here.
	err := Authorize(callerFor(projectOwner), OpCommentDelete, m)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthorize_ZeroAuthorNeverMatches(t *testing.T) {
	t.Parallel()

	err := Authorize(callerFor(primitive.NilObjectID), OpCommentDelete, Membership{})
	require.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}
