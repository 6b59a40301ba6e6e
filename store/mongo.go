package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/beingsuperior/Freelancing-project-managment/apperrors"
	"github.com/beingsuperior/Freelancing-project-managment/logging"
)

// MongoCollection implements Collection over a mongo collection. Every
// command goes through a shared circuit breaker so a struggling
// database trips fast instead of piling up requests.
type MongoCollection struct {
	coll    *mongo.Collection
	breaker *gobreaker.CircuitBreaker
}

// NewBreaker builds the circuit breaker shared by all collections of
// one database.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		// Misses and duplicate keys are answers from a healthy
		// database, not failures worth tripping on.
		IsSuccessful: func(err error) bool {
			return err == nil || err == mongo.ErrNoDocuments || mongo.IsDuplicateKeyError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func NewMongoCollection(coll *mongo.Collection, breaker *gobreaker.CircuitBreaker) *MongoCollection {
	return &MongoCollection{coll: coll, breaker: breaker}
}

// EnsureUserIndexes creates the unique email index that guards the
// concurrent create-client-by-email race.
func EnsureUserIndexes(ctx context.Context, users *mongo.Collection) error {
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %v", err)
	}
	return nil
}

func (c *MongoCollection) execute(op func() (interface{}, error)) (interface{}, error) {
	return c.breaker.Execute(op)
}

func (c *MongoCollection) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	res, err := c.execute(func() (interface{}, error) {
		return c.coll.InsertOne(ctx, doc)
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, apperrors.ErrConflict
		}
		return primitive.NilObjectID, fmt.Errorf("insert failed: %w", err)
	}
	id, ok := res.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type")
	}
	return id, nil
}

func (c *MongoCollection) FindByID(ctx context.Context, id primitive.ObjectID, out interface{}) error {
	return c.FindOne(ctx, bson.M{"_id": id}, out)
}

func (c *MongoCollection) FindOne(ctx context.Context, filter bson.M, out interface{}) error {
	_, err := c.execute(func() (interface{}, error) {
		return nil, c.coll.FindOne(ctx, filter).Decode(out)
	})
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("find failed: %w", err)
}

func (c *MongoCollection) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M, out interface{}) error {
	_, err := c.execute(func() (interface{}, error) {
		res := c.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)
		if res.Err() != nil {
			return nil, res.Err()
		}
		if out == nil {
			return nil, nil
		}
		return nil, res.Decode(out)
	})
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return apperrors.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrConflict
	}
	return fmt.Errorf("update failed: %w", err)
}

func (c *MongoCollection) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.execute(func() (interface{}, error) {
		return c.coll.DeleteOne(ctx, bson.M{"_id": id})
	})
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if res.(*mongo.DeleteResult).DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (c *MongoCollection) AddUnique(ctx context.Context, id primitive.ObjectID, field string, value interface{}) error {
	return c.listUpdate(ctx, id, bson.M{"$addToSet": bson.M{field: value}})
}

func (c *MongoCollection) Push(ctx context.Context, id primitive.ObjectID, field string, value interface{}) error {
	return c.listUpdate(ctx, id, bson.M{"$push": bson.M{field: value}})
}

func (c *MongoCollection) Pull(ctx context.Context, id primitive.ObjectID, field string, value interface{}) error {
	return c.listUpdate(ctx, id, bson.M{"$pull": bson.M{field: value}})
}

func (c *MongoCollection) listUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := c.execute(func() (interface{}, error) {
		return c.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	})
	if err != nil {
		return fmt.Errorf("list update failed: %w", err)
	}
	if res.(*mongo.UpdateResult).MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (c *MongoCollection) Exists(ctx context.Context, filter bson.M) (bool, error) {
	res, err := c.execute(func() (interface{}, error) {
		return c.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	})
	if err != nil {
		return false, fmt.Errorf("exists check failed: %w", err)
	}
	return res.(int64) > 0, nil
}
