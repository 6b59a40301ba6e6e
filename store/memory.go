package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/apperrors"
)

// MemoryCollection is the in-memory twin of MongoCollection, used by
// the service tests. Documents are held as bson maps and round-tripped
// through the bson codec on every read so callers never alias stored
// state. Unique fields reproduce the store-level uniqueness guard
// (losing a create race surfaces ErrConflict, same as Mongo).
type MemoryCollection struct {
	mu     sync.RWMutex
	docs   map[primitive.ObjectID]bson.M
	order  []primitive.ObjectID
	unique []string
}

func NewMemoryCollection(uniqueFields ...string) *MemoryCollection {
	return &MemoryCollection{
		docs:   make(map[primitive.ObjectID]bson.M),
		unique: uniqueFields,
	}
}

// toDoc normalizes an arbitrary struct or map into a bson.M through
// the codec, so stored values carry the same bson types Mongo would
// hand back.
func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func normalizeValue(v interface{}) (interface{}, error) {
	doc, err := toDoc(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

func decodeInto(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return bson.Unmarshal(raw, out)
}

func (c *MemoryCollection) InsertOne(_ context.Context, v interface{}) (primitive.ObjectID, error) {
	doc, err := toDoc(v)
	if err != nil {
		return primitive.NilObjectID, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, field := range c.unique {
		want, ok := doc[field]
		if !ok {
			continue
		}
		for _, existing := range c.docs {
			if existing[field] == want {
				return primitive.NilObjectID, apperrors.ErrConflict
			}
		}
	}

	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		doc["_id"] = id
	}
	c.docs[id] = doc
	c.order = append(c.order, id)
	return id, nil
}

func (c *MemoryCollection) FindByID(ctx context.Context, id primitive.ObjectID, out interface{}) error {
	return c.FindOne(ctx, bson.M{"_id": id}, out)
}

func (c *MemoryCollection) FindOne(_ context.Context, filter bson.M, out interface{}) error {
	norm, err := toDoc(filter)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.order {
		doc, ok := c.docs[id]
		if !ok {
			continue
		}
		if matches(doc, norm) {
			return decodeInto(doc, out)
		}
	}
	return apperrors.ErrNotFound
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if doc[k] != want {
			return false
		}
	}
	return true
}

func (c *MemoryCollection) UpdateByID(_ context.Context, id primitive.ObjectID, set bson.M, out interface{}) error {
	norm, err := toDoc(set)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for _, field := range c.unique {
		want, changed := norm[field]
		if !changed {
			continue
		}
		for otherID, other := range c.docs {
			if otherID != id && other[field] == want {
				return apperrors.ErrConflict
			}
		}
	}
	for k, v := range norm {
		doc[k] = v
	}
	if out == nil {
		return nil
	}
	return decodeInto(doc, out)
}

func (c *MemoryCollection) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(c.docs, id)
	return nil
}

func (c *MemoryCollection) AddUnique(ctx context.Context, id primitive.ObjectID, field string, value interface{}) error {
	return c.listUpdate(id, field, value, func(list primitive.A, v interface{}) primitive.A {
		for _, item := range list {
			if item == v {
				return list
			}
		}
		return append(list, v)
	})
}

func (c *MemoryCollection) Push(_ context.Context, id primitive.ObjectID, field string, value interface{}) error {
	return c.listUpdate(id, field, value, func(list primitive.A, v interface{}) primitive.A {
		return append(list, v)
	})
}

func (c *MemoryCollection) Pull(_ context.Context, id primitive.ObjectID, field string, value interface{}) error {
	return c.listUpdate(id, field, value, func(list primitive.A, v interface{}) primitive.A {
		kept := list[:0]
		for _, item := range list {
			if item != v {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

func (c *MemoryCollection) listUpdate(id primitive.ObjectID, field string, value interface{}, apply func(primitive.A, interface{}) primitive.A) error {
	v, err := normalizeValue(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	list, _ := doc[field].(primitive.A)
	doc[field] = apply(list, v)
	return nil
}

func (c *MemoryCollection) Exists(_ context.Context, filter bson.M) (bool, error) {
	norm, err := toDoc(filter)
	if err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		if matches(doc, norm) {
			return true, nil
		}
	}
	return false, nil
}
