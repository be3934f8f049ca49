package storage

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FakeProvider is an in-memory CollectionProvider for tests. It supports
// the equality filters the stores actually issue (_id, userId, email) and
// round-trips documents through bson so timestamp handling matches the real
// driver.
type FakeProvider struct {
	mu    sync.Mutex
	colls map[string]*FakeCollection
}

// NewFakeProvider creates an empty in-memory provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{colls: make(map[string]*FakeCollection)}
}

// Collection returns the named fake collection, creating it on first use.
func (p *FakeProvider) Collection(name string) DataStore {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.colls[name]; ok {
		return c
	}
	c := &FakeCollection{docs: make(map[primitive.ObjectID]bson.M)}
	p.colls[name] = c
	return c
}

// FakeCollection is a minimal in-memory stand-in for a Mongo collection.
type FakeCollection struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]bson.M
	order []primitive.ObjectID

	// FailNext, when set, makes the next operation return this error.
	FailNext error
}

// Count reports the number of stored documents.
func (c *FakeCollection) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func (c *FakeCollection) takeFailure() error {
	err := c.FailNext
	c.FailNext = nil
	return err
}

// normalize round-trips a value through bson so stored representations
// match what the real driver would persist (e.g. *time.Time becomes a
// primitive.DateTime, nil pointers become null).
func normalize(v interface{}) (interface{}, error) {
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m["v"], nil
}

func toMap(document interface{}) (bson.M, error) {
	raw, err := bson.Marshal(document)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func matches(doc bson.M, filter interface{}) (bool, error) {
	f, ok := filter.(bson.M)
	if !ok {
		return false, fmt.Errorf("unsupported filter type %T", filter)
	}
	for key, want := range f {
		norm, err := normalize(want)
		if err != nil {
			return false, err
		}
		if doc[key] != norm {
			return false, nil
		}
	}
	return true, nil
}

func (c *FakeCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}

	m, err := toMap(document)
	if err != nil {
		return nil, err
	}
	id := primitive.NewObjectID()
	m["_id"] = id
	c.docs[id] = m
	c.order = append(c.order, id)
	return &mongo.InsertOneResult{InsertedID: id}, nil
}

func (c *FakeCollection) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return mongo.NewSingleResultFromDocument(bson.M{}, err, nil)
	}

	for _, id := range c.order {
		doc, ok := c.docs[id]
		if !ok {
			continue
		}
		found, err := matches(doc, filter)
		if err != nil {
			return mongo.NewSingleResultFromDocument(bson.M{}, err, nil)
		}
		if found {
			return mongo.NewSingleResultFromDocument(doc, nil, nil)
		}
	}
	return mongo.NewSingleResultFromDocument(bson.M{}, mongo.ErrNoDocuments, nil)
}

func (c *FakeCollection) Find(_ context.Context, filter interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}

	var out []interface{}
	for _, id := range c.order {
		doc, ok := c.docs[id]
		if !ok {
			continue
		}
		found, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, doc)
		}
	}
	return mongo.NewCursorFromDocuments(out, nil, nil)
}

func (c *FakeCollection) UpdateOne(_ context.Context, filter interface{}, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}

	set, err := updateFields(update)
	if err != nil {
		return nil, err
	}
	for _, id := range c.order {
		doc, ok := c.docs[id]
		if !ok {
			continue
		}
		found, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		for k, v := range set {
			norm, err := normalize(v)
			if err != nil {
				return nil, err
			}
			doc[k] = norm
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return &mongo.UpdateResult{}, nil
}

func (c *FakeCollection) DeleteOne(_ context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}

	for i, id := range c.order {
		doc, ok := c.docs[id]
		if !ok {
			continue
		}
		found, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if found {
			delete(c.docs, id)
			c.order = append(c.order[:i], c.order[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func updateFields(update interface{}) (bson.M, error) {
	u, ok := update.(bson.M)
	if !ok {
		return nil, fmt.Errorf("unsupported update type %T", update)
	}
	set, ok := u["$set"].(bson.M)
	if !ok {
		return nil, fmt.Errorf("unsupported update document %v", update)
	}
	return set, nil
}
