// Package storage implements ownership-scoped CRUD over remote document
// collections. A generic collection core handles id plumbing and the
// read-before-write ownership discipline; thin typed stores per entity kind
// handle field conversion between domain records and persisted documents.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ledgerly/internal/core"
)

// document is the contract persisted documents satisfy so the generic core
// can enforce ownership.
type document interface {
	owner() string
}

// store is the generic ownership-scoped collection core.
type store[D document] struct {
	coll DataStore
	kind string
}

func remoteErr(op, kind string, err error) error {
	return fmt.Errorf("%s %s: %w: %v", op, kind, core.ErrRemote, err)
}

func (s *store[D]) insert(ctx context.Context, doc D) (string, error) {
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", remoteErr("insert", s.kind, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", remoteErr("insert", s.kind, fmt.Errorf("unexpected id type %T", res.InsertedID))
	}
	return oid.Hex(), nil
}

// get fetches a document by id. An id that cannot name any document maps to
// ErrNotFound rather than a remote failure.
func (s *store[D]) get(ctx context.Context, id string) (D, error) {
	var zero D
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, core.ErrNotFound
	}
	var doc D
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, core.ErrNotFound
		}
		return zero, remoteErr("get", s.kind, err)
	}
	return doc, nil
}

func (s *store[D]) listOwnedBy(ctx context.Context, userID string) ([]D, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, remoteErr("list", s.kind, err)
	}
	var docs []D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, remoteErr("decode", s.kind, err)
	}
	return docs, nil
}

// requireOwner verifies that the document at id belongs to userID. The check
// strictly precedes any mutation: callers run it before update or delete.
func (s *store[D]) requireOwner(ctx context.Context, id, userID string) error {
	doc, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if doc.owner() != userID {
		return core.ErrForbidden
	}
	return nil
}

func (s *store[D]) setFields(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.ErrNotFound
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return remoteErr("update", s.kind, err)
	}
	if res.MatchedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *store[D]) deleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return remoteErr("delete", s.kind, err)
	}
	// A concurrent delete of the same id can win the race between the
	// ownership check and this call; the loser reports NotFound.
	if res.DeletedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}
