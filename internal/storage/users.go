package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ledgerly/internal/core"
)

// User is a stored account for the identity provider. The password is kept
// only as a bcrypt hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	DisplayName  string             `bson:"displayName"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

// UserStore persists identity-provider accounts.
type UserStore struct {
	coll DataStore
	now  func() time.Time
}

func NewUserStore(provider CollectionProvider) *UserStore {
	return &UserStore{coll: provider.Collection(UsersCollection), now: time.Now}
}

// Insert stores a new user and returns it with id and creation time set.
func (s *UserStore) Insert(ctx context.Context, u User) (User, error) {
	doc := userDoc{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		CreatedAt:    s.now().UTC(),
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return User{}, remoteErr("insert", "user", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return User{}, remoteErr("insert", "user", errors.New("unexpected id type"))
	}
	u.ID = oid.Hex()
	u.CreatedAt = doc.CreatedAt
	return u, nil
}

// FindByEmail looks an account up by its unique email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// FindByID looks an account up by id.
func (s *UserStore) FindByID(ctx context.Context, id string) (User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return User{}, core.ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, core.ErrNotFound
		}
		return User{}, remoteErr("get", "user", err)
	}
	return User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		DisplayName:  doc.DisplayName,
		CreatedAt:    doc.CreatedAt,
	}, nil
}
