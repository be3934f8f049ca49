package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names, one per entity kind.
const (
	UsersCollection          = "users"
	TransactionsCollection   = "transactions"
	RecurringBillsCollection = "recurringBills"
	RemindersCollection      = "reminders"
)

// DataStore defines the document-collection operations the record stores
// need. *mongo.Collection satisfies it through MongoCollection; tests use an
// in-memory fake.
type DataStore interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// CollectionProvider hands out a DataStore per collection name.
type CollectionProvider interface {
	Collection(name string) DataStore
}

// MongoCollection adapts *mongo.Collection to DataStore.
type MongoCollection struct {
	*mongo.Collection
}

// MongoProvider adapts a connected *mongo.Client to CollectionProvider.
type MongoProvider struct {
	client *mongo.Client
	dbName string
}

// NewMongoProvider creates a provider scoped to one database.
func NewMongoProvider(client *mongo.Client, dbName string) *MongoProvider {
	return &MongoProvider{client: client, dbName: dbName}
}

// Collection returns a DataStore for the given collection name.
func (p *MongoProvider) Collection(name string) DataStore {
	return &MongoCollection{p.client.Database(p.dbName).Collection(name)}
}

// Connect establishes and pings a MongoDB connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}
