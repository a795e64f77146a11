package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes the storage layer relies on.
// These are the authoritative guards against duplicate emails, duplicate
// reset tokens and duplicate catalog names; the services only pre-check.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	uniq := options.Index().SetUnique(true)

	specs := map[string]mongo.IndexModel{
		"users":                 {Keys: bson.D{{Key: "email", Value: 1}}, Options: uniq},
		"password_reset_tokens": {Keys: bson.D{{Key: "token", Value: 1}}, Options: uniq},
		"products":              {Keys: bson.D{{Key: "name", Value: 1}}, Options: uniq},
		"categories":            {Keys: bson.D{{Key: "name", Value: 1}}, Options: uniq},
		"carts":                 {Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: uniq},
	}
	for col, model := range specs {
		if _, err := db.Collection(col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("ensure index on %s: %w", col, err)
		}
	}
	return nil
}
