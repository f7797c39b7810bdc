package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CasesCollection = "debt_cases"
	RulesCollection = "state_transition_configs"
)

// Connect opens a client to uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes both repositories rely on. It is
// idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CasesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "currentState", Value: 1}}},
		{Keys: bson.D{{Key: "nextDeadlineDate", Value: 1}}},
		{Keys: bson.D{{Key: "debtorName", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongo: create case indexes: %w", err)
	}

	_, err = db.Collection(RulesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "fromState", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: create rule index: %w", err)
	}
	return nil
}

// HealthCheck pings the primary.
func HealthCheck(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}
