package testutil

import (
	"context"
	"testing"
	"time"

	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContainer wraps a testcontainers MongoDB instance.
type MongoContainer struct {
	Container *tcmongo.MongoDBContainer
	URI       string
	Client    *mongo.Client
}

// NewMongoContainer starts a MongoDB container. The caller should defer
// container.Cleanup(t).
func NewMongoContainer(ctx context.Context, t *testing.T) *MongoContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in -short mode")
	}

	container, err := tcmongo.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get mongo connection string: %v", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	return &MongoContainer{Container: container, URI: uri, Client: client}
}

// Cleanup disconnects the client and terminates the container.
func (mc *MongoContainer) Cleanup(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if mc.Client != nil {
		_ = mc.Client.Disconnect(ctx)
	}
	if mc.Container != nil {
		if err := mc.Container.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate mongo container: %v", err)
		}
	}
}
