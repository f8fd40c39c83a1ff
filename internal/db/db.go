package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/relentron/website/internal/config"
	"github.com/relentron/website/internal/logging"
)

const connectTimeout = 10 * time.Second

// Database wraps the process-wide Mongo client.
// It is built once at startup, shared by every request through the driver's
// connection pool, and closed on shutdown.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens the Mongo client and verifies it with a ping
func Connect(ctx context.Context, cfg config.MongoConfig) (*Database, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo connection string not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("relentron-website").
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.GetLogger().Info("MongoDB connected successfully (database=%s)", cfg.Database)

	return &Database{
		Client: client,
		DB:     client.Database(cfg.Database),
	}, nil
}

// Collection returns a handle on the named collection
func (d *Database) Collection(name string) *mongo.Collection {
	return d.DB.Collection(name)
}

// Ping checks the primary is reachable
func (d *Database) Ping(ctx context.Context) error {
	return d.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client and releases the pool
func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
