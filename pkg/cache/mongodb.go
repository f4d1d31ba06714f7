package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Value     []byte     `bson:"value"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// MongoCache stores entries in a MongoDB collection. Expired documents are
// removed by a TTL index and are also ignored on read.
type MongoCache struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoCache connects to MongoDB and prepares the cache collection
func NewMongoCache(ctx context.Context, cfg *MongoConfig) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = "netsuite"
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "cache"
	}

	c := &MongoCache{
		client:     client,
		collection: client.Database(database).Collection(collection),
		now:        time.Now,
	}

	_, err = c.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("creating cache indexes: %w", err)
	}

	return c, nil
}

// Get implements Cache
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("finding cache entry: %w", err)
	}
	if entry.ExpiresAt != nil && !c.now().Before(*entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry.Value, true, nil
}

// Set implements Cache
func (c *MongoCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Value: value}
	if ttl > 0 {
		expiresAt := c.now().Add(ttl).UTC()
		entry.ExpiresAt = &expiresAt
	}

	_, err := c.collection.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB
func (c *MongoCache) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
