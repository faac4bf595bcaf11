package mongo

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Client is a lazily connected, process-wide handle. Connect and Disconnect
// are safe to call repeatedly; only the first Connect dials the server.
type Client struct {
	mu     sync.Mutex
	raw    *mongo.Client
	uri    string
	dbName string
}

func NewClient(uri, dbName string) *Client {
	return &Client{uri: uri, dbName: dbName}
}

func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.raw != nil {
		return nil
	}
	if c.uri == "" {
		return errors.New("MONGODB_URI is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	raw, err := mongo.Connect(ctx, options.Client().ApplyURI(c.uri))
	if err != nil {
		return err
	}
	if err := raw.Ping(ctx, readpref.Primary()); err != nil {
		_ = raw.Disconnect(context.Background())
		return err
	}
	c.raw = raw
	return nil
}

func (c *Client) DB() (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.raw == nil {
		return nil, errors.New("mongo client not initialized")
	}
	return c.raw.Database(c.dbName), nil
}

func (c *Client) Ping(ctx context.Context) error {
	c.mu.Lock()
	raw := c.raw
	c.mu.Unlock()

	if raw == nil {
		return errors.New("mongo client not initialized")
	}
	return raw.Ping(ctx, readpref.Primary())
}

func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.raw == nil {
		return nil
	}
	err := c.raw.Disconnect(ctx)
	c.raw = nil
	return err
}
