// Package mongostore connects to MongoDB and provides the helpers shared by
// the document repositories: unique slug indexes and duplicate-key mapping.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

var (
	ErrFailedToConnect   = errors.New("mongostore: failed to connect to mongo")
	ErrHealthcheckFailed = errors.New("mongostore: healthcheck failed")
	ErrURIRequired       = errors.New("mongostore: uri is required")
)

// Config holds client options. Field names match runtimeconfig.MongoConfig
// so one converts to the other directly.
type Config struct {
	URI             string
	Database        string
	ConnectTimeout  time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryAttempts   int
	RetryInterval   time.Duration
}

func (c Config) withDefaults() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = 100
	}
	if c.MaxConnIdleTime <= 0 {
		c.MaxConnIdleTime = 300 * time.Second
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 5 * time.Second
	}
	return c
}

// Connect creates a client and pings the primary, retrying on failure so a
// cold cluster does not fail startup.
func Connect(ctx context.Context, cfg Config, logger interfaces.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, ErrURIRequired
	}
	cfg = cfg.withDefaults()
	logger = logging.Ensure(logger)

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(true).
		SetRetryReads(true)

	var client *mongo.Client
	attempt := 0
	connect := func() error {
		attempt++
		c, err := mongo.Connect(opts)
		if err != nil {
			logger.Warn("mongo.connect_failed", "attempt", attempt, "error", err)
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			logger.Warn("mongo.ping_failed", "attempt", attempt, "error", err)
			return err
		}
		client = c
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.RetryInterval), uint64(cfg.RetryAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToConnect, err)
	}
	logger.Info("mongo.connected", "database", cfg.Database, "attempts", attempt)
	return client, nil
}

// Open connects and returns the configured database.
func Open(ctx context.Context, cfg Config, logger interfaces.Logger) (*mongo.Database, error) {
	client, err := Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	name := cfg.Database
	if name == "" {
		name = "deepwood"
	}
	return client.Database(name), nil
}

// Healthcheck returns a probe that pings the primary.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
