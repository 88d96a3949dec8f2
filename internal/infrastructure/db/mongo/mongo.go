package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codehive/classroom/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Manager owns the process-wide MongoDB client. The first caller of Client
// triggers connection establishment; concurrent callers join the same
// in-flight attempt instead of dialling again. A failed attempt reports the
// same error to every waiter and leaves the manager reusable, so the next
// call retries from scratch.
type Manager struct {
	cfg Config

	mu      sync.Mutex
	client  *mongo.Client
	attempt *connectAttempt

	// dial is swapped out in tests; defaults to the real connect.
	dial func(ctx context.Context, cfg Config) (*mongo.Client, error)
}

type connectAttempt struct {
	done   chan struct{}
	client *mongo.Client
	err    error
}

// NewManager creates a Manager. No connection is made until the first Client call.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, dial: connect}
}

// Client returns the shared client, connecting lazily on first use.
func (m *Manager) Client(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	if m.client != nil {
		c := m.client
		m.mu.Unlock()
		return c, nil
	}

	if m.attempt == nil {
		att := &connectAttempt{done: make(chan struct{})}
		m.attempt = att
		m.mu.Unlock()

		att.client, att.err = m.dial(ctx, m.cfg)
		if att.err != nil {
			// Every waiter on this attempt sees the same distinct error.
			att.err = fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, att.err)
		}

		m.mu.Lock()
		if att.err == nil {
			m.client = att.client
		}
		// Clear the attempt either way so a failure is not sticky.
		m.attempt = nil
		m.mu.Unlock()
		close(att.done)

		return att.client, att.err
	}

	att := m.attempt
	m.mu.Unlock()

	select {
	case <-att.done:
		return att.client, att.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Database returns a handle to the configured database, connecting if needed.
func (m *Manager) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(m.cfg.Database), nil
}

// Close disconnects the client if one was ever established. Safe to call when
// never connected.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// connect establishes a MongoDB client and verifies connectivity with a ping.
// A default timeout is applied when none is provided.
func connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, nil
}
