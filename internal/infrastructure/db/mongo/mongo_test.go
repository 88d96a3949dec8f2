package mongo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/codehive/classroom/internal/core/domain"
)

func TestManager_ConcurrentFirstUse_DialsOnce(t *testing.T) {
	var dials int32
	release := make(chan struct{})

	m := NewManager(Config{URI: "mongodb://unused", Database: "test"})
	m.dial = func(ctx context.Context, cfg Config) (*mongo.Client, error) {
		atomic.AddInt32(&dials, 1)
		<-release // hold the attempt open so all callers pile up on it
		return &mongo.Client{}, nil
	}

	const callers = 16
	var wg sync.WaitGroup
	clients := make([]*mongo.Client, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clients[i], errs[i] = m.Client(context.Background())
		}(i)
	}

	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&dials); got != 1 {
		t.Errorf("expected exactly 1 dial under concurrent first use, got %d", got)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, errs[i])
		}
		if clients[i] != clients[0] {
			t.Errorf("caller %d received a different client instance", i)
		}
	}
}

func TestManager_FailedAttempt_PropagatesToAllWaitersAndRetries(t *testing.T) {
	dialErr := errors.New("connection refused")
	var dials int32
	entered := make(chan struct{})
	release := make(chan struct{})

	m := NewManager(Config{URI: "mongodb://unused", Database: "test"})
	m.dial = func(ctx context.Context, cfg Config) (*mongo.Client, error) {
		if atomic.AddInt32(&dials, 1) == 1 {
			close(entered)
		}
		<-release
		return nil, dialErr
	}

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = m.Client(context.Background())
	}()
	<-entered // the attempt is now in flight

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Client(context.Background())
		}(i)
	}
	time.Sleep(50 * time.Millisecond) // let the waiters join the attempt

	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&dials); got != 1 {
		t.Fatalf("concurrent callers during a failed attempt must not dial again, got %d dials", got)
	}
	for i := 0; i < callers; i++ {
		if !errors.Is(errs[i], dialErr) {
			t.Errorf("caller %d: expected the shared dial error, got %v", i, errs[i])
		}
		if !errors.Is(errs[i], domain.ErrStoreUnavailable) {
			t.Errorf("caller %d: connection failure must carry ErrStoreUnavailable, got %v", i, errs[i])
		}
	}

	// The failure must not poison the manager: the next call retries.
	m.dial = func(ctx context.Context, cfg Config) (*mongo.Client, error) {
		atomic.AddInt32(&dials, 1)
		return &mongo.Client{}, nil
	}
	if _, err := m.Client(context.Background()); err != nil {
		t.Fatalf("retry after failure must succeed, got %v", err)
	}
	if got := atomic.LoadInt32(&dials); got != 2 {
		t.Errorf("expected a fresh dial on retry, got %d total dials", got)
	}
}

func TestManager_Client_Memoized(t *testing.T) {
	var dials int32
	m := NewManager(Config{URI: "mongodb://unused", Database: "test"})
	m.dial = func(ctx context.Context, cfg Config) (*mongo.Client, error) {
		atomic.AddInt32(&dials, 1)
		return &mongo.Client{}, nil
	}

	first, err := m.Client(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Client(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Error("subsequent calls must return the memoized client")
	}
	if got := atomic.LoadInt32(&dials); got != 1 {
		t.Errorf("expected 1 dial, got %d", got)
	}
}

func TestManager_Close_NeverConnected_IsNoOp(t *testing.T) {
	m := NewManager(Config{URI: "mongodb://unused", Database: "test"})
	if err := m.Close(context.Background()); err != nil {
		t.Errorf("close without a connection must be a no-op, got %v", err)
	}
}
