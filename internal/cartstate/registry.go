package cartstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry owns the open Store of every active session. Stores are opened
// lazily and flushed when evicted or when the registry shuts down.
//
// Two processes serving the same session race on the snapshot with
// last-write-wins semantics.
type Registry struct {
	persister Persister
	opts      []Option
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.Mutex
	stores map[string]*registryEntry
}

type registryEntry struct {
	store    *Store
	lastUsed time.Time
}

func NewRegistry(p Persister, logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		persister: p,
		opts:      append([]Option{WithLogger(logger)}, opts...),
		logger:    logger,
		now:       time.Now,
		stores:    make(map[string]*registryEntry),
	}
}

// Get returns the store for sessionID, hydrating it on first use.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, errors.New("session id required")
	}

	r.mu.Lock()
	if e, ok := r.stores[sessionID]; ok {
		e.lastUsed = r.now()
		r.mu.Unlock()
		return e.store, nil
	}
	r.mu.Unlock()

	store, err := Open(ctx, SessionKey(sessionID), r.persister, r.opts...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.stores[sessionID]; ok {
		// Another request hydrated the same session first.
		e.lastUsed = r.now()
		return e.store, nil
	}
	r.stores[sessionID] = &registryEntry{store: store, lastUsed: r.now()}
	return store, nil
}

// Len reports the number of open stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// EvictIdle closes stores unused for longer than maxIdle. A store that fails to
// flush stays open so its state is not lost.
func (r *Registry) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var idle []string
	for id, e := range r.stores {
		if e.lastUsed.Before(cutoff) {
			idle = append(idle, id)
		}
	}
	r.mu.Unlock()

	evicted := 0
	for _, id := range idle {
		r.mu.Lock()
		e, ok := r.stores[id]
		if !ok || !e.lastUsed.Before(cutoff) {
			r.mu.Unlock()
			continue
		}
		delete(r.stores, id)
		r.mu.Unlock()

		if err := e.store.Close(ctx); err != nil {
			r.logger.Warn("flush on evict failed", zap.String("key", e.store.Key()), zap.Error(err))
			r.mu.Lock()
			if _, taken := r.stores[id]; !taken {
				r.stores[id] = e
			}
			r.mu.Unlock()
			continue
		}
		evicted++
	}
	return evicted
}

// Run evicts idle stores every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(ctx, maxIdle); n > 0 {
				r.logger.Debug("evicted idle cart sessions", zap.Int("count", n))
			}
		}
	}
}

// FlushAll flushes every open store and reports all failures.
func (r *Registry) FlushAll(ctx context.Context) error {
	r.mu.Lock()
	stores := make([]*Store, 0, len(r.stores))
	for _, e := range r.stores {
		stores = append(stores, e.store)
	}
	r.mu.Unlock()

	var errs []error
	for _, s := range stores {
		if err := s.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Key(), err))
		}
	}
	return errors.Join(errs...)
}
