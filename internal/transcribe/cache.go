package transcribe

import (
	"context"
	"errors"
	"sync"
)

type cacheKey struct {
	size    string
	device  string
	compute string
}

// ModelCache keeps one loaded model per (size, device, compute) for the
// process lifetime. There is no eviction; a model that died is reloaded.
// Loads run outside the lock, so a slow load only blocks callers asking for
// the same key.
type ModelCache struct {
	mu     sync.Mutex
	engine Engine
	models map[cacheKey]*cacheEntry
}

// cacheEntry is a model that is loaded or still loading. model and err are
// set before done is closed.
type cacheEntry struct {
	done  chan struct{}
	model Model
	err   error
}

func (e *cacheEntry) loaded() bool {
	select {
	case <-e.done:
		return e.err == nil
	default:
		return false
	}
}

// NewModelCache creates an empty cache backed by engine.
func NewModelCache(engine Engine) *ModelCache {
	return &ModelCache{
		engine: engine,
		models: make(map[cacheKey]*cacheEntry),
	}
}

// Get returns the cached model for the key, loading it on a miss. Callers
// asking for a key that is already loading wait for that load.
func (c *ModelCache) Get(ctx context.Context, size, device, compute string) (Model, error) {
	key := cacheKey{size: size, device: device, compute: compute}

	for {
		c.mu.Lock()
		e, ok := c.models[key]
		if !ok {
			break
		}
		select {
		case <-e.done:
			if e.err == nil && e.model.Alive() {
				c.mu.Unlock()
				return e.model, nil
			}
			if e.err == nil {
				_ = e.model.Close()
			}
			delete(c.models, key)
			c.mu.Unlock()
			continue
		default:
		}
		c.mu.Unlock()

		select {
		case <-e.done:
			if e.err != nil {
				return nil, e.err
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e := &cacheEntry{done: make(chan struct{})}
	c.models[key] = e
	c.mu.Unlock()

	e.model, e.err = c.engine.Load(ctx, size, device, compute)
	close(e.done)
	if e.err != nil {
		c.mu.Lock()
		if c.models[key] == e {
			delete(c.models, key)
		}
		c.mu.Unlock()
		return nil, e.err
	}
	return e.model, nil
}

// Len returns the number of loaded models.
func (c *ModelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.models {
		if e.loaded() {
			n++
		}
	}
	return n
}

// Close releases every loaded model and forgets loads still in flight.
func (c *ModelCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for key, e := range c.models {
		if e.loaded() {
			if err := e.model.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		delete(c.models, key)
	}
	return errors.Join(errs...)
}
