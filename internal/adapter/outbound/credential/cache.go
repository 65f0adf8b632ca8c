// Package credential provides the process-wide OAuth token cache.
package credential

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mozilla/triage-bot/internal/domain/port/outbound"
)

// Cache fronts a TokenStore with an in-memory, read-mostly map. Concurrent
// first reads of the same client id collapse into a single store fetch via
// singleflight, so a burst of invocations after startup hits the store once.
//
// Cache implements both outbound.TokenSource (reads) and outbound.TokenStore
// (write-through), so token provisioning updates the cache immediately.
type Cache struct {
	store outbound.TokenStore
	group singleflight.Group

	mu     sync.RWMutex
	tokens map[string]string
}

// NewCache creates a Cache over the given store.
func NewCache(store outbound.TokenStore) *Cache {
	return &Cache{
		store:  store,
		tokens: make(map[string]string),
	}
}

// Token returns the access token for clientID, fetching it from the store
// on first use.
func (c *Cache) Token(ctx context.Context, clientID string) (string, error) {
	c.mu.RLock()
	token, ok := c.tokens[clientID]
	c.mu.RUnlock()
	if ok {
		return token, nil
	}

	v, err, _ := c.group.Do(clientID, func() (any, error) {
		fetched, err := c.store.Get(ctx, clientID)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.tokens[clientID] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Put writes the token through to the store and updates the cache.
func (c *Cache) Put(ctx context.Context, clientID, accessToken string) error {
	if err := c.store.Put(ctx, clientID, accessToken); err != nil {
		return err
	}
	c.mu.Lock()
	c.tokens[clientID] = accessToken
	c.mu.Unlock()
	return nil
}

// Get reads through the cache; it satisfies outbound.TokenStore.
func (c *Cache) Get(ctx context.Context, clientID string) (string, error) {
	return c.Token(ctx, clientID)
}
