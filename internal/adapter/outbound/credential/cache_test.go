package credential_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mozilla/triage-bot/internal/adapter/outbound/credential"
)

// countingStore is a TokenStore that counts Get calls and can be made slow
// enough for concurrent readers to pile up.
type countingStore struct {
	mu      sync.Mutex
	tokens  map[string]string
	gets    atomic.Int64
	getGate chan struct{}
	getErr  error
}

func newCountingStore() *countingStore {
	return &countingStore{tokens: map[string]string{}}
}

func (s *countingStore) Put(ctx context.Context, clientID, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[clientID] = accessToken
	return nil
}

func (s *countingStore) Get(ctx context.Context, clientID string) (string, error) {
	s.gets.Add(1)
	if s.getGate != nil {
		<-s.getGate
	}
	if s.getErr != nil {
		return "", s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[clientID]
	if !ok {
		return "", errors.New("no such token")
	}
	return tok, nil
}

func TestCache_FetchesOnceThenServesFromMemory(t *testing.T) {
	store := newCountingStore()
	store.tokens["CID"] = "xoxb-1"
	cache := credential.NewCache(store)

	for i := 0; i < 3; i++ {
		tok, err := cache.Token(context.Background(), "CID")
		if err != nil {
			t.Fatalf("Token: %v", err)
		}
		if tok != "xoxb-1" {
			t.Fatalf("token = %s", tok)
		}
	}
	if got := store.gets.Load(); got != 1 {
		t.Errorf("store fetched %d times, want 1", got)
	}
}

func TestCache_ConcurrentFirstReadsCollapse(t *testing.T) {
	store := newCountingStore()
	store.tokens["CID"] = "xoxb-1"
	store.getGate = make(chan struct{})
	cache := credential.NewCache(store)

	const readers = 16
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Token(context.Background(), "CID")
			errs <- err
		}()
	}
	close(store.getGate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Token: %v", err)
		}
	}
	if got := store.gets.Load(); got != 1 {
		t.Errorf("store fetched %d times under concurrency, want 1", got)
	}
}

func TestCache_PutWritesThrough(t *testing.T) {
	store := newCountingStore()
	cache := credential.NewCache(store)

	if err := cache.Put(context.Background(), "CID", "xoxb-2"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if store.tokens["CID"] != "xoxb-2" {
		t.Error("token not persisted to the backing store")
	}

	// The freshly provisioned token is served without touching the store.
	tok, err := cache.Token(context.Background(), "CID")
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "xoxb-2" {
		t.Errorf("token = %s", tok)
	}
	if got := store.gets.Load(); got != 0 {
		t.Errorf("store fetched %d times after write-through, want 0", got)
	}
}

func TestCache_FetchErrorNotCached(t *testing.T) {
	store := newCountingStore()
	store.getErr = errors.New("store offline")
	cache := credential.NewCache(store)

	if _, err := cache.Token(context.Background(), "CID"); err == nil {
		t.Fatal("expected an error while the store is offline")
	}

	store.getErr = nil
	store.tokens["CID"] = "xoxb-3"
	tok, err := cache.Token(context.Background(), "CID")
	if err != nil {
		t.Fatalf("Token after recovery: %v", err)
	}
	if tok != "xoxb-3" {
		t.Errorf("token = %s", tok)
	}
}
