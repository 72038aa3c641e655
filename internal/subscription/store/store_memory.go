package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bulletin/internal/subscription/models"
	id "bulletin/pkg/domain"
	"bulletin/pkg/platform/sentinel"
)

// InMemoryStore keeps subscribers and tokens in maps. It backs unit tests and
// local runs without Postgres; semantics match the Postgres store.
type InMemoryStore struct {
	mu          sync.RWMutex
	subscribers map[id.SubscriberID]models.Subscriber
	tokens      map[string]id.SubscriberID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		subscribers: make(map[id.SubscriberID]models.Subscriber),
		tokens:      make(map[string]id.SubscriberID),
	}
}

func (s *InMemoryStore) InsertPendingSubscriber(_ context.Context, email, name string, createdAt time.Time) (id.SubscriberID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subscriberID := id.NewSubscriberID()
	if _, exists := s.subscribers[subscriberID]; exists {
		return id.SubscriberID{}, fmt.Errorf("insert pending subscriber: %w", sentinel.ErrConflict)
	}
	s.subscribers[subscriberID] = models.Subscriber{
		ID:        subscriberID,
		Email:     email,
		Name:      name,
		CreatedAt: createdAt,
		Status:    models.StatusPending,
	}
	return subscriberID, nil
}

func (s *InMemoryStore) MintToken(_ context.Context, subscriberID id.SubscriberID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscribers[subscriberID]; !exists {
		return "", fmt.Errorf("mint token: subscriber %s: %w", subscriberID, sentinel.ErrInvalidState)
	}
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	if _, exists := s.tokens[token]; exists {
		return "", fmt.Errorf("mint token: %w", sentinel.ErrConflict)
	}
	s.tokens[token] = subscriberID
	return token, nil
}

func (s *InMemoryStore) ResolveSubscriberByToken(_ context.Context, token string) (id.SubscriberID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subscriberID, ok := s.tokens[token]
	if !ok {
		return id.SubscriberID{}, fmt.Errorf("resolve subscriber by token: %w", sentinel.ErrNotFound)
	}
	return subscriberID, nil
}

func (s *InMemoryStore) MarkConfirmed(_ context.Context, subscriberID id.SubscriberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscribers[subscriberID]
	if !ok {
		return fmt.Errorf("mark confirmed: subscriber %s: %w", subscriberID, sentinel.ErrNotFound)
	}
	if sub.Status == models.StatusConfirmed {
		return nil
	}
	sub.Status = models.StatusConfirmed
	s.subscribers[subscriberID] = sub
	return nil
}

// GetSubscriber returns a copy of the stored subscriber; test helper.
func (s *InMemoryStore) GetSubscriber(subscriberID id.SubscriberID) (models.Subscriber, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subscribers[subscriberID]
	return sub, ok
}

// Counts reports the number of subscriber and token rows; test helper.
func (s *InMemoryStore) Counts() (subscribers, tokens int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers), len(s.tokens)
}

// TokenFor returns the token minted for a subscriber, if any; test helper.
func (s *InMemoryStore) TokenFor(subscriberID id.SubscriberID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for token, sid := range s.tokens {
		if sid == subscriberID {
			return token, true
		}
	}
	return "", false
}

// removeSubscriber drops a subscriber row; rollback helper for MemoryTx.
func (s *InMemoryStore) removeSubscriber(subscriberID id.SubscriberID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, subscriberID)
}

// removeToken drops a token row; rollback helper for MemoryTx.
func (s *InMemoryStore) removeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// setStatus overwrites a subscriber's status; rollback helper for MemoryTx.
func (s *InMemoryStore) setStatus(subscriberID id.SubscriberID, status models.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscribers[subscriberID]
	if !ok {
		return
	}
	sub.Status = status
	s.subscribers[subscriberID] = sub
}
