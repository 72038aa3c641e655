package store

import (
	"context"
	"sync"
	"time"

	"bulletin/internal/subscription/models"
	"bulletin/internal/subscription/service"
	id "bulletin/pkg/domain"
	dErrors "bulletin/pkg/domain-errors"
)

// defaultMemoryTxTimeout is the maximum duration for an in-memory transaction.
const defaultMemoryTxTimeout = 5 * time.Second

// MemoryTx gives the in-memory store transaction semantics: one coarse lock
// serializes transactions, and every write fn performed is recorded and
// undone when fn fails. Rows fn never touched stay exactly as they were, so
// an abort cannot claw back a concurrent confirmation that went through the
// store directly.
type MemoryTx struct {
	mu      sync.Mutex
	store   *InMemoryStore
	timeout time.Duration
}

func NewMemoryTx(store *InMemoryStore) *MemoryTx {
	return &MemoryTx{store: store}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store service.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultMemoryTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	rec := &memoryTxRecorder{store: t.store}
	if err := fn(ctx, rec); err != nil {
		rec.rollback()
		return err
	}
	return nil
}

// memoryTxRecorder journals the writes made through it so rollback can undo
// exactly those rows and nothing else.
type memoryTxRecorder struct {
	store     *InMemoryStore
	inserted  []id.SubscriberID
	minted    []string
	confirmed []id.SubscriberID
}

func (r *memoryTxRecorder) InsertPendingSubscriber(ctx context.Context, email, name string, createdAt time.Time) (id.SubscriberID, error) {
	subscriberID, err := r.store.InsertPendingSubscriber(ctx, email, name, createdAt)
	if err != nil {
		return id.SubscriberID{}, err
	}
	r.inserted = append(r.inserted, subscriberID)
	return subscriberID, nil
}

func (r *memoryTxRecorder) MintToken(ctx context.Context, subscriberID id.SubscriberID) (string, error) {
	token, err := r.store.MintToken(ctx, subscriberID)
	if err != nil {
		return "", err
	}
	r.minted = append(r.minted, token)
	return token, nil
}

func (r *memoryTxRecorder) ResolveSubscriberByToken(ctx context.Context, token string) (id.SubscriberID, error) {
	return r.store.ResolveSubscriberByToken(ctx, token)
}

func (r *memoryTxRecorder) MarkConfirmed(ctx context.Context, subscriberID id.SubscriberID) error {
	prior, existed := r.store.GetSubscriber(subscriberID)
	if err := r.store.MarkConfirmed(ctx, subscriberID); err != nil {
		return err
	}
	if existed && prior.Status == models.StatusPending {
		r.confirmed = append(r.confirmed, subscriberID)
	}
	return nil
}

func (r *memoryTxRecorder) rollback() {
	for _, token := range r.minted {
		r.store.removeToken(token)
	}
	for _, subscriberID := range r.inserted {
		r.store.removeSubscriber(subscriberID)
	}
	for _, subscriberID := range r.confirmed {
		r.store.setStatus(subscriberID, models.StatusPending)
	}
}
