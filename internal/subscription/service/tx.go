package service

import (
	"context"
	"time"

	id "bulletin/pkg/domain"
)

// Store is the persistence boundary for subscribers and confirmation tokens.
// The two insert operations are only meaningful inside a StoreTx scope; the
// token lookup and status flip run against the pool directly.
type Store interface {
	InsertPendingSubscriber(ctx context.Context, email, name string, createdAt time.Time) (id.SubscriberID, error)
	MintToken(ctx context.Context, subscriberID id.SubscriberID) (string, error)
	ResolveSubscriberByToken(ctx context.Context, token string) (id.SubscriberID, error)
	MarkConfirmed(ctx context.Context, subscriberID id.SubscriberID) error
}

// StoreTx provides the transactional boundary for the registration write.
// Implementations wrap a database transaction or, in-memory, a coarse lock
// that undoes fn's writes on failure. fn receives the transaction-scoped
// context, which carries the implementation's deadline; fn returning an
// error means nothing it wrote may ever become visible to another reader.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
