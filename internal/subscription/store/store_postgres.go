package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"bulletin/internal/subscription/models"
	id "bulletin/pkg/domain"
	"bulletin/pkg/platform/sentinel"
)

// tokenBytes sizes the random confirmation token before base64 encoding.
const tokenBytes = 32

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so one
// store implementation serves both the pooled connection and an open
// transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists subscribers and confirmation tokens in PostgreSQL.
// This store is pure I/O; the registration sequencing lives in the service.
type PostgresStore struct {
	q querier
}

// NewPostgres constructs a store over the shared connection pool. Reads and
// single-statement writes run in the engine's implicit transaction.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{q: db}
}

// NewPostgresTx constructs a store bound to an open transaction. Rows written
// through it stay invisible to other readers until the transaction commits.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{q: tx}
}

// InsertPendingSubscriber inserts one subscriber row with status=pending and
// returns its freshly generated id.
func (s *PostgresStore) InsertPendingSubscriber(ctx context.Context, email, name string, createdAt time.Time) (id.SubscriberID, error) {
	subscriberID := id.NewSubscriberID()
	query := `
		INSERT INTO subscribers (id, email, name, created_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.q.ExecContext(ctx, query, uuid.UUID(subscriberID), email, name, createdAt, string(models.StatusPending))
	if err != nil {
		if isPqError(err, pqUniqueViolation) {
			return id.SubscriberID{}, fmt.Errorf("insert pending subscriber: %w", sentinel.ErrConflict)
		}
		return id.SubscriberID{}, fmt.Errorf("insert pending subscriber: %w", err)
	}
	return subscriberID, nil
}

// MintToken generates a fresh opaque token and inserts its row. Must run in
// the same transaction as the subscriber insert so the pair is all-or-nothing.
func (s *PostgresStore) MintToken(ctx context.Context, subscriberID id.SubscriberID) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	query := `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)
	`
	_, err = s.q.ExecContext(ctx, query, token, uuid.UUID(subscriberID))
	if err != nil {
		if isPqError(err, pqForeignKeyViolation) {
			return "", fmt.Errorf("mint token: subscriber %s: %w", subscriberID, sentinel.ErrInvalidState)
		}
		if isPqError(err, pqUniqueViolation) {
			return "", fmt.Errorf("mint token: %w", sentinel.ErrConflict)
		}
		return "", fmt.Errorf("mint token: %w", err)
	}
	return token, nil
}

// ResolveSubscriberByToken looks up the subscriber a token was minted for.
func (s *PostgresStore) ResolveSubscriberByToken(ctx context.Context, token string) (id.SubscriberID, error) {
	var subscriberID uuid.UUID
	query := `SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1`
	err := s.q.QueryRowContext(ctx, query, token).Scan(&subscriberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return id.SubscriberID{}, fmt.Errorf("resolve subscriber by token: %w", sentinel.ErrNotFound)
		}
		return id.SubscriberID{}, fmt.Errorf("resolve subscriber by token: %w", err)
	}
	return id.SubscriberID(subscriberID), nil
}

// MarkConfirmed flips a subscriber to confirmed. The update is conditional on
// the current status so the pending -> confirmed transition stays monotonic;
// re-confirming an already-confirmed subscriber is a no-op success.
func (s *PostgresStore) MarkConfirmed(ctx context.Context, subscriberID id.SubscriberID) error {
	query := `
		UPDATE subscribers
		SET status = $2
		WHERE id = $1 AND status <> $2
	`
	res, err := s.q.ExecContext(ctx, query, uuid.UUID(subscriberID), string(models.StatusConfirmed))
	if err != nil {
		return fmt.Errorf("mark confirmed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark confirmed: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Zero rows means either the subscriber is already confirmed or it does
	// not exist; only the latter is an error.
	var exists bool
	err = s.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM subscribers WHERE id = $1)`, uuid.UUID(subscriberID)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("mark confirmed: %w", err)
	}
	if !exists {
		return fmt.Errorf("mark confirmed: subscriber %s: %w", subscriberID, sentinel.ErrNotFound)
	}
	return nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func isPqError(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
