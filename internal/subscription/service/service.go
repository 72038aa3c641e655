// Package service orchestrates the double-opt-in workflow: one durable
// transaction covers the subscriber insert, the token mint, and the delivery
// attempt, committing only when delivery was reported successful. A failed
// delivery aborts the whole write so the store never holds a subscriber whose
// confirmation email was not sent.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bulletin/internal/subscription/metrics"
	"bulletin/internal/subscription/models"
	id "bulletin/pkg/domain"
	dErrors "bulletin/pkg/domain-errors"
	"bulletin/pkg/platform/sentinel"
)

// Gateway is the external notification capability. One call, one attempt;
// any error means the message must be treated as not delivered.
type Gateway interface {
	Deliver(ctx context.Context, recipient, subject, htmlBody, textBody string) error
}

// Service is the stateless confirmation workflow. All state lives in the
// store; the service holds only injected dependencies.
type Service struct {
	tx      StoreTx
	store   Store
	gateway Gateway
	logger  *slog.Logger
	metrics *metrics.Metrics
	baseURL string
	clock   func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source; tests pin timestamps with it.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs the workflow. baseURL is the public host embedded in
// confirmation links.
func New(tx StoreTx, store Store, gateway Gateway, logger *slog.Logger, m *metrics.Metrics, baseURL string, opts ...Option) *Service {
	s := &Service{
		tx:      tx,
		store:   store,
		gateway: gateway,
		logger:  logger,
		metrics: m,
		baseURL: baseURL,
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register validates the input, then runs insert subscriber -> mint token ->
// deliver confirmation email inside one transaction. The order is fixed: the
// token needs the subscriber id, and the commit must not finalize before the
// gateway reports success. Any failure aborts the transaction and leaves zero
// durable rows.
//
// A delivery the recipient actually received can still race a late abort; in
// that case they hold a link to a token that was never committed. Accepted
// trade-off: the store-side invariant wins.
func (s *Service) Register(ctx context.Context, email, name string) (id.SubscriberID, error) {
	if err := models.ValidateRegistration(email, name); err != nil {
		return id.SubscriberID{}, err
	}

	var subscriberID id.SubscriberID
	err := s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		sid, err := store.InsertPendingSubscriber(ctx, email, name, s.clock().UTC())
		if err != nil {
			return err
		}
		token, err := store.MintToken(ctx, sid)
		if err != nil {
			return err
		}

		msg := confirmationMessage(s.baseURL, token)
		start := time.Now()
		if err := s.gateway.Deliver(ctx, email, msg.Subject, msg.HTML, msg.Text); err != nil {
			s.metrics.RecordDeliveryFailure()
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "confirmation email could not be delivered")
		}
		s.metrics.ObserveDeliveryDuration(time.Since(start).Seconds())

		subscriberID = sid
		return nil
	})
	if err != nil {
		return id.SubscriberID{}, s.registrationError(ctx, err)
	}

	s.metrics.RecordRegistered()
	s.logger.InfoContext(ctx, "subscriber registered", "subscriber_id", subscriberID.String())
	return subscriberID, nil
}

// Confirm resolves a bearer token to its subscriber and flips the status.
// Idempotent: re-presenting a token for an already-confirmed subscriber
// succeeds again. No transaction spans the two store calls; the subscriber
// cannot be deleted, so the window is benign.
func (s *Service) Confirm(ctx context.Context, token string) error {
	subscriberID, err := s.store.ResolveSubscriberByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "unknown confirmation token")
		}
		s.logger.ErrorContext(ctx, "token lookup failed", "error", err.Error())
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not confirm subscription")
	}

	if err := s.store.MarkConfirmed(ctx, subscriberID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "unknown confirmation token")
		}
		s.logger.ErrorContext(ctx, "mark confirmed failed",
			"subscriber_id", subscriberID.String(),
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not confirm subscription")
	}

	s.metrics.RecordConfirmed()
	s.logger.InfoContext(ctx, "subscriber confirmed", "subscriber_id", subscriberID.String())
	return nil
}

// registrationError maps a failed registration to exactly one outward coded
// error. Store causes are logged here, never surfaced.
func (s *Service) registrationError(ctx context.Context, err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		if de.Code == dErrors.CodeUnavailable {
			s.logger.WarnContext(ctx, "registration aborted: delivery failed", "error", err.Error())
		}
		return de
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "registration aborted")
	}
	// Deliberately not logging the email address alongside the cause.
	s.logger.ErrorContext(ctx, "registration write failed", "error", err.Error())
	return dErrors.Wrap(err, dErrors.CodeInternal, "could not register subscriber")
}
