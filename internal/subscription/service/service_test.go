package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bulletin/internal/subscription/models"
	"bulletin/internal/subscription/service"
	"bulletin/internal/subscription/store"
	dErrors "bulletin/pkg/domain-errors"
)

type delivery struct {
	Recipient string
	Subject   string
	HTML      string
	Text      string
}

// fakeGateway records delivery attempts and fails when Err is set.
type fakeGateway struct {
	mu         sync.Mutex
	Err        error
	deliveries []delivery
}

func (g *fakeGateway) Deliver(_ context.Context, recipient, subject, htmlBody, textBody string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deliveries = append(g.deliveries, delivery{
		Recipient: recipient,
		Subject:   subject,
		HTML:      htmlBody,
		Text:      textBody,
	})
	return g.Err
}

func (g *fakeGateway) attempts() []delivery {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]delivery{}, g.deliveries...)
}

type WorkflowSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	gateway *fakeGateway
	svc     *service.Service
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.gateway = &fakeGateway{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = service.New(
		store.NewMemoryTx(s.store),
		s.store,
		s.gateway,
		logger,
		nil,
		"http://localhost:8080",
		service.WithClock(func() time.Time {
			return time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
		}),
	)
}

func (s *WorkflowSuite) TestRegisterCommitsSubscriberAndToken() {
	subscriberID, err := s.svc.Register(context.Background(), "user@example.com", "username")
	s.Require().NoError(err)
	s.Require().False(subscriberID.IsZero())

	subscribers, tokens := s.store.Counts()
	s.Equal(1, subscribers)
	s.Equal(1, tokens)

	sub, ok := s.store.GetSubscriber(subscriberID)
	s.Require().True(ok)
	s.Equal(models.StatusPending, sub.Status)
	s.Equal("user@example.com", sub.Email)
	s.Equal("username", sub.Name)
	s.Equal(time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC), sub.CreatedAt)
}

func (s *WorkflowSuite) TestRegisterSendsConfirmationLink() {
	subscriberID, err := s.svc.Register(context.Background(), "user@example.com", "username")
	s.Require().NoError(err)

	token, ok := s.store.TokenFor(subscriberID)
	s.Require().True(ok)

	attempts := s.gateway.attempts()
	s.Require().Len(attempts, 1)
	s.Equal("user@example.com", attempts[0].Recipient)
	s.Equal("Welcome!", attempts[0].Subject)

	link := "http://localhost:8080/subscription/confirm?token=" + token
	s.Contains(attempts[0].HTML, link)
	s.Contains(attempts[0].Text, link)
}

func (s *WorkflowSuite) TestRegisterAbortsWhenDeliveryFails() {
	s.gateway.Err = errors.New("smtp relay exploded")

	_, err := s.svc.Register(context.Background(), "user@example.com", "username")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnavailable))
	s.NotContains(err.Error(), "smtp relay exploded")

	subscribers, tokens := s.store.Counts()
	s.Equal(0, subscribers, "aborted registration must leave no subscriber row")
	s.Equal(0, tokens, "aborted registration must leave no token row")
	s.Len(s.gateway.attempts(), 1, "exactly one delivery attempt")
}

func (s *WorkflowSuite) TestRegisterRejectsInvalidEmail() {
	_, err := s.svc.Register(context.Background(), "not-an-email", "username")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))

	s.Empty(s.gateway.attempts(), "gateway must not be invoked for invalid input")
	subscribers, tokens := s.store.Counts()
	s.Equal(0, subscribers)
	s.Equal(0, tokens)
}

func (s *WorkflowSuite) TestRegisterRejectsInvalidName() {
	for _, name := range []string{"user__", "  padded  ", " user"} {
		_, err := s.svc.Register(context.Background(), "a@b.com", name)
		s.Require().Error(err, "name %q", name)
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
		s.Contains(err.Error(), "username")
	}
	s.Empty(s.gateway.attempts())
	subscribers, _ := s.store.Counts()
	s.Equal(0, subscribers, "nothing persisted for a rejected name")
}

func (s *WorkflowSuite) TestRegisterAbortsOnCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.svc.Register(ctx, "user@example.com", "username")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeTimeout))

	subscribers, tokens := s.store.Counts()
	s.Equal(0, subscribers)
	s.Equal(0, tokens)
}

func (s *WorkflowSuite) TestConfirmFlipsStatus() {
	subscriberID, err := s.svc.Register(context.Background(), "user@example.com", "username")
	s.Require().NoError(err)
	token, ok := s.store.TokenFor(subscriberID)
	s.Require().True(ok)

	s.Require().NoError(s.svc.Confirm(context.Background(), token))

	sub, ok := s.store.GetSubscriber(subscriberID)
	s.Require().True(ok)
	s.Equal(models.StatusConfirmed, sub.Status)
}

func (s *WorkflowSuite) TestConfirmIsIdempotent() {
	subscriberID, err := s.svc.Register(context.Background(), "user@example.com", "username")
	s.Require().NoError(err)
	token, ok := s.store.TokenFor(subscriberID)
	s.Require().True(ok)

	s.Require().NoError(s.svc.Confirm(context.Background(), token))
	s.Require().NoError(s.svc.Confirm(context.Background(), token), "second presentation of the same token succeeds")

	sub, ok := s.store.GetSubscriber(subscriberID)
	s.Require().True(ok)
	s.Equal(models.StatusConfirmed, sub.Status, "status stays confirmed, never reverts")
}

func (s *WorkflowSuite) TestConfirmUnknownToken() {
	err := s.svc.Confirm(context.Background(), "unknown-token-xyz")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *WorkflowSuite) TestDuplicateEmailsRegisterIndependently() {
	first, err := s.svc.Register(context.Background(), "user@example.com", "username")
	s.Require().NoError(err)
	second, err := s.svc.Register(context.Background(), "user@example.com", "username")
	s.Require().NoError(err)
	s.NotEqual(first.String(), second.String())

	subscribers, tokens := s.store.Counts()
	s.Equal(2, subscribers)
	s.Equal(2, tokens)
}

func (s *WorkflowSuite) TestConcurrentRegistrationsAreIndependent() {
	const goroutines = 20
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.svc.Register(context.Background(), "user@example.com", "username")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	subscribers, tokens := s.store.Counts()
	s.Equal(goroutines, subscribers)
	s.Equal(goroutines, tokens)
}

func (s *WorkflowSuite) TestValidationErrorNamesField() {
	_, err := s.svc.Register(context.Background(), "", "username")
	s.Require().Error(err)
	s.True(strings.HasPrefix(err.Error(), "email:"))
}
