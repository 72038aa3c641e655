package domain

import (
	"github.com/google/uuid"

	dErrors "bulletin/pkg/domain-errors"
)

// SubscriberID identifies a subscriber row. The distinct type keeps subscriber
// ids from being confused with other UUIDs at compile time.
type SubscriberID uuid.UUID

// NewSubscriberID generates a fresh random id.
func NewSubscriberID() SubscriberID {
	return SubscriberID(uuid.New())
}

// ParseSubscriberID constructs a SubscriberID from external input.
// Returns CodeBadRequest when the value is empty, malformed, or the nil UUID.
func ParseSubscriberID(s string) (SubscriberID, error) {
	if s == "" {
		return SubscriberID{}, dErrors.New(dErrors.CodeBadRequest, "subscriber id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return SubscriberID{}, dErrors.New(dErrors.CodeBadRequest, "subscriber id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return SubscriberID{}, dErrors.New(dErrors.CodeBadRequest, "subscriber id cannot be the nil UUID")
	}
	return SubscriberID(parsed), nil
}

func (id SubscriberID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether the id is the nil UUID.
func (id SubscriberID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}
