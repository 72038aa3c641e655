package models

import (
	"time"

	id "bulletin/pkg/domain"
)

// Status is the lifecycle state of a subscriber. Transitions are monotonic:
// pending -> confirmed, never back.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

// Subscriber is a registered (possibly not yet confirmed) newsletter reader.
// Email is deliberately not unique across the table: repeat registrations
// produce fresh pending rows, each with its own confirmation token.
type Subscriber struct {
	ID        id.SubscriberID
	Email     string
	Name      string
	CreatedAt time.Time
	Status    Status
}
