package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bulletin/pkg/domain-errors"
)

func TestParseSubscriberID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSubscriberID("")
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseSubscriberID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseSubscriberID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseSubscriberID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, SubscriberID(raw), id)
	})
}

func TestSubscriberIDRoundTrip(t *testing.T) {
	id := NewSubscriberID()
	assert.False(t, id.IsZero())

	parsed, err := ParseSubscriberID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestSubscriberIDIsZero(t *testing.T) {
	assert.True(t, SubscriberID{}.IsZero())
	assert.True(t, SubscriberID(uuid.Nil).IsZero())
	assert.False(t, NewSubscriberID().IsZero())
}
