package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulletin/pkg/platform/sentinel"
)

func TestDeliverSendsExpectedRequest(t *testing.T) {
	var got deliverRequest
	var gotPath, gotToken, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "newsletter@bulletin.dev", "secret-token", time.Second)
	err := client.Deliver(context.Background(), "user@example.com", "Welcome!", "<p>hi</p>", "hi")
	require.NoError(t, err)

	assert.Equal(t, "/email", gotPath)
	assert.Equal(t, "secret-token", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "newsletter@bulletin.dev", got.From)
	assert.Equal(t, "user@example.com", got.To)
	assert.Equal(t, "Welcome!", got.Subject)
	assert.Equal(t, "<p>hi</p>", got.HTMLBody)
	assert.Equal(t, "hi", got.TextBody)
}

func TestDeliverFailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "newsletter@bulletin.dev", "secret-token", time.Second)
	err := client.Deliver(context.Background(), "user@example.com", "Welcome!", "html", "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
}

func TestDeliverFailsOnSlowResponse(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, "newsletter@bulletin.dev", "secret-token", 50*time.Millisecond)
	err := client.Deliver(context.Background(), "user@example.com", "Welcome!", "html", "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
}

func TestDeliverHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, "newsletter@bulletin.dev", "secret-token", time.Second)
	err := client.Deliver(ctx, "user@example.com", "Welcome!", "html", "text")
	require.Error(t, err)
}

func TestNewClientDefaultsTimeout(t *testing.T) {
	client := NewClient("http://localhost", "a@b.com", "tok", 0)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}
