// Package email is the outbound notification gateway client. It speaks the
// delivery provider's HTTP API and reports a single success/failure outcome;
// retry policy, if any ever exists, belongs to the caller.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bulletin/pkg/platform/sentinel"
)

// DefaultTimeout bounds one delivery attempt end to end.
const DefaultTimeout = 10 * time.Second

const authTokenHeader = "X-Postmark-Server-Token"

// Client delivers messages through the provider's /email endpoint. Stateless
// per call; safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sender     string
	authToken  string
}

// NewClient builds a delivery client. A non-positive timeout falls back to
// DefaultTimeout.
func NewClient(baseURL, sender, authToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		sender:     sender,
		authToken:  authToken,
	}
}

type deliverRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

// Deliver makes exactly one delivery attempt. Timeouts, transport errors, and
// non-2xx provider responses all collapse into one failure category: the
// caller only needs success or failure to decide commit versus abort.
func (c *Client) Deliver(ctx context.Context, recipient, subject, htmlBody, textBody string) error {
	payload, err := json.Marshal(deliverRequest{
		From:     c.sender,
		To:       recipient,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("encode delivery request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authTokenHeader, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver to %s: %w: %w", c.baseURL, sentinel.ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("deliver to %s: status %d: %w", c.baseURL, resp.StatusCode, sentinel.ErrUnavailable)
	}
	return nil
}
