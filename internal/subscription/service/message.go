package service

import (
	"fmt"
	"net/url"
	"strings"
)

const confirmationSubject = "Welcome!"

type message struct {
	Subject string
	HTML    string
	Text    string
}

// confirmationMessage builds the double-opt-in email. Both bodies embed the
// same confirmation link; the token is the only variable part.
func confirmationMessage(baseURL, token string) message {
	link := confirmationLink(baseURL, token)
	return message{
		Subject: confirmationSubject,
		HTML: fmt.Sprintf(
			"Welcome to our newsletter!<br/>Click <a href=%q>here</a> to confirm your subscription.",
			link,
		),
		Text: fmt.Sprintf(
			"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
			link,
		),
	}
}

func confirmationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/subscription/confirm?token=%s",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(token))
}
