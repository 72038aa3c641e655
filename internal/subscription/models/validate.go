package models

import (
	"strings"

	dErrors "bulletin/pkg/domain-errors"
)

// ValidateRegistration checks candidate registration input. Pure and
// deterministic; call it at the trust boundary before touching the store.
func ValidateRegistration(email, name string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidateName(name)
}

// ValidateEmail enforces a minimal mailbox-address grammar: a non-empty local
// part, an "@", and a domain containing at least one dot. Full RFC 5321
// parsing is the mail server's job; this rejects input that cannot possibly
// be deliverable.
func ValidateEmail(email string) error {
	if email == "" {
		return dErrors.NewValidation("email", "must not be empty")
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return dErrors.NewValidation("email", "must not contain whitespace")
	}
	at := strings.LastIndexByte(email, '@')
	if at < 1 {
		return dErrors.NewValidation("email", "must contain a local part and an @")
	}
	if strings.IndexByte(email, '@') != at {
		return dErrors.NewValidation("email", "must contain exactly one @")
	}
	domain := email[at+1:]
	if domain == "" {
		return dErrors.NewValidation("email", "must contain a domain")
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return dErrors.NewValidation("email", "domain must contain a dot")
	}
	return nil
}

// ValidateName enforces the display-name rules: non-empty and ASCII
// alphanumeric only. The input is checked as received; surrounding whitespace
// is a rejection, not something to repair, so the stored value is always
// exactly what was validated. The field is reported as "username" to match
// the form field it arrives in.
func ValidateName(name string) error {
	if name == "" {
		return dErrors.NewValidation("username", "must not be empty")
	}
	for _, r := range name {
		if !isAlphanumeric(r) {
			return dErrors.NewValidation("username", "must contain only letters and digits")
		}
	}
	return nil
}

func isAlphanumeric(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	return false
}
