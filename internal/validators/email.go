package validators

import (
	"net/mail"
	"strings"
)

const (
	MsgRequired     = "This field is required."
	MsgInvalidEmail = "Enter a valid email address."
)

// NormalizeEmail trims the address and lowercases its domain part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// Email returns an error message for an unusable address, or "" when it is fine.
func Email(e string) string {
	if e == "" {
		return MsgRequired
	}
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return MsgInvalidEmail
	}
	return ""
}
