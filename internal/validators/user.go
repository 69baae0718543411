package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MsgAlphabetOnly     = "Can only contain alphabet letters"
	MsgPasswordTooShort = "This password is too short. It must contain at least 8 characters."
	MsgPasswordTooLong  = "Ensure this field has no more than 72 bytes."

	MaxNameLength     = 30
	MinPasswordLength = 8
	// bcrypt only accepts up to 72 bytes.
	MaxPasswordLength = 72
)

// PersonName rejects blank names, names over MaxNameLength and names with digits.
func PersonName(name string) string {
	if strings.TrimSpace(name) == "" {
		return MsgRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return MaxLength(MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsDigit(r) {
			return MsgAlphabetOnly
		}
	}
	return ""
}

// Password checks length in bytes, the unit bcrypt limits.
func Password(p string) string {
	switch {
	case p == "":
		return MsgRequired
	case len(p) < MinPasswordLength:
		return MsgPasswordTooShort
	case len(p) > MaxPasswordLength:
		return MsgPasswordTooLong
	}
	return ""
}
