// Package validation holds input validators shared by services and handlers.
package validation

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLen = 12
	maxPasswordLen = 128
	maxEmailLen    = 254
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{1,148}[A-Za-z0-9]$`)

// ValidateUsername accepts 3-150 letters, digits, dots, underscores and hyphens,
// starting and ending with a letter or digit.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return errors.New("username must be 3-150 characters of letters, digits, '.', '_' or '-', and start and end with a letter or digit")
	}
	return nil
}

// ValidatePassword enforces length and character-class rules.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLen {
		return errors.New("password must be at least 12 characters")
	}
	if n > maxPasswordLen {
		return errors.New("password must be at most 128 characters")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return errors.New("password must contain upper and lower case letters, a digit and a special character")
	}
	return nil
}

// ValidateEmail checks that email is a bare address of at most 254 characters.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return errors.New("email must be at most 254 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email is not a valid address")
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return errors.New("email domain is not valid")
	}
	return nil
}
