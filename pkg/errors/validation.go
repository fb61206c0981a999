package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// usernameRegex matches valid public profile usernames: lowercase letters,
// digits, and hyphens, minimum 3 characters.
var usernameRegex = regexp.MustCompile(`^[a-z0-9-]{3,}$`)

// MaxUsernameLength caps usernames to keep profile URLs manageable.
const MaxUsernameLength = 30

// ValidateUsername validates a public profile username.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Lowercase letters, digits, and hyphens only
//   - Minimum 3 characters, maximum 30
func ValidateUsername(name string) error {
	if name == "" {
		return New(ErrCodeInvalidUsername, "username cannot be empty")
	}

	if len(name) > MaxUsernameLength {
		return New(ErrCodeInvalidUsername, "username too long (max %d characters)", MaxUsernameLength)
	}

	if !usernameRegex.MatchString(name) {
		return New(ErrCodeInvalidUsername, "username must be at least 3 characters of lowercase letters, digits, or hyphens")
	}

	return nil
}

// ValidateEmail performs a minimal sanity check on an email address.
// Full RFC 5322 validation is out of scope; the mail provider is the
// real arbiter.
func ValidateEmail(email string) error {
	if email == "" {
		return New(ErrCodeInvalidInput, "email cannot be empty")
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return New(ErrCodeInvalidInput, "invalid email address: %q", email)
	}

	for _, r := range email {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "email contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
