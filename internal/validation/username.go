package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const usernameMaxLength = 150

// Letters, marks and digits from any script, plus _ . @ + -
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_.@+\-]+$`)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username is too long (max 150 characters)")
	ErrUsernameInvalid  = errors.New("username may contain only letters, numbers, and @/./+/-/_ characters")
)

// NormalizeUsername applies NFKC normalization so visually identical
// usernames map to the same stored value.
func NormalizeUsername(username string) string {
	return norm.NFKC.String(username)
}

// ValidateUsername checks an already normalized username
func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}

	if utf8.RuneCountInString(username) > usernameMaxLength {
		return ErrUsernameTooLong
	}

	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}

	// Usernames name the upload folder, so "." and ".." are not allowed
	if strings.Trim(username, ".") == "" {
		return ErrUsernameInvalid
	}

	return nil
}
