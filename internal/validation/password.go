package validation

import (
	"bufio"
	_ "embed"
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	passwordMinLength = 8
	// bcrypt silently truncates passwords longer than 72 bytes
	passwordMaxBytes = 72
	// Passwords at least this similar to the username are rejected
	maxSimilarity = 0.7
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 bytes")
	ErrPasswordSimilar  = errors.New("password is too similar to the username")
	ErrPasswordCommon   = errors.New("password is too common")
	ErrPasswordNumeric  = errors.New("password is entirely numeric")
)

//go:embed common_passwords.txt
var commonPasswordsFile string

var commonPasswords = loadCommonPasswords(commonPasswordsFile)

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// ValidatePassword validates password strength for the given username
func ValidatePassword(password, username string) error {
	if utf8.RuneCountInString(password) < passwordMinLength {
		return ErrPasswordTooShort
	}

	if len(password) > passwordMaxBytes {
		return ErrPasswordTooLong
	}

	if tooSimilar(password, username) {
		return ErrPasswordSimilar
	}

	if commonPasswords[strings.ToLower(strings.TrimSpace(password))] {
		return ErrPasswordCommon
	}

	if isNumeric(password) {
		return ErrPasswordNumeric
	}

	return nil
}

// tooSimilar compares the password against the whole username and each of
// its word parts ("john.smith" -> "john", "smith", "john.smith").
func tooSimilar(password, username string) bool {
	if username == "" {
		return false
	}

	// Casers are stateful and must not be shared between goroutines
	password = cases.Fold().String(password)
	username = cases.Fold().String(username)

	parts := append(nonWordPattern.Split(username, -1), username)
	for _, part := range parts {
		if part == "" || exceedsLengthRatio(password, part) {
			continue
		}
		if quickRatio(password, part) >= maxSimilarity {
			return true
		}
	}

	return false
}

// exceedsLengthRatio skips comparisons where the password is so much longer
// than the value that a high ratio is impossible.
func exceedsLengthRatio(password, value string) bool {
	pwdLen := utf8.RuneCountInString(password)
	valueLen := utf8.RuneCountInString(value)
	lengthBound := maxSimilarity / 2 * float64(pwdLen)
	return pwdLen >= 10*valueLen && float64(valueLen) < lengthBound
}

// quickRatio is an upper bound on the similarity of a and b computed from
// their shared characters, ignoring order: 2*M/T.
func quickRatio(a, b string) float64 {
	available := make(map[rune]int)
	for _, r := range b {
		available[r]++
	}

	matches := 0
	for _, r := range a {
		if available[r] > 0 {
			available[r]--
			matches++
		}
	}

	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matches) / float64(total)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func loadCommonPasswords(list string) map[string]bool {
	passwords := make(map[string]bool)
	scanner := bufio.NewScanner(strings.NewReader(list))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			passwords[strings.ToLower(line)] = true
		}
	}
	return passwords
}
