package storage

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const maxNameAttempts = 100

var invalidNameChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_.\-]`)

// ValidName turns a client-supplied filename into a safe single path
// element: directories are dropped, spaces become underscores and anything
// outside letters, digits, "_", "." and "-" is removed.
func ValidName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	name = invalidNameChars.ReplaceAllString(name, "")

	if strings.Trim(name, ".") == "" {
		return uuid.New().String()
	}
	return name
}

// AvailablePath returns p if nothing is stored there yet, otherwise p with a
// random suffix before the extension ("alice/cat_3f9a1c2.png").
func AvailablePath(s Storage, p string) (string, error) {
	dir, file := path.Split(p)
	ext := path.Ext(file)
	root := strings.TrimSuffix(file, ext)

	candidate := p
	for range maxNameAttempts {
		exists, err := s.Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = dir + root + "_" + randomSuffix() + ext
	}

	return "", fmt.Errorf("no available name for %q", p)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:7]
}
