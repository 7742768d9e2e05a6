package storage

import (
	"bytes"
	"regexp"
	"testing"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"test.png", "test.png"},
		{"my holiday photo.jpg", "my_holiday_photo.jpg"},
		{"../../etc/passwd.png", "passwd.png"},
		{`C:\Users\bob\cat.gif`, "cat.gif"},
		{"weird<>:\"|?*name.png", "weirdname.png"},
		{"fotoğraf.png", "fotoğraf.png"},
	}

	for _, tt := range tests {
		if got := ValidName(tt.in); got != tt.want {
			t.Errorf("ValidName(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}

	if got := ValidName(".."); got == ".." || got == "" {
		t.Errorf("ValidName(..) = %q, expected a generated name", got)
	}
}

func TestAvailablePath(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}

	got, err := AvailablePath(s, "alice/test.png")
	if err != nil {
		t.Fatalf("AvailablePath() error = %v", err)
	}
	if got != "alice/test.png" {
		t.Fatalf("expected unchanged path, got %q", got)
	}

	if err := s.Save("alice/test.png", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err = AvailablePath(s, "alice/test.png")
	if err != nil {
		t.Fatalf("AvailablePath() error = %v", err)
	}
	if !regexp.MustCompile(`^alice/test_[0-9a-f]{7}\.png$`).MatchString(got) {
		t.Fatalf("unexpected collision path %q", got)
	}
}
