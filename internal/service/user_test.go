package service

import (
	"context"
	"errors"
	"testing"

	"github.com/templui/imagerepo/internal/repository"
)

func TestDeleteAccount_RemovesImages(t *testing.T) {
	f := newImageFixture(t)
	users := NewUserService(f.users, f.service)
	alice := createUser(t, f.users, "alice")
	bob := createUser(t, f.users, "bob")

	for _, user := range []string{"alice", "alice", "bob"} {
		owner := alice
		if user == "bob" {
			owner = bob
		}
		if _, err := f.service.Upload(context.Background(), owner, Upload{Filename: "cat.png", Data: pngBytes(t)}); err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
	}

	summaries, err := users.Summaries()
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}
	counts := map[string]int{}
	for _, s := range summaries {
		counts[s.User.Username] = s.Images
	}
	if counts["alice"] != 2 || counts["bob"] != 1 {
		t.Fatalf("Summaries() counts = %v", counts)
	}

	if err := users.DeleteAccount("alice"); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}

	if _, err := users.ByID(alice.ID); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("ByID() after delete error = %v, want ErrUserNotFound", err)
	}
	n, err := f.service.Count(alice.ID)
	if err != nil || n != 0 {
		t.Fatalf("Count() after delete = %d, %v", n, err)
	}
	if ok, _ := f.storage.Exists("alice/cat.png"); ok {
		t.Fatal("alice's blob still stored")
	}
	if ok, _ := f.storage.Exists("bob/cat.png"); !ok {
		t.Fatal("bob's blob was removed")
	}

	if err := users.DeleteAccount("nobody"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("DeleteAccount(nobody) error = %v, want ErrUserNotFound", err)
	}
}
