package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avrentops/rentalctl/internal/domain"
)

func TestFileStoreEmptyReturnsNil(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	tokens, err := store.Tokens()
	if err != nil {
		t.Fatalf("tokens on empty store: %v", err)
	}
	if tokens != nil {
		t.Fatalf("expected nil tokens, got %+v", tokens)
	}
	user, err := store.User()
	if err != nil {
		t.Fatalf("user on empty store: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	pair := &domain.TokenPair{AccessToken: "acc-1", RefreshToken: "ref-1"}
	if err := store.SetTokens(pair); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	user := &domain.User{ID: "u-1", Email: "a@b.com", Role: domain.RoleAdmin}
	if err := store.SetUser(user); err != nil {
		t.Fatalf("set user: %v", err)
	}

	// A second store over the same directory must see the same records:
	// the API client and session manager each construct their own view.
	other, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("second file store: %v", err)
	}
	gotPair, err := other.Tokens()
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if gotPair == nil || gotPair.AccessToken != "acc-1" || gotPair.RefreshToken != "ref-1" {
		t.Fatalf("unexpected tokens %+v", gotPair)
	}
	gotUser, err := other.User()
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if gotUser == nil || gotUser.ID != "u-1" || gotUser.Email != "a@b.com" {
		t.Fatalf("unexpected user %+v", gotUser)
	}
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.SetTokens(&domain.TokenPair{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	tokens, err := store.Tokens()
	if err != nil || tokens != nil {
		t.Fatalf("expected empty store after clear, tokens=%+v err=%v", tokens, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		t.Fatalf("leftover file after clear: %s", e.Name())
	}
}

func TestFileStoreSetNilRemovesRecord(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.SetTokens(&domain.TokenPair{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if err := store.SetTokens(nil); err != nil {
		t.Fatalf("set nil tokens: %v", err)
	}
	tokens, err := store.Tokens()
	if err != nil || tokens != nil {
		t.Fatalf("expected tokens removed, got %+v err=%v", tokens, err)
	}
}

func TestFileStoreCorruptRecordSurfacesError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "auth_tokens.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if _, err := store.Tokens(); err == nil {
		t.Fatal("expected decode error for corrupt record")
	}
}
