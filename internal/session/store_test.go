package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileStore(path)

	if _, ok := store.Get(); ok {
		t.Fatal("expected empty store")
	}

	if err := store.Set("abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := store.Get()
	if !ok || got != "abc123" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file mode = %o, want 600", perm)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Fatal("expected cleared store")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}
}

func TestFileStoreTokenSource(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token"))

	if _, err := store.Token(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	if err := store.Set("tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	tok, err := store.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "tok" || tok.TokenType != "Bearer" {
		t.Fatalf("unexpected token %+v", tok)
	}
}

func TestExpiredJWTReportsAbsent(t *testing.T) {
	store := NewMemStore()
	store.now = func() time.Time { return time.Unix(2_000_000_000, 0) }

	if err := store.Set(unsignedJWT(t, 1_000_000_000)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Fatal("expired JWT should report absent")
	}

	if err := store.Set(unsignedJWT(t, 3_000_000_000)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := store.Get(); !ok {
		t.Fatal("live JWT should report present")
	}
}

func TestOpaqueTokenAlwaysPasses(t *testing.T) {
	store := NewMemStore()
	if err := store.Set("not-a-jwt"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := store.Get(); !ok {
		t.Fatal("opaque token should pass the expiry pre-check")
	}
}

func TestGuard(t *testing.T) {
	store := NewMemStore()
	guard := Guard{Store: store}

	if err := guard.Require(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("empty store: expected ErrNoSession, got %v", err)
	}

	if err := store.Set("tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := guard.Require(); err != nil {
		t.Fatalf("populated store: %v", err)
	}
}

// unsignedJWT builds a structurally valid JWT with the given exp and a junk
// signature; the store never verifies signatures.
func unsignedJWT(t *testing.T, exp int64) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]interface{}{"sub": "1", "exp": exp})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return fmt.Sprintf("%s.%s.sig", header, base64.RawURLEncoding.EncodeToString(payload))
}
