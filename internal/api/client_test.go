package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avrentops/rentalctl/internal/credstore"
	"github.com/avrentops/rentalctl/internal/domain"
)

func seedStore(t *testing.T, access, refresh string) credstore.Store {
	t.Helper()
	store := credstore.NewMemoryStore()
	if access != "" || refresh != "" {
		if err := store.SetTokens(&domain.TokenPair{AccessToken: access, RefreshToken: refresh}); err != nil {
			t.Fatalf("seed tokens: %v", err)
		}
	}
	return store
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": status < 400, "data": data})
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

func TestAttachesPersistedAccessToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]any{"user": map[string]string{"id": "u-1"}})
	}))
	defer srv.Close()

	client := New(srv.URL, seedStore(t, "acc-123", "ref-123"))
	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer acc-123" {
		t.Fatalf("expected bearer header from store, got %q", gotAuth)
	}
}

func TestMissingTokenProceedsUnauthenticated(t *testing.T) {
	var gotAuth string
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token")
	}))
	defer srv.Close()

	client := New(srv.URL, credstore.NewMemoryStore())
	_, err := client.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected 401 to surface, got %v (auth=%q)", err, gotAuth)
	}
	if sawHeader {
		t.Fatalf("request should carry no Authorization header, got %q", gotAuth)
	}
}

// A 401 on a protected call is recovered by one refresh and one replay,
// invisible to the caller.
func TestTransparentRefreshAndReplay(t *testing.T) {
	var refreshCalls, protectedCalls int32
	store := seedStore(t, "stale", "ref-1")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			var body struct {
				RefreshToken string `json:"refresh_token"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.RefreshToken != "ref-1" {
				writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "bad refresh token")
				return
			}
			if r.Header.Get("Authorization") != "" {
				t.Errorf("refresh call must be unauthenticated, got %q", r.Header.Get("Authorization"))
			}
			writeEnvelope(w, http.StatusOK, map[string]any{
				"tokens": map[string]string{"access_token": "fresh", "refresh_token": "ref-2"},
			})
		case "/auth/me":
			atomic.AddInt32(&protectedCalls, 1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "expired")
				return
			}
			writeEnvelope(w, http.StatusOK, map[string]any{"user": map[string]string{"id": "u-1", "email": "a@b.com"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := New(srv.URL, store)
	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("expected transparent recovery, got %v", err)
	}
	if user == nil || user.ID != "u-1" {
		t.Fatalf("unexpected user %+v", user)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", n)
	}
	if n := atomic.LoadInt32(&protectedCalls); n != 2 {
		t.Fatalf("expected original + one replay, got %d calls", n)
	}
	pair, err := store.Tokens()
	if err != nil || pair == nil || pair.AccessToken != "fresh" || pair.RefreshToken != "ref-2" {
		t.Fatalf("rotated pair not persisted: %+v err=%v", pair, err)
	}
}

// A second 401 after a successful refresh is a hard failure: no third
// attempt, error surfaced.
func TestSecond401AfterRefreshIsHardFailure(t *testing.T) {
	var refreshCalls, protectedCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			writeEnvelope(w, http.StatusOK, map[string]any{
				"tokens": map[string]string{"access_token": "fresh", "refresh_token": "ref-2"},
			})
		default:
			atomic.AddInt32(&protectedCalls, 1)
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "still expired")
		}
	}))
	defer srv.Close()

	client := New(srv.URL, seedStore(t, "stale", "ref-1"))
	_, err := client.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected surfaced 401, got %v", err)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("expected one refresh, got %d", n)
	}
	if n := atomic.LoadInt32(&protectedCalls); n != 2 {
		t.Fatalf("expected exactly two protected attempts, got %d", n)
	}
}

func TestRefreshFailureClearsCredentials(t *testing.T) {
	store := seedStore(t, "stale", "ref-dead")
	if err := store.SetUser(&domain.User{ID: "u-1"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "refresh token expired")
			return
		}
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "expired")
	}))
	defer srv.Close()

	client := New(srv.URL, store)
	_, err := client.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected the original 401, got %v", err)
	}
	pair, _ := store.Tokens()
	if pair != nil {
		t.Fatalf("tokens should be cleared, got %+v", pair)
	}
	user, _ := store.User()
	if user != nil {
		t.Fatalf("user should be cleared, got %+v", user)
	}
}

func TestMissingRefreshTokenLeavesStoreUntouched(t *testing.T) {
	store := seedStore(t, "stale", "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			t.Error("refresh must not be attempted without a refresh token")
		}
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "expired")
	}))
	defer srv.Close()

	client := New(srv.URL, store)
	_, err := client.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected 401, got %v", err)
	}
	pair, _ := store.Tokens()
	if pair == nil || pair.AccessToken != "stale" {
		t.Fatalf("store should be untouched, got %+v", pair)
	}
}

func TestNon401ErrorsPassThrough(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			atomic.AddInt32(&refreshCalls, 1)
		}
		writeAPIError(w, http.StatusConflict, "INSUFFICIENT_STOCK", "only 2 units available")
	}))
	defer srv.Close()

	client := New(srv.URL, seedStore(t, "acc", "ref"))
	_, err := client.CreateEvent(context.Background(), &domain.Event{EventName: "gala"})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != "INSUFFICIENT_STOCK" {
		t.Fatalf("server error not passed through verbatim: %+v", apiErr)
	}
	if apiErr.Message != "only 2 units available" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if atomic.LoadInt32(&refreshCalls) != 0 {
		t.Fatal("non-401 must not trigger refresh")
	}
}

// Concurrent 401s share one in-flight refresh instead of racing to rotate
// the same refresh token.
func TestConcurrent401sCollapseIntoOneRefresh(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			time.Sleep(200 * time.Millisecond)
			writeEnvelope(w, http.StatusOK, map[string]any{
				"tokens": map[string]string{"access_token": "fresh", "refresh_token": "ref-2"},
			})
		default:
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "expired")
				return
			}
			writeEnvelope(w, http.StatusOK, map[string]any{"user": map[string]string{"id": "u-1"}})
		}
	}))
	defer srv.Close()

	client := New(srv.URL, seedStore(t, "stale", "ref-1"))
	const workers = 5
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Me(context.Background())
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("expected a single shared refresh, got %d", n)
	}
}

func TestMultipartReplayAfterRefresh(t *testing.T) {
	var bodies [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			writeEnvelope(w, http.StatusOK, map[string]any{
				"tokens": map[string]string{"access_token": "fresh", "refresh_token": "ref-2"},
			})
		default:
			body := make([]byte, 0)
			buf := make([]byte, 4096)
			for {
				n, err := r.Body.Read(buf)
				body = append(body, buf[:n]...)
				if err != nil {
					break
				}
			}
			bodies = append(bodies, body)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "expired")
				return
			}
			writeEnvelope(w, http.StatusOK, map[string]string{"id": "m-1", "content": "fixed"})
		}
	}))
	defer srv.Close()

	client := New(srv.URL, seedStore(t, "stale", "ref-1"))
	photos := []File{{Name: "before.jpg", Data: []byte("jpeg-bytes")}}
	if _, err := client.AddMaintenanceLog(context.Background(), "m-1", "fixed", photos); err != nil {
		t.Fatalf("add log: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected original + replay, got %d requests", len(bodies))
	}
	if string(bodies[0]) != string(bodies[1]) {
		t.Fatal("replayed multipart body must be byte-identical")
	}
}
