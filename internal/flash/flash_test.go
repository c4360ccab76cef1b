package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// carryCookies copies Set-Cookie headers from a response onto a new request,
// simulating the browser following a redirect.
func carryCookies(t *testing.T, rec *httptest.ResponseRecorder, req *http.Request) {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
}

func TestStore_AddAndPop(t *testing.T) {
	store := NewStore("test-secret", false)

	// First request queues a message
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/blog", nil)
	store.Error(rec, req, "You need to login in order to access the admin panel.")

	// Next request pops it
	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/admin/authentication", nil)
	carryCookies(t, rec, req2)

	messages := store.Pop(rec2, req2)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Kind != KindError {
		t.Errorf("expected error kind, got %q", messages[0].Kind)
	}
	if messages[0].Text != "You need to login in order to access the admin panel." {
		t.Errorf("unexpected message text: %q", messages[0].Text)
	}
}

func TestStore_PopConsumesMessages(t *testing.T) {
	store := NewStore("test-secret", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	store.Success(rec, req, "Article created.")

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(t, rec, req2)

	if got := store.Pop(rec2, req2); len(got) != 1 {
		t.Fatalf("expected 1 message on first pop, got %d", len(got))
	}

	// A request carrying the refreshed cookie sees nothing
	rec3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(t, rec2, req3)

	if got := store.Pop(rec3, req3); len(got) != 0 {
		t.Errorf("expected no messages on second pop, got %d", len(got))
	}
}

func TestStore_PopEmpty(t *testing.T) {
	store := NewStore("test-secret", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := store.Pop(rec, req); got != nil {
		t.Errorf("expected nil for empty store, got %v", got)
	}
}

func TestStore_MultipleMessagesPreserveOrder(t *testing.T) {
	store := NewStore("test-secret", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	store.Info(rec, req, "first")
	store.Error(rec, req, "second")

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(t, rec, req2)

	messages := store.Pop(rec2, req2)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != "first" || messages[1].Text != "second" {
		t.Errorf("messages out of order: %v", messages)
	}
}
