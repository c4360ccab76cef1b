// Package flash stores one-shot notification messages in a signed cookie.
//
// Messages survive exactly one redirect: a handler adds a message before
// redirecting, and the next page render pops it. The store is backed by
// gorilla/sessions' cookie store, so no server-side state is involved.
package flash

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "website-flash"

// Kind classifies a message for display styling.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is a single flash notification.
type Message struct {
	Kind Kind
	Text string
}

// Store wraps a cookie store dedicated to flash messages.
type Store struct {
	store *sessions.CookieStore
}

// NewStore derives signing and encryption keys from the configured secret
// and returns a flash store. isSecure controls the cookie's Secure flag.
func NewStore(secret string, isSecure bool) *Store {
	// Derive two independent 32-byte keys from the secret:
	// one for signing (HMAC), one for content encryption (AES)
	authKey := sha256.Sum256([]byte(secret + "auth"))
	encKey := sha256.Sum256([]byte(secret + "encryption"))

	cs := sessions.NewCookieStore(authKey[:], encKey[:])
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300, // flashes are consumed on the next page load
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{store: cs}
}

// Add queues a message for the next request.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, kind Kind, text string) {
	session, _ := s.store.Get(r, sessionName)
	session.AddFlash(string(kind) + "\x00" + text)
	_ = session.Save(r, w)
}

// Info queues an informational message.
func (s *Store) Info(w http.ResponseWriter, r *http.Request, text string) {
	s.Add(w, r, KindInfo, text)
}

// Success queues a success message.
func (s *Store) Success(w http.ResponseWriter, r *http.Request, text string) {
	s.Add(w, r, KindSuccess, text)
}

// Error queues an error message.
func (s *Store) Error(w http.ResponseWriter, r *http.Request, text string) {
	s.Add(w, r, KindError, text)
}

// Pop returns all queued messages and clears them.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	session, _ := s.store.Get(r, sessionName)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save(r, w)

	messages := make([]Message, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		messages = append(messages, parseMessage(str))
	}
	return messages
}

func parseMessage(raw string) Message {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\x00' {
			return Message{Kind: Kind(raw[:i]), Text: raw[i+1:]}
		}
	}
	return Message{Kind: KindInfo, Text: raw}
}
