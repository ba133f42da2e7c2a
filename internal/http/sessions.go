package http

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "finance_session"

// Flash is a one-shot notice shown on the next rendered page. Level selects
// the style: "success", "info", "warning" or "error".
type Flash struct {
	Level   string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// sessionManager wraps the signed-cookie store. The session carries the
// authenticated user id and any pending flashes.
type sessionManager struct {
	store *sessions.CookieStore
}

func newSessionManager(secret string, maxAge int) *sessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionManager{store: store}
}

// userID returns the signed-in user id, if any. A cookie that fails its
// signature check comes back as a fresh empty session, so it simply reads
// as "not signed in".
func (m *sessionManager) userID(r *http.Request) (int64, bool) {
	sess, _ := m.store.Get(r, sessionName)
	id, ok := sess.Values["user_id"].(int64)
	return id, ok && id > 0
}

func (m *sessionManager) signIn(w http.ResponseWriter, r *http.Request, userID int64) error {
	sess, _ := m.store.Get(r, sessionName)
	sess.Values["user_id"] = userID
	return sess.Save(r, w)
}

// signOut drops the identity but keeps the cookie alive so the logout
// flash still reaches the login page.
func (m *sessionManager) signOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, sessionName)
	delete(sess.Values, "user_id")
	return sess.Save(r, w)
}

func (m *sessionManager) addFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	sess, _ := m.store.Get(r, sessionName)
	sess.AddFlash(Flash{Level: level, Message: message})
	if err := sess.Save(r, w); err != nil {
		slog.ErrorContext(r.Context(), "failed to save flash", "error", err)
	}
}

// popFlashes returns pending flashes and clears them from the session.
func (m *sessionManager) popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, _ := m.store.Get(r, sessionName)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	if err := sess.Save(r, w); err != nil {
		slog.ErrorContext(r.Context(), "failed to clear flashes", "error", err)
	}
	return flashes
}
