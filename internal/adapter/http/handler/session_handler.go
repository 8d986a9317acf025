package handler

import (
	"net/http"

	"github.com/financify/financify/internal/adapter/http/middleware"
)

// SessionService tears down a user's ledger subscription.
type SessionService interface {
	Close(userID string)
}

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	sessions SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Logout closes the caller's ledger session. The subscription is
// re-established lazily on the next authenticated request.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	h.sessions.Close(user.UID)
	w.WriteHeader(http.StatusNoContent)
}
