// Session HTTP handlers.
//
// This file exposes the endpoint a tutoring client calls when a student opens
// the app:
//   - POST /sessions  (mint a fresh session id)
//
// Sessions are not rows anywhere; the id is an opaque grouping key the client
// echoes on subsequent conversation and feedback writes. Minting server-side
// keeps ids uniform and unguessable.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionResponse is the JSON envelope for a newly minted session id.
type SessionResponse struct {
	// SessionID is the opaque key to send on subsequent writes.
	SessionID string `json:"session_id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// CreateSession godoc
// @ID          createSession
// @Summary     Start a session
// @Description Mints a fresh session id for grouping the conversations of one sitting.
// @Tags        Sessions
// @Produce     json
//
// @Success     201  {object} handlers.SessionResponse
// @Router      /sessions [post]
func (h *Handlers) CreateSession(c *gin.Context) {
	ok(c, http.StatusCreated, SessionResponse{SessionID: uuid.NewString()})
}
