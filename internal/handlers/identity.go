package handlers

import (
	"net/http"

	"github.com/iam-sarthakdev/MockMate-AI/internal/middleware"
	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

// currentUser returns the authenticated identity, writing a 401 when there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok || id.UserID == "" {
		utils.Error(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return middleware.Identity{}, false
	}
	return id, true
}
