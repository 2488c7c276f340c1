package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/friendloop/backend/internal/auth"
	"github.com/friendloop/backend/internal/logging"
	"github.com/friendloop/backend/internal/repositories"
)

// UserHandler renders user profiles with the viewer's friendship embedded.
type UserHandler struct {
	Users   UserStore
	Friends FriendService
	NowFunc func() time.Time
}

// Show handles GET /api/users/{id}. The embedded friendship is resolved
// between the viewer and the viewed user and renders identically whichever
// side of the stored row the viewer is on.
func (h UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil || h.Friends == nil {
		logger.Error("profile dependencies unavailable", "hasUsers", h.Users != nil, "hasFriends", h.Friends != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "profile service unavailable"})
		return
	}

	currentUser, ok := auth.UserIDFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if id == "" || strings.Contains(id, "/") {
		respondJSON(ctx, w, http.StatusNotFound, userNotFoundProblem())
		return
	}

	user, err := h.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, userNotFoundProblem())
			return
		}
		logger.Error("profile lookup failed", "error", err, "userId", id)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}

	resource := userResource{
		ID:         user.ID,
		Type:       "user",
		Attributes: userAttributes{Email: user.Email},
	}

	if id != currentUser {
		rel, found, err := h.Friends.FriendshipBetween(ctx, currentUser, id)
		if err != nil {
			logger.Error("friendship lookup failed", "error", err, "viewer", currentUser, "userId", id)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
			return
		}
		if found {
			resource.Attributes.Friendship = newFriendshipEmbed(rel, h.now)
		}
	}

	respondJSON(ctx, w, http.StatusOK, userResponse{Data: resource})
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
