package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/friendloop/backend/internal/auth"
	"github.com/friendloop/backend/internal/friends"
	"github.com/friendloop/backend/internal/logging"
)

// FriendHandler exposes the friend request and response endpoints.
type FriendHandler struct {
	Service FriendService
	NowFunc func() time.Time
}

type sendFriendRequest struct {
	FriendID string `json:"friend_id"`
}

type respondFriendRequest struct {
	UserID string `json:"user_id"`
	Status *int   `json:"status"`
}

// Request handles POST /api/friend-request.
func (h FriendHandler) Request(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, span := logging.StartSpan(r.Context(), "friends.request")
	defer span.End()
	logger := logging.FromContext(ctx)

	if h.Service == nil {
		logger.Error("friend service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	currentUser, ok := auth.UserIDFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req sendFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid friend request payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.FriendID = strings.TrimSpace(req.FriendID)
	if req.FriendID == "" {
		respondJSON(ctx, w, http.StatusUnprocessableEntity, newValidationResponse(map[string][]string{
			"friend_id": {"is required"},
		}))
		return
	}

	rel, err := h.Service.SendRequest(ctx, currentUser, req.FriendID)
	if err != nil {
		switch {
		case errors.Is(err, friends.ErrTargetNotFound):
			respondJSON(ctx, w, http.StatusNotFound, userNotFoundProblem())
		case errors.Is(err, friends.ErrSelfRequest):
			respondJSON(ctx, w, http.StatusUnprocessableEntity, newValidationResponse(map[string][]string{
				"friend_id": {"can't refer to yourself"},
			}))
		case errors.Is(err, friends.ErrDuplicateRequest):
			respondJSON(ctx, w, http.StatusConflict, duplicateRequestProblem())
		default:
			logger.Error("send friend request failed", "error", err, "target", req.FriendID)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to send friend request"})
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, friendRequestResponse{
		FriendRequest: newFriendRequestResource(rel, h.now),
		Links:         &selfLinks{Self: "/api/users/" + req.FriendID},
	})
}

// Respond handles POST /api/friend-request-response.
func (h FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, span := logging.StartSpan(r.Context(), "friends.respond")
	defer span.End()
	logger := logging.FromContext(ctx)

	if h.Service == nil {
		logger.Error("friend service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	currentUser, ok := auth.UserIDFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req respondFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid friend response payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)

	meta := make(map[string][]string)
	if req.UserID == "" {
		meta["user_id"] = []string{"is required"}
	}
	switch {
	case req.Status == nil:
		meta["status"] = []string{"is required"}
	case *req.Status != int(friends.DecisionAccept) && *req.Status != int(friends.DecisionDecline):
		meta["status"] = []string{"is invalid"}
	}
	if len(meta) > 0 {
		respondJSON(ctx, w, http.StatusUnprocessableEntity, newValidationResponse(meta))
		return
	}

	rel, err := h.Service.Respond(ctx, currentUser, req.UserID, friends.Decision(*req.Status))
	if err != nil {
		if errors.Is(err, friends.ErrRequestNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, friendRequestNotFoundProblem())
			return
		}
		logger.Error("respond to friend request failed", "error", err, "other", req.UserID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to respond to friend request"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, friendRequestResponse{
		FriendRequest: newFriendRequestResource(rel, h.now),
	})
}

func (h FriendHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
