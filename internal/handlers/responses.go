package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/friendloop/backend/internal/logging"
	"github.com/friendloop/backend/internal/models"
)

// Response bodies are explicit serializable types built per endpoint and
// passed to the one shared encoder below.

// friendRequestResource is the wire representation of a relationship as seen
// by the friend-request endpoints.
type friendRequestResource struct {
	FriendRequestID string  `json:"friend_request_id"`
	ConfirmedAt     *string `json:"confirmed_at"`
}

type selfLinks struct {
	Self string `json:"self"`
}

type friendRequestResponse struct {
	FriendRequest friendRequestResource `json:"friend_request"`
	Links         *selfLinks            `json:"links,omitempty"`
}

// problemResponse is the body of 404 and 409 answers.
type problemResponse struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func userNotFoundProblem() problemResponse {
	return problemResponse{
		Status: http.StatusNotFound,
		Title:  "User not Found!",
		Detail: "Unable to locate the user with the given information.",
	}
}

func friendRequestNotFoundProblem() problemResponse {
	return problemResponse{
		Status: http.StatusNotFound,
		Title:  "Friend Request not Found!",
		Detail: "Unable to locate the friend request with the given information.",
	}
}

func duplicateRequestProblem() problemResponse {
	return problemResponse{
		Status: http.StatusConflict,
		Title:  "Friend Request already exists!",
		Detail: "A relationship between these users already exists.",
	}
}

// validationResponse reports 422 errors addressable by field name.
type validationResponse struct {
	Errors validationErrors `json:"errors"`
}

type validationErrors struct {
	Meta map[string][]string `json:"meta"`
}

func newValidationResponse(meta map[string][]string) validationResponse {
	return validationResponse{Errors: validationErrors{Meta: meta}}
}

// userResponse is the body of GET /api/users/{id}.
type userResponse struct {
	Data userResource `json:"data"`
}

type userResource struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes userAttributes `json:"attributes"`
}

type userAttributes struct {
	Email      string           `json:"email"`
	Friendship *friendshipEmbed `json:"friendship"`
}

type friendshipEmbed struct {
	Data friendshipData `json:"data"`
}

type friendshipData struct {
	FriendRequestID string               `json:"friend_request_id"`
	Attributes      friendshipAttributes `json:"attributes"`
}

type friendshipAttributes struct {
	ConfirmedAt *string `json:"confirmed_at"`
}

// newFriendRequestResource renders a relationship, formatting ConfirmedAt as
// a relative-time string when set.
func newFriendRequestResource(rel models.Relationship, now func() time.Time) friendRequestResource {
	resource := friendRequestResource{FriendRequestID: rel.ID}
	if rel.ConfirmedAt != nil {
		rendered := relativeTime(*rel.ConfirmedAt, now())
		resource.ConfirmedAt = &rendered
	}
	return resource
}

func newFriendshipEmbed(rel models.Relationship, now func() time.Time) *friendshipEmbed {
	resource := newFriendRequestResource(rel, now)
	return &friendshipEmbed{
		Data: friendshipData{
			FriendRequestID: resource.FriendRequestID,
			Attributes:      friendshipAttributes{ConfirmedAt: resource.ConfirmedAt},
		},
	}
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}
