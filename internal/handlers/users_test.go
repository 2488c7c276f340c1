package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/friendloop/backend/internal/models"
)

func profileFixture() (*inMemoryUserStore, models.Relationship) {
	users := newInMemoryUserStore()
	users.users["alice"] = models.User{ID: "alice", Email: "alice@example.com"}
	users.users["bob"] = models.User{ID: "bob", Email: "bob@example.com"}
	users.users["carol"] = models.User{ID: "carol", Email: "carol@example.com"}

	confirmedAt := time.Date(2024, time.June, 1, 9, 58, 0, 0, time.UTC)
	rel := models.Relationship{
		ID:          "rel-1",
		RequesterID: "alice",
		RecipientID: "bob",
		Status:      models.RelationshipConfirmed,
		ConfirmedAt: &confirmedAt,
	}
	return users, rel
}

func relationshipService(rel models.Relationship) *fakeFriendService {
	return &fakeFriendService{
		betweenFn: func(_ context.Context, a, b string) (models.Relationship, bool, error) {
			if rel.Involves(a) && rel.Involves(b) {
				return rel, true, nil
			}
			return models.Relationship{}, false, nil
		},
	}
}

func TestUserHandlerShowEmbedsFriendship(t *testing.T) {
	users, rel := profileFixture()
	now := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)

	// The embedded friendship must render identically whichever side of the
	// stored row the viewer is on.
	views := []struct {
		viewer  string
		profile string
	}{
		{viewer: "bob", profile: "alice"},
		{viewer: "alice", profile: "bob"},
	}

	for _, v := range views {
		handler := UserHandler{Users: users, Friends: relationshipService(rel), NowFunc: func() time.Time { return now }}

		req := authenticatedRequest(http.MethodGet, "/api/users/"+v.profile, nil, v.viewer)
		rec := httptest.NewRecorder()

		handler.Show(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("viewer %s: expected status %d got %d: %s", v.viewer, http.StatusOK, rec.Code, rec.Body.String())
		}

		var resp userResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}

		if resp.Data.ID != v.profile || resp.Data.Type != "user" {
			t.Fatalf("unexpected resource: %+v", resp.Data)
		}
		friendship := resp.Data.Attributes.Friendship
		if friendship == nil {
			t.Fatalf("viewer %s: expected friendship to be embedded", v.viewer)
		}
		if friendship.Data.FriendRequestID != "rel-1" {
			t.Fatalf("viewer %s: unexpected friend_request_id %q", v.viewer, friendship.Data.FriendRequestID)
		}
		if friendship.Data.Attributes.ConfirmedAt == nil || *friendship.Data.Attributes.ConfirmedAt != "2 minutes ago" {
			t.Fatalf("viewer %s: unexpected confirmed_at %v", v.viewer, friendship.Data.Attributes.ConfirmedAt)
		}
	}
}

func TestUserHandlerShowNoFriendship(t *testing.T) {
	users, rel := profileFixture()
	handler := UserHandler{Users: users, Friends: relationshipService(rel)}

	req := authenticatedRequest(http.MethodGet, "/api/users/carol", nil, "alice")
	rec := httptest.NewRecorder()

	handler.Show(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp userResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Attributes.Friendship != nil {
		t.Fatalf("expected null friendship, got %+v", resp.Data.Attributes.Friendship)
	}
}

func TestUserHandlerShowOwnProfile(t *testing.T) {
	users, rel := profileFixture()
	handler := UserHandler{Users: users, Friends: relationshipService(rel)}

	req := authenticatedRequest(http.MethodGet, "/api/users/alice", nil, "alice")
	rec := httptest.NewRecorder()

	handler.Show(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp userResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Attributes.Friendship != nil {
		t.Fatal("own profile must not embed a friendship")
	}
}

func TestUserHandlerShowFailures(t *testing.T) {
	users, rel := profileFixture()
	svc := relationshipService(rel)

	cases := []struct {
		name       string
		handler    UserHandler
		method     string
		target     string
		userID     string
		wantStatus int
	}{
		{"wrongMethod", UserHandler{Users: users, Friends: svc}, http.MethodPost, "/api/users/alice", "bob", http.StatusMethodNotAllowed},
		{"missingDeps", UserHandler{}, http.MethodGet, "/api/users/alice", "bob", http.StatusInternalServerError},
		{"unauthenticated", UserHandler{Users: users, Friends: svc}, http.MethodGet, "/api/users/alice", "", http.StatusUnauthorized},
		{"emptyID", UserHandler{Users: users, Friends: svc}, http.MethodGet, "/api/users/", "bob", http.StatusNotFound},
		{"unknownUser", UserHandler{Users: users, Friends: svc}, http.MethodGet, "/api/users/ghost", "bob", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := authenticatedRequest(tc.method, tc.target, nil, tc.userID)
			rec := httptest.NewRecorder()

			tc.handler.Show(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestUserHandlerShowUnknownUserBody(t *testing.T) {
	users, rel := profileFixture()
	handler := UserHandler{Users: users, Friends: relationshipService(rel)}

	req := authenticatedRequest(http.MethodGet, "/api/users/ghost", nil, "bob")
	rec := httptest.NewRecorder()

	handler.Show(rec, req)

	var resp problemResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Title != "User not Found!" {
		t.Fatalf("unexpected title %q", resp.Title)
	}
}
