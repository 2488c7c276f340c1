package handlers

import (
	"net/http"

	"github.com/friendloop/backend/internal/middleware"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Limiter: deps.AuthLimiter}
	friends := FriendHandler{Service: deps.Friends}
	users := UserHandler{Users: deps.Users, Friends: deps.Friends}

	authenticated := middleware.Authenticate(deps.Authenticator)

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/auth/login", auth.Login)
	mux.HandleFunc("/api/v1/auth/signup", auth.SignUp)
	mux.HandleFunc("/api/v1/auth/refresh", auth.Refresh)
	mux.Handle("/api/friend-request", authenticated(http.HandlerFunc(friends.Request)))
	mux.Handle("/api/friend-request-response", authenticated(http.HandlerFunc(friends.Respond)))
	mux.Handle("/api/users/", authenticated(http.HandlerFunc(users.Show)))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Sessions      SessionManager
	Friends       FriendService
	Authenticator middleware.TokenAuthenticator
	AuthLimiter   RateLimiter
}
