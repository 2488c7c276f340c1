package app

import (
	"github.com/friendloop/backend/internal/auth"
	"github.com/friendloop/backend/internal/config"
	"github.com/friendloop/backend/internal/db"
	"github.com/friendloop/backend/internal/friends"
	"github.com/friendloop/backend/internal/handlers"
	"github.com/friendloop/backend/internal/middleware"
	"github.com/friendloop/backend/internal/repositories"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(pool db.Pool, cfg config.Config) handlers.Dependencies {
	users := repositories.NewPostgresUserRepository(pool)
	relationships := repositories.NewPostgresRelationshipRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)
	sessions := auth.NewManager(cfg.AccessTTL, cfg.RefreshTTL, sessionStore)

	return handlers.Dependencies{
		Users:         users,
		Sessions:      sessions,
		Friends:       friends.NewService(relationships, users),
		Authenticator: sessions,
		AuthLimiter:   middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateLimit, 5*cfg.AuthRateWindow),
	}
}
