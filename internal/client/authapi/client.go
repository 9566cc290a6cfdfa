package authapi

import (
	"context"

	"github.com/medinvest/medinvest/internal/client/models"
)

// Client talks to the Backend Auth API.
type Client interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, email, password string) (*models.Session, error)
	// Me returns the user behind token, or ErrUnauthorized once the backend
	// has invalidated it.
	Me(ctx context.Context, token string) (*models.User, error)
	// Logout revokes token on the backend.
	Logout(ctx context.Context, token string) error
	// Ping checks backend liveness.
	Ping(ctx context.Context) error
}
