package supabase

import (
	"context"
	"net/http"
	"time"
)

// AuthAPI exposes the GoTrue endpoints scoped to the client's
// Authorization header.
type AuthAPI struct {
	client *Client
}

// User is the GoTrue representation of an authenticated principal.
type User struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud"`
	Role         string         `json:"role"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
	ConfirmedAt  *time.Time     `json:"confirmed_at,omitempty"`
}

// User fetches the principal behind the client's current Authorization
// header. A credential the backend does not recognize comes back as an
// *APIError with a 4xx status.
func (a *AuthAPI) User(ctx context.Context) (*User, error) {
	var u User
	if err := a.client.do(ctx, http.MethodGet, "/auth/v1/user", nil, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
