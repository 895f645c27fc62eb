package guard

import (
	"context"

	"github.com/af-corp/supaguard/supabase"
)

// Session is the context extension injected on success. It is owned by
// the single request that produced it and must not be retained past
// the request's lifetime.
//
// User is nil when an Optional guard could not validate the
// credential; that covers both anonymous traffic and revoked tokens,
// with no way to tell the two apart.
type Session[C any] struct {
	Client C
	User   *supabase.User
}

type contextKey string

const sessionContextKey contextKey = "supaguard_session"

// WithSession returns a context carrying s. The middleware calls this
// on success; exported so handlers downstream of a guard can be tested
// without one.
func WithSession[C any](ctx context.Context, s *Session[C]) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFrom retrieves the session injected by a Guard[C]. The type
// parameter must match the guard's client type.
func SessionFrom[C any](ctx context.Context) (*Session[C], bool) {
	s, ok := ctx.Value(sessionContextKey).(*Session[C])
	return s, ok
}

// ClientFrom retrieves the scoped client injected by Require or
// Optional.
func ClientFrom(ctx context.Context) (*supabase.Client, bool) {
	s, ok := SessionFrom[*supabase.Client](ctx)
	if !ok {
		return nil, false
	}
	return s.Client, true
}

// UserFrom retrieves the validated user. ok reports whether a session
// exists at all; the user itself may still be nil under Optional.
func UserFrom(ctx context.Context) (*supabase.User, bool) {
	s, ok := SessionFrom[*supabase.Client](ctx)
	if !ok {
		return nil, false
	}
	return s.User, true
}
