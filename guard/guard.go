// Package guard authenticates inbound HTTP requests against a Supabase
// project and injects a request-scoped client plus the validated user
// into the request context.
//
// Two policies share one check sequence. Require rejects any request
// that does not carry a valid credential. Optional still requires the
// Authorization header to be present and still performs the backend
// lookup, but a credential that fails validation passes through with a
// nil user — downstream handlers cannot tell an anonymous caller from
// one holding a revoked token. That ambiguity is inherited behavior,
// kept on purpose.
//
// Nothing is cached between requests: configuration fallbacks are
// re-read from the environment and the credential is re-validated on
// every invocation. Each request gets its own client, never shared.
package guard

import (
	"context"
	"log/slog"
	"os"

	"github.com/af-corp/supaguard/supabase"
	"github.com/af-corp/supaguard/telemetry"
)

// Environment fallbacks consulted, per request, when Config leaves the
// corresponding field empty.
const (
	EnvURL     = "SUPABASE_URL"
	EnvAnonKey = "SUPABASE_ANON_KEY"
)

// Config configures a guard. The zero value is valid and relies
// entirely on the environment fallbacks; unresolved values fail at
// request time, not at construction.
type Config struct {
	// Endpoint is the Supabase project URL. Falls back to SUPABASE_URL.
	Endpoint string

	// AccessKey is the shared API key. Falls back to SUPABASE_ANON_KEY.
	AccessKey string

	// ClientOptions is forwarded verbatim to the client factory, except
	// that Global.Headers["Authorization"] is always replaced with the
	// per-request credential. Other header keys are preserved.
	ClientOptions *supabase.ClientOptions

	// Metrics, when non-nil, records every guard decision.
	Metrics *telemetry.Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Factory builds the request-scoped client bound to one credential.
// Construction must not fail; endpoint problems surface on the
// client's first call.
type Factory[C any] func(endpoint, accessKey string, opts *supabase.ClientOptions) C

// Identifier resolves the user behind a scoped client.
type Identifier[C any] func(ctx context.Context, client C) (*supabase.User, error)

// Guard runs the check sequence for one policy. The client type C is
// threaded through untouched, so callers binding their own
// schema-typed client keep full type safety end to end; Require and
// Optional cover the default *supabase.Client case.
type Guard[C any] struct {
	cfg      Config
	factory  Factory[C]
	identify Identifier[C]
	strict   bool
}

// NewStrict builds a guard that rejects requests whose credential the
// backend does not validate.
func NewStrict[C any](cfg Config, factory Factory[C], identify Identifier[C]) *Guard[C] {
	return &Guard[C]{cfg: cfg, factory: factory, identify: identify, strict: true}
}

// NewPermissive builds a guard that tolerates validation failure: the
// session is injected with a nil user instead of rejecting.
func NewPermissive[C any](cfg Config, factory Factory[C], identify Identifier[C]) *Guard[C] {
	return &Guard[C]{cfg: cfg, factory: factory, identify: identify, strict: false}
}

// Mode names the policy for logs and metric labels.
func (g *Guard[C]) Mode() string {
	if g.strict {
		return "require"
	}
	return "optional"
}

// resolve returns explicit when set, otherwise the current value of
// envKey. Consulted at request time so a late-set environment is
// honored.
func resolve(explicit, envKey string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(envKey)
}

// Authenticate runs the check sequence against one request's
// Authorization header value. It returns the session to inject, or the
// rejection to write. The context bounds the backend lookup; no
// timeout is imposed here.
func (g *Guard[C]) Authenticate(ctx context.Context, authHeader string) (*Session[C], *Error) {
	endpoint := resolve(g.cfg.Endpoint, EnvURL)
	if endpoint == "" {
		return nil, ErrMissingURL
	}
	accessKey := resolve(g.cfg.AccessKey, EnvAnonKey)
	if accessKey == "" {
		return nil, ErrMissingKey
	}
	if authHeader == "" {
		return nil, ErrMissingAuthHeader
	}

	client := g.factory(endpoint, accessKey, g.cfg.ClientOptions.WithAuthorization(authHeader))

	user, err := g.identify(ctx, client)
	if err != nil {
		if g.strict {
			return nil, ErrInvalidCredential
		}
		// Anonymous or invalid; indistinguishable downstream.
		user = nil
	}
	return &Session[C]{Client: client, User: user}, nil
}

func (g *Guard[C]) logger() *slog.Logger {
	if g.cfg.Logger != nil {
		return g.cfg.Logger
	}
	return slog.Default()
}

func (g *Guard[C]) observe(outcome string, durationMs float64) {
	if g.cfg.Metrics != nil {
		g.cfg.Metrics.RecordAuth(g.Mode(), outcome, durationMs)
	}
}

func outcomeFor(rejection *Error, userPresent bool) string {
	switch rejection {
	case nil:
	case ErrMissingURL, ErrMissingKey:
		return telemetry.OutcomeMissingConfig
	case ErrMissingAuthHeader:
		return telemetry.OutcomeMissingHeader
	default:
		return telemetry.OutcomeInvalidToken
	}
	if !userPresent {
		return telemetry.OutcomeAnonymous
	}
	return telemetry.OutcomeOK
}
