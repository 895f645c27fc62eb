package guard

import (
	"context"
	"net/http"
	"time"

	"github.com/af-corp/supaguard/internal/httputil"
	"github.com/af-corp/supaguard/supabase"
)

// Require returns strict middleware using the default Supabase client:
// requests without a valid credential never reach next.
func Require(cfg Config) func(http.Handler) http.Handler {
	return NewStrict(cfg, DefaultFactory, DefaultIdentifier).Middleware()
}

// Optional returns permissive middleware using the default Supabase
// client: the Authorization header is still required, but a credential
// that fails validation passes through with a nil user and a working
// anon-scoped client.
func Optional(cfg Config) func(http.Handler) http.Handler {
	return NewPermissive(cfg, DefaultFactory, DefaultIdentifier).Middleware()
}

// DefaultFactory constructs the stock *supabase.Client.
func DefaultFactory(endpoint, accessKey string, opts *supabase.ClientOptions) *supabase.Client {
	return supabase.New(endpoint, accessKey, opts)
}

// DefaultIdentifier resolves the user via the GoTrue user endpoint.
func DefaultIdentifier(ctx context.Context, client *supabase.Client) (*supabase.User, error) {
	return client.Auth.User(ctx)
}

// Middleware adapts the guard to the standard middleware contract.
// Rejections are written directly: plain-text body, fixed status.
func (g *Guard[C]) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sess, rejection := g.Authenticate(r.Context(), r.Header.Get("Authorization"))
			durationMs := float64(time.Since(start).Microseconds()) / 1000

			if rejection != nil {
				g.observe(outcomeFor(rejection, false), durationMs)
				g.logRejection(rejection)
				httputil.WriteText(w, rejection.Status, rejection.Message)
				return
			}

			g.observe(outcomeFor(nil, sess.User != nil), durationMs)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

func (g *Guard[C]) logRejection(rejection *Error) {
	switch rejection.Status {
	case http.StatusInternalServerError:
		g.logger().Error("guard misconfigured", "mode", g.Mode(), "error", rejection.Message)
	default:
		reason := rejection.Message
		if reason == "" {
			reason = "credential rejected by backend"
		}
		g.logger().Warn("request rejected", "mode", g.Mode(), "status", rejection.Status, "reason", reason)
	}
}
