// Package proxy forwards authenticated requests to the configured
// upstream, optionally translating the guard's session into identity
// headers the upstream can trust.
package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/af-corp/supaguard/guard"
)

// Identity headers set on forwarded requests. Inbound values are
// always stripped first so callers cannot spoof them.
const (
	HeaderUserID    = "X-Supabase-User-Id"
	HeaderUserEmail = "X-Supabase-User-Email"
	HeaderUserRole  = "X-Supabase-User-Role"
)

// Handler proxies to a single upstream.
type Handler struct {
	proxy           *httputil.ReverseProxy
	identityHeaders bool
}

// New builds a Handler targeting upstream.
func New(upstream string, identityHeaders bool, logger *slog.Logger) (*Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url %s: %w", upstream, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("upstream url %s: scheme and host are required", upstream)
	}

	h := &Handler{identityHeaders: identityHeaders}
	h.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			h.rewriteIdentity(r)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("upstream unreachable", "error", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return h, nil
}

func (h *Handler) rewriteIdentity(r *httputil.ProxyRequest) {
	r.Out.Header.Del(HeaderUserID)
	r.Out.Header.Del(HeaderUserEmail)
	r.Out.Header.Del(HeaderUserRole)

	if !h.identityHeaders {
		return
	}
	user, ok := guard.UserFrom(r.In.Context())
	if !ok || user == nil {
		return
	}
	r.Out.Header.Set(HeaderUserID, user.ID)
	if user.Email != "" {
		r.Out.Header.Set(HeaderUserEmail, user.Email)
	}
	if user.Role != "" {
		r.Out.Header.Set(HeaderUserRole, user.Role)
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.proxy.ServeHTTP(w, r)
}
