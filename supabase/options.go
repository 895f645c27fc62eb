package supabase

import (
	"maps"
	"net/http"
)

// ClientOptions configures a Client. Every field is optional and passed
// through verbatim, with one documented exception: the Authorization
// entry of Global.Headers is replaced when a per-request credential is
// bound (see WithAuthorization and the override table on New).
type ClientOptions struct {
	Global     GlobalOptions
	DB         DBOptions
	HTTPClient *http.Client
}

// GlobalOptions carries settings applied to every outgoing request.
type GlobalOptions struct {
	Headers map[string]string
}

// DBOptions selects the PostgREST schema. Empty means "public".
type DBOptions struct {
	Schema string
}

// WithAuthorization returns a copy of o with the Authorization header
// forced to value. The receiver (which may be nil) is never mutated and
// its header map is cloned, so concurrent requests built from one
// shared ClientOptions never see each other's credential. All other
// header keys are preserved as supplied.
func (o *ClientOptions) WithAuthorization(value string) *ClientOptions {
	var out ClientOptions
	if o != nil {
		out = *o
	}
	out.Global.Headers = maps.Clone(out.Global.Headers)
	if out.Global.Headers == nil {
		out.Global.Headers = make(map[string]string, 1)
	}
	out.Global.Headers["Authorization"] = value
	return &out
}
