package guard

import (
	"fmt"
	"net/http"
)

// Error is a request rejection: a fixed HTTP status with a plain-text
// body. The (status, message) pairs below are load-bearing — deployed
// clients and runbooks match on the exact strings.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("guard: status %d", e.Status)
	}
	return fmt.Sprintf("guard: status %d: %s", e.Status, e.Message)
}

var (
	// ErrMissingURL rejects when the project endpoint is neither
	// configured nor present in the environment.
	ErrMissingURL = &Error{Status: http.StatusInternalServerError, Message: "SUPABASE_URL is not set"}

	// ErrMissingKey rejects when the access key is neither configured
	// nor present in the environment.
	ErrMissingKey = &Error{Status: http.StatusInternalServerError, Message: "SUPABASE_ANON_KEY is not set"}

	// ErrMissingAuthHeader rejects a request carrying no Authorization
	// header. Applies to both guard policies.
	ErrMissingAuthHeader = &Error{Status: http.StatusUnauthorized, Message: "Authorization header is missing"}

	// ErrInvalidCredential rejects, under the strict policy only, a
	// credential the backend did not resolve to a user. The body is
	// deliberately empty.
	ErrInvalidCredential = &Error{Status: http.StatusUnauthorized}
)
