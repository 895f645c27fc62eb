// Package supabase is a thin REST client for a Supabase project,
// covering the auth (GoTrue) and database (PostgREST) surfaces needed
// by a request-scoped client: validating the caller's credential and
// querying on their behalf. It is deliberately not a full SDK.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const clientInfo = "supaguard-go/0.1.0"

// Client issues requests against one Supabase project with a fixed set
// of headers. Instances are cheap; construct one per credential and
// discard it with the request that created it.
//
// Header layering, lowest precedence first:
//
//	1. defaults: apikey, Authorization ("Bearer <accessKey>"), X-Client-Info
//	2. opts.Global.Headers, merged key by key
//
// A per-request credential is bound by passing options through
// ClientOptions.WithAuthorization before construction.
type Client struct {
	// Auth exposes the GoTrue endpoints under /auth/v1.
	Auth *AuthAPI

	endpoint string
	headers  map[string]string
	schema   string
	httpc    *http.Client
}

// New constructs a Client for the project at endpoint
// (https://<ref>.supabase.co) using accessKey as the API key.
// Construction never fails; a malformed or unreachable endpoint
// surfaces as an error on the first call.
func New(endpoint, accessKey string, opts *ClientOptions) *Client {
	headers := map[string]string{
		"apikey":        accessKey,
		"Authorization": "Bearer " + accessKey,
		"X-Client-Info": clientInfo,
	}
	schema := "public"
	httpc := http.DefaultClient
	if opts != nil {
		for k, v := range opts.Global.Headers {
			headers[k] = v
		}
		if opts.DB.Schema != "" {
			schema = opts.DB.Schema
		}
		if opts.HTTPClient != nil {
			httpc = opts.HTTPClient
		}
	}

	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		headers:  headers,
		schema:   schema,
		httpc:    httpc,
	}
	c.Auth = &AuthAPI{client: c}
	return c
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: status %d", e.Status)
	}
	return fmt.Sprintf("supabase: status %d: %s", e.Status, e.Message)
}

// do issues one request and decodes a 2xx JSON body into dest (skipped
// when dest is nil). Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body, dest any) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if dest == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// readAPIError extracts the message field GoTrue and PostgREST error
// bodies disagree on the name of.
func readAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Msg != "":
			apiErr.Message = body.Msg
		case body.ErrorDescription != "":
			apiErr.Message = body.ErrorDescription
		}
	}
	return apiErr
}
