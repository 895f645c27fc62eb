package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// QueryBuilder accumulates a PostgREST request against one table or
// view. Builders are cheap and single-use; methods mutate and return
// the receiver for chaining.
type QueryBuilder struct {
	client *Client
	table  string
	query  url.Values
	single bool
}

// From starts a query against table in the configured schema.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{client: c, table: table, query: url.Values{}}
}

// Select restricts the returned columns ("*" for all).
func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.query.Set("select", columns)
	return q
}

// Eq keeps rows where column equals value.
func (q *QueryBuilder) Eq(column, value string) *QueryBuilder {
	q.query.Set(column, "eq."+value)
	return q
}

// Order sorts by column, descending when desc is set. Repeatable.
func (q *QueryBuilder) Order(column string, desc bool) *QueryBuilder {
	dir := ".asc"
	if desc {
		dir = ".desc"
	}
	q.query.Add("order", column+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.query.Set("limit", strconv.Itoa(n))
	return q
}

// Single requests exactly one row decoded as an object rather than an
// array. Zero or multiple matches become an *APIError.
func (q *QueryBuilder) Single() *QueryBuilder {
	q.single = true
	return q
}

// Get runs the query and decodes the result into dest.
func (q *QueryBuilder) Get(ctx context.Context, dest any) error {
	headers := map[string]string{"Accept-Profile": q.client.schema}
	if q.single {
		headers["Accept"] = "application/vnd.pgrst.object+json"
	}
	return q.client.do(ctx, http.MethodGet, "/rest/v1/"+q.table, q.query, headers, nil, dest)
}

// Insert writes rows (a struct, map, or slice of either) to the table.
// Row-level security applies under the credential the client was
// constructed with.
func (q *QueryBuilder) Insert(ctx context.Context, rows any) error {
	headers := map[string]string{
		"Content-Profile": q.client.schema,
		"Prefer":          "return=minimal",
	}
	return q.client.do(ctx, http.MethodPost, "/rest/v1/"+q.table, q.query, headers, rows, nil)
}
