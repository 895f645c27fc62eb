package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type row struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestQueryGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/articles" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("select") != "id,title" {
			t.Errorf("select = %q", q.Get("select"))
		}
		if q.Get("author_id") != "eq.u1" {
			t.Errorf("author_id = %q", q.Get("author_id"))
		}
		if q.Get("order") != "created_at.desc" {
			t.Errorf("order = %q", q.Get("order"))
		}
		if q.Get("limit") != "5" {
			t.Errorf("limit = %q", q.Get("limit"))
		}
		if got := r.Header.Get("Accept-Profile"); got != "public" {
			t.Errorf("Accept-Profile = %q", got)
		}
		json.NewEncoder(w).Encode([]row{{ID: 1, Title: "first"}})
	}))
	defer srv.Close()

	var rows []row
	err := New(srv.URL, "anon-key", nil).
		From("articles").
		Select("id,title").
		Eq("author_id", "u1").
		Order("created_at", true).
		Limit(5).
		Get(context.Background(), &rows)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "first" {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestQueryGet_Single(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.pgrst.object+json" {
			t.Errorf("Accept = %q", got)
		}
		json.NewEncoder(w).Encode(row{ID: 7, Title: "only"})
	}))
	defer srv.Close()

	var got row
	err := New(srv.URL, "anon-key", nil).
		From("articles").
		Eq("id", "7").
		Single().
		Get(context.Background(), &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != 7 {
		t.Errorf("ID = %d", got.ID)
	}
}

func TestQueryGet_SchemaHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept-Profile"); got != "tenant" {
			t.Errorf("Accept-Profile = %q", got)
		}
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	var rows []row
	c := New(srv.URL, "anon-key", &ClientOptions{DB: DBOptions{Schema: "tenant"}})
	if err := c.From("articles").Get(context.Background(), &rows); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}

func TestInsert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := r.Header.Get("Content-Profile"); got != "public" {
			t.Errorf("Content-Profile = %q", got)
		}
		if got := r.Header.Get("Prefer"); got != "return=minimal" {
			t.Errorf("Prefer = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		var rows []row
		if err := json.Unmarshal(body, &rows); err != nil || len(rows) != 1 || rows[0].Title != "new" {
			t.Errorf("unexpected body %s", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := New(srv.URL, "anon-key", nil).
		From("articles").
		Insert(context.Background(), []row{{Title: "new"}})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
}

func TestQueryGet_PostgrestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		json.NewEncoder(w).Encode(map[string]string{"message": "JSON object requested, multiple (or no) rows returned"})
	}))
	defer srv.Close()

	var got row
	err := New(srv.URL, "anon-key", nil).From("articles").Single().Get(context.Background(), &got)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusNotAcceptable || apiErr.Message == "" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}
