package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncc-robotics/workshop-survey/wire"
)

func TestSupabaseUnconfigured(t *testing.T) {
	s := NewSupabase(SupabaseConfig{}, time.Second)

	_, err := s.List(context.Background())

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = s.Create(context.Background(), wire.Record{"name": "x"})
	assert.ErrorAs(t, err, &cfgErr)
}

func supabaseServer(t *testing.T, handler http.HandlerFunc) *Supabase {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSupabase(SupabaseConfig{URL: srv.URL, AnonKey: "anon"}, time.Second)
}

func TestSupabaseCreate(t *testing.T) {
	s := supabaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/survey_submissions", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var rec wire.Record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		rec["id"] = "row-1"
		rec["created_at"] = "2025-06-20T09:00:00Z"

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]wire.Record{rec})
	})

	row, err := s.Create(context.Background(), wire.Record{"name": "John Doe"})
	require.NoError(t, err)
	assert.Equal(t, "row-1", row.ID())
	assert.Equal(t, "John Doe", row["name"])
}

func TestSupabaseListOrdersAndLimits(t *testing.T) {
	s := supabaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode([]wire.Record{{"id": "row-1"}, {"id": "row-2"}})
	})

	rows, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSupabaseUpdateMissingRow(t *testing.T) {
	s := supabaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.row-9", r.URL.Query().Get("id"))
		json.NewEncoder(w).Encode([]wire.Record{})
	})

	_, err := s.Update(context.Background(), "row-9", wire.Record{"name": "x"})

	var nferr *NotFoundError
	assert.ErrorAs(t, err, &nferr)
}

func TestSupabaseDelete(t *testing.T) {
	s := supabaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		json.NewEncoder(w).Encode([]wire.Record{{"id": "row-1"}})
	})

	assert.NoError(t, s.Delete(context.Background(), "row-1"))
}

func TestSupabaseErrorCodeMapping(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"42P01", "relation does not exist"},
		{"PGRST205", "table not found"},
		{"23505", "unique-constraint violation"},
		{"XX000", "request failed"},
	}
	for _, tt := range tests {
		s := supabaseServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"code": tt.code, "message": "boom"})
		})

		_, err := s.List(context.Background())

		var neterr *NetworkError
		require.ErrorAs(t, err, &neterr, "code %s", tt.code)
		assert.Contains(t, neterr.Error(), tt.want, "code %s", tt.code)
	}
}

func TestSupabaseTimeoutBecomesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	s := NewSupabase(SupabaseConfig{URL: srv.URL, AnonKey: "anon"}, 20*time.Millisecond)
	_, err := s.List(context.Background())

	var neterr *NetworkError
	assert.ErrorAs(t, err, &neterr)
}
