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

func TestAppwriteUnconfigured(t *testing.T) {
	a := NewAppwrite(AppwriteConfig{Endpoint: "https://cloud.appwrite.io/v1"}, time.Second)

	_, err := a.List(context.Background())

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func appwriteServer(t *testing.T, handler http.HandlerFunc) *Appwrite {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAppwrite(AppwriteConfig{
		Endpoint:     srv.URL,
		ProjectID:    "proj",
		APIKey:       "key",
		DatabaseID:   "db",
		CollectionID: "survey_responses",
	}, time.Second)
}

func TestAppwriteCreateStampsSubmittedAt(t *testing.T) {
	a := appwriteServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db/collections/survey_responses/documents", r.URL.Path)
		assert.Equal(t, "proj", r.Header.Get("X-Appwrite-Project"))
		assert.Equal(t, "key", r.Header.Get("X-Appwrite-Key"))

		var body struct {
			DocumentID string      `json:"documentId"`
			Data       wire.Record `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "unique()", body.DocumentID)
		assert.NotEmpty(t, body.Data["submitted_at"])

		doc := wire.Record{"$id": "doc-1", "$createdAt": "2025-06-20T09:00:00Z"}
		for k, v := range body.Data {
			doc[k] = v
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(doc)
	})

	doc, err := a.Create(context.Background(), wire.Record{"name": "John Doe"})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID())
}

func TestAppwriteCreateDoesNotMutateInput(t *testing.T) {
	a := appwriteServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(wire.Record{"$id": "doc-1"})
	})

	in := wire.Record{"name": "John Doe"}
	_, err := a.Create(context.Background(), in)
	require.NoError(t, err)

	_, stamped := in["submitted_at"]
	assert.False(t, stamped)
}

func TestAppwriteListQueries(t *testing.T) {
	a := appwriteServer(t, func(w http.ResponseWriter, r *http.Request) {
		queries := r.URL.Query()["queries[]"]
		assert.Contains(t, queries, `orderDesc("submitted_at")`)
		assert.Contains(t, queries, "limit(100)")
		json.NewEncoder(w).Encode(map[string]any{
			"total":     1,
			"documents": []wire.Record{{"$id": "doc-1", "name": "John Doe"}},
		})
	})

	docs, err := a.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].ID())
}

func TestAppwriteDeleteMissingDocument(t *testing.T) {
	a := appwriteServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := a.Delete(context.Background(), "doc-9")

	var nferr *NotFoundError
	assert.ErrorAs(t, err, &nferr)
}

func TestAppwriteServerErrorIsNetworkError(t *testing.T) {
	a := appwriteServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "general_unknown", http.StatusInternalServerError)
	})

	_, err := a.List(context.Background())

	var neterr *NetworkError
	assert.ErrorAs(t, err, &neterr)
}
