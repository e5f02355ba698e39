package partition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/papernotes/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("Should fail without API key", func(t *testing.T) {
		_, err := NewClient("")
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("Should apply options", func(t *testing.T) {
		client, err := NewClient("key", WithBaseURL("http://localhost:8000"), WithStrategy("fast"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000", client.baseURL)
		assert.Equal(t, "fast", client.strategy)
	})
}

func TestPartition(t *testing.T) {
	elements := []map[string]any{
		{
			"type": "Title",
			"text": "Gorilla: Large Language Model Connected with Massive APIs",
			"metadata": map[string]any{
				"filename":    "paper.pdf",
				"page_number": 1,
			},
		},
		{
			"type": "NarrativeText",
			"text": "We construct APIBench, a large corpus of APIs.",
			"metadata": map[string]any{
				"filename":    "paper.pdf",
				"page_number": 2,
			},
		},
		{
			"type":     "PageBreak",
			"text":     "",
			"metadata": map[string]any{},
		},
	}

	t.Run("Should map elements to segments in order", func(t *testing.T) {
		var gotKey, gotStrategy string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("unstructured-api-key")
			require.NoError(t, r.ParseMultipartForm(10<<20))
			gotStrategy = r.FormValue("strategy")

			_, _, err := r.FormFile("files")
			require.NoError(t, err)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(elements)
		}))
		defer server.Close()

		client, err := NewClient("secret", WithBaseURL(server.URL))
		require.NoError(t, err)

		segments, err := client.Partition(context.Background(), []byte("%PDF-1.7 fake"))
		require.NoError(t, err)

		assert.Equal(t, "secret", gotKey)
		assert.Equal(t, "hi_res", gotStrategy)

		require.Len(t, segments, 2) // empty-text element dropped
		assert.Equal(t, "Gorilla: Large Language Model Connected with Massive APIs", segments[0].Content)
		assert.Equal(t, 1, segments[0].Page)
		assert.Equal(t, "Title", segments[0].Metadata["element_type"])
		assert.Equal(t, "We construct APIBench, a large corpus of APIs.", segments[1].Content)
		assert.Equal(t, 2, segments[1].Page)
	})

	t.Run("Should reject empty document", func(t *testing.T) {
		client, err := NewClient("secret")
		require.NoError(t, err)

		_, err = client.Partition(context.Background(), nil)
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("Should report non-2xx as partition error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		defer server.Close()

		client, err := NewClient("wrong", WithBaseURL(server.URL))
		require.NoError(t, err)

		_, err = client.Partition(context.Background(), []byte("doc"))
		assert.ErrorIs(t, err, ErrPartition)
	})

	t.Run("Should report malformed response as partition error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client, err := NewClient("secret", WithBaseURL(server.URL))
		require.NoError(t, err)

		_, err = client.Partition(context.Background(), []byte("doc"))
		assert.ErrorIs(t, err, ErrPartition)
	})
}
