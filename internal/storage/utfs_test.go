package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wahlware/wahlhost/internal/config"
)

func newTestClient(handler http.HandlerFunc) (*UTFSClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewUTFSClient(&config.UTFSConfig{ApiURL: srv.URL, ApiKey: "sk_test"}, srv.Client())
	return c, srv
}

func TestUploadFromURL(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/uploadFromUrl", r.URL.Path)
		assert.Equal(t, "sk_test", r.Header.Get("X-Api-Key"))

		var req utfsUploadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://blob.example.com/x/y.png", req.URL)

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{
				"key": "abcdef1234567890abcdef1234567890",
				"url": "https://utfs.example.com/f/abcdef1234567890abcdef1234567890",
			},
		})
	})
	defer srv.Close()

	res, err := c.UploadFromURL(context.Background(), "https://blob.example.com/x/y.png")
	require.NoError(t, err)
	assert.Equal(t, "abcdef1234567890abcdef1234567890", res.Key)
	assert.Contains(t, res.URL, "utfs.example.com")
}

func TestDeleteByKey(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/deleteFiles", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "deletedCount": 1})
	})
	defer srv.Close()

	res, err := c.DeleteByKey(context.Background(), "abcdef")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.DeletedCount)
}

func TestDeleteByKey_ServerError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})
	defer srv.Close()

	_, err := c.DeleteByKey(context.Background(), "abcdef")
	assert.Error(t, err)
}
