package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/images/abc", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"id": "abc",
				"publicId": "assets/raw/abc.pdf",
				"secureUrl": "https://cdn.test/assets/raw/abc.pdf",
				"title": "Past Question",
				"format": "pdf",
				"size": 1024,
				"isPublic": true
			}
		}`))
	}))
	defer server.Close()

	c := New(server.URL, "tkn")
	asset, err := c.FetchAsset(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "abc", asset.ID)
	assert.Equal(t, "assets/raw/abc.pdf", asset.PublicID)
	assert.Equal(t, "pdf", asset.Format)
	assert.Equal(t, int64(1024), asset.Size)
}

func TestFetchAsset_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success": false, "message": "You do not have permission to view this file"}`))
	}))
	defer server.Close()

	c := New(server.URL, "tkn")
	_, err := c.FetchAsset(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "permission")
}

func TestTrackDownload(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/images/abc/download", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	c := New(server.URL, "tkn")
	require.NoError(t, c.TrackDownload(context.Background(), "abc"))
	assert.True(t, called)
}
