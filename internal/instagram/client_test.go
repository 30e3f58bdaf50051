package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/media", r.URL.Path)
		assert.Equal(t, "test_token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Contains(t, r.URL.Query().Get("fields"), "permalink")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mediaResponse{Data: []Post{
			{ID: "1", MediaType: "IMAGE", MediaURL: "https://cdn.example/1.jpg", Permalink: "https://instagram.com/p/1"},
			{ID: "2", MediaType: "IMAGE", MediaURL: "https://cdn.example/2.jpg"},
			{ID: "3", MediaType: "IMAGE", MediaURL: "https://cdn.example/3.jpg"},
		}})
	}))
	defer server.Close()

	client := NewClient("test_token")
	client.SetGraphAPIBase(server.URL)

	posts, err := client.RecentMedia(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "1", posts[0].ID)
	assert.Equal(t, "https://instagram.com/p/1", posts[0].Permalink)
}

func TestRecentMediaAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(mediaResponse{
			Error: &APIError{Code: 190, Message: "Invalid OAuth access token", Type: "OAuthException"},
		})
	}))
	defer server.Close()

	client := NewClient("bad_token")
	client.SetGraphAPIBase(server.URL)

	_, err := client.RecentMedia(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "190")
}

func TestRecentMediaRequiresToken(t *testing.T) {
	_, err := NewClient("").RecentMedia(context.Background(), 5)
	require.Error(t, err)
}
