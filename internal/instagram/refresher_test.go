package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	posts []Post
	err   error
	limit int
}

func (s *stubFetcher) RecentMedia(_ context.Context, limit int) ([]Post, error) {
	s.limit = limit
	return s.posts, s.err
}

type memorySource struct {
	data []byte
}

func (m *memorySource) Read(context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, ErrFeedNotFound
	}
	return m.data, nil
}

func (m *memorySource) Write(_ context.Context, data []byte) error {
	m.data = data
	return nil
}

func TestRefresherWritesFeed(t *testing.T) {
	fetcher := &stubFetcher{posts: []Post{
		{ID: "1", MediaType: "IMAGE", MediaURL: "https://cdn.example/1.jpg"},
		{ID: "2", MediaType: "VIDEO", MediaURL: "https://cdn.example/2.mp4"},
		{ID: "3", MediaType: "VIDEO", MediaURL: "https://cdn.example/3.mp4", ThumbnailURL: "https://cdn.example/3.jpg"},
	}}
	dest := &memorySource{}
	r := NewRefresher(fetcher, dest, 0, nil)
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	feed, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, fetcher.limit)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, "3", feed.Posts[1].ID)

	var stored Feed
	require.NoError(t, json.Unmarshal(dest.data, &stored))
	assert.True(t, stored.UpdatedAt.Equal(fixed))
	assert.Len(t, stored.Posts, 2)
}

func TestRefresherKeepsOldFeedOnFetchError(t *testing.T) {
	dest := &memorySource{data: []byte(`{"posts":[{"id":"old"}]}`)}
	r := NewRefresher(&stubFetcher{err: errors.New("graph down")}, dest, 6, nil)

	_, err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.JSONEq(t, `{"posts":[{"id":"old"}]}`, string(dest.data))
}
