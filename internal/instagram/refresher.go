package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

// MediaFetcher returns the newest posts for the configured account.
type MediaFetcher interface {
	RecentMedia(ctx context.Context, limit int) ([]Post, error)
}

// Refresher regenerates the feed document from the Graph API.
type Refresher struct {
	fetcher MediaFetcher
	dest    Source
	limit   int
	now     func() time.Time
	logger  *logging.Logger
}

// NewRefresher wires a fetcher to a destination. A non-positive limit means 12.
func NewRefresher(fetcher MediaFetcher, dest Source, limit int, logger *logging.Logger) *Refresher {
	if limit <= 0 {
		limit = 12
	}
	return &Refresher{
		fetcher: fetcher,
		dest:    dest,
		limit:   limit,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger.Component("instagram"),
	}
}

// Refresh fetches media and overwrites the stored feed. Video posts without
// a thumbnail are skipped because the site grid renders images only.
func (r *Refresher) Refresh(ctx context.Context) (*Feed, error) {
	posts, err := r.fetcher.RecentMedia(ctx, r.limit)
	if err != nil {
		return nil, err
	}

	feed := &Feed{UpdatedAt: r.now(), Posts: make([]Post, 0, len(posts))}
	for _, p := range posts {
		if p.MediaType == "VIDEO" && p.ThumbnailURL == "" {
			continue
		}
		feed.Posts = append(feed.Posts, p)
	}

	data, err := json.Marshal(feed)
	if err != nil {
		return nil, fmt.Errorf("instagram: marshal feed: %w", err)
	}
	if err := r.dest.Write(ctx, data); err != nil {
		return nil, err
	}

	r.logger.Info("instagram feed refreshed", "posts", len(feed.Posts), "fetched", len(posts))
	return feed, nil
}
