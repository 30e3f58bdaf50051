package instagram

import "time"

// Feed is the document served by GET /api/instagram.
type Feed struct {
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `json:"posts"`
}

// Post is one media item from the business account.
type Post struct {
	ID           string `json:"id"`
	Caption      string `json:"caption,omitempty"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
}

// mediaResponse is the Graph API /me/media payload.
type mediaResponse struct {
	Data  []Post    `json:"data"`
	Error *APIError `json:"error,omitempty"`
}

// APIError is the error object returned by the Graph API.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}
