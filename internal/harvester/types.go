// Package harvester defines the core types shared across the harvest pipeline.
package harvester

import (
	"context"
	"net/http"
	"time"
)

// Article is the canonical extracted record persisted for each story.
// Field order matches the on-disk JSON key order and must not change.
type Article struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Date    string   `json:"date"`
	Author  string   `json:"author"`
	Source  string   `json:"source"`
	Snippet string   `json:"content_snippet"`
	Body    string   `json:"full_content"`
	Tags    []string `json:"tags"`
}

// Source describes the publication being harvested. It is constructed
// once from configuration and passed explicitly to every component that
// needs it, including the home timezone.
type Source struct {
	Name              string
	Slug              string
	Homepage          string
	Domain            string
	ArticlePathMarker string
	DefaultAuthor     string
	Location          *time.Location
}

// FetchRequest captures everything needed to fetch a URL.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Fetcher retrieves raw HTML bytes for a URL. The two concrete
// strategies (plain HTTP and rendered-page) are swapped at
// configuration time; the pipeline never knows which one it holds.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Store persists extracted articles and reports the path written.
type Store interface {
	Save(ctx context.Context, article Article) (string, error)
}

// Index tracks URL fingerprints that are already persisted or in flight.
type Index interface {
	Load() error
	Reserve(fingerprint string) bool
	Release(fingerprint string)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
