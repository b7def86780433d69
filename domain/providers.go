package domain

import "context"

// MediaResult is the outcome of a video or music search. URL is empty when
// nothing playable was found; Message is always populated and user-facing.
type MediaResult struct {
	URL     string
	Message string
}

// VideoSearcher finds a playable video for a free-text query. Implementations
// never fail: every error mode collapses into a fallback Message and an empty
// URL, and the injected context bounds how long the remote call may take.
type VideoSearcher interface {
	Search(ctx context.Context, query string) MediaResult
}

// MusicSearcher finds a playable track for a free-text query, with the same
// never-fails contract as VideoSearcher.
type MusicSearcher interface {
	Search(ctx context.Context, query string) MediaResult
}

// WeatherProvider reports current conditions for a city as one user-facing
// sentence, falling back to an apology on any failure.
type WeatherProvider interface {
	Current(ctx context.Context, city string) string
}
