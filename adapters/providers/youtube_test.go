package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYouTubeWithServer(t *testing.T, handler http.HandlerFunc) *YouTube {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	y := NewYouTube("test-key")
	y.baseURL = srv.URL
	return y
}

func TestYouTubeReturnsFirstEmbeddableVideo(t *testing.T) {
	y := newYouTubeWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "lofi", r.URL.Query().Get("q"))
			w.Write([]byte(`{"items":[{"id":{"videoId":"aaa"}},{"id":{"videoId":"bbb"}}]}`))
		case "/videos":
			assert.Equal(t, "aaa,bbb", r.URL.Query().Get("id"))
			w.Write([]byte(`{"items":[{"id":"aaa","status":{"embeddable":false}},{"id":"bbb","status":{"embeddable":true}}]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	res := y.Search(context.Background(), "lofi")
	assert.Equal(t, "https://www.youtube.com/embed/bbb", res.URL)
	assert.Equal(t, "Playing the top result for 'lofi' on YouTube.", res.Message)
}

func TestYouTubeNoResults(t *testing.T) {
	y := newYouTubeWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	})

	res := y.Search(context.Background(), "lofi")
	assert.Empty(t, res.URL)
	assert.Equal(t, "I couldn't find any YouTube videos for 'lofi'.", res.Message)
}

func TestYouTubeNoEmbeddableResults(t *testing.T) {
	y := newYouTubeWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			w.Write([]byte(`{"items":[{"id":{"videoId":"aaa"}}]}`))
		case "/videos":
			w.Write([]byte(`{"items":[{"id":"aaa","status":{"embeddable":false}}]}`))
		}
	})

	res := y.Search(context.Background(), "lofi")
	assert.Empty(t, res.URL)
	assert.Equal(t, "Sorry, I found videos for 'lofi', but none of them can be played here.", res.Message)
}

func TestYouTubeAPIErrorFallsBack(t *testing.T) {
	y := newYouTubeWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	res := y.Search(context.Background(), "lofi")
	assert.Empty(t, res.URL)
	assert.Equal(t, "Sorry, I couldn't find a video for 'lofi' on YouTube.", res.Message)
}

func TestYouTubeUnconfigured(t *testing.T) {
	y := NewYouTube("")
	res := y.Search(context.Background(), "anything")
	require.Equal(t, "YouTube API is not configured.", res.Message)
	assert.Empty(t, res.URL)
}
