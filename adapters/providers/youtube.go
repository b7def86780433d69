package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ArjunDas2003/ai-chatbot/domain"
	"github.com/ArjunDas2003/ai-chatbot/utils/log"
)

const youtubeAPIBase = "https://www.googleapis.com/youtube/v3"

// YouTube searches the YouTube Data API v3 for an embeddable video. All
// failure modes collapse into a user-facing sentence; Search never errors.
type YouTube struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewYouTube(apiKey string) *YouTube {
	return &YouTube{
		apiKey:     apiKey,
		baseURL:    youtubeAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type youtubeVideosResponse struct {
	Items []struct {
		ID     string `json:"id"`
		Status struct {
			Embeddable bool `json:"embeddable"`
		} `json:"status"`
	} `json:"items"`
}

func (y *YouTube) Search(ctx context.Context, query string) domain.MediaResult {
	if y.apiKey == "" {
		return domain.MediaResult{Message: "YouTube API is not configured."}
	}

	// Fetch several candidates; the top result is not always embeddable.
	var search youtubeSearchResponse
	err := y.getJSON(ctx, "/search", url.Values{
		"q":          {query},
		"part":       {"id"},
		"maxResults": {"5"},
		"type":       {"video"},
	}, &search)
	if err != nil {
		log.WithCtx(ctx).Error("youtube search", zap.Error(err), zap.String("query", query))
		return domain.MediaResult{Message: fmt.Sprintf("Sorry, I couldn't find a video for '%s' on YouTube.", query)}
	}

	videoIDs := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			videoIDs = append(videoIDs, item.ID.VideoID)
		}
	}
	if len(videoIDs) == 0 {
		return domain.MediaResult{Message: fmt.Sprintf("I couldn't find any YouTube videos for '%s'.", query)}
	}

	var videos youtubeVideosResponse
	err = y.getJSON(ctx, "/videos", url.Values{
		"part": {"status"},
		"id":   {strings.Join(videoIDs, ",")},
	}, &videos)
	if err != nil {
		log.WithCtx(ctx).Error("youtube videos lookup", zap.Error(err), zap.String("query", query))
		return domain.MediaResult{Message: fmt.Sprintf("Sorry, I couldn't find a video for '%s' on YouTube.", query)}
	}

	for _, item := range videos.Items {
		if item.Status.Embeddable {
			return domain.MediaResult{
				URL:     "https://www.youtube.com/embed/" + item.ID,
				Message: fmt.Sprintf("Playing the top result for '%s' on YouTube.", query),
			}
		}
	}

	return domain.MediaResult{Message: fmt.Sprintf("Sorry, I found videos for '%s', but none of them can be played here.", query)}
}

func (y *YouTube) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", y.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := y.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
