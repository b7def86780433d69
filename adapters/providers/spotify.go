package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ArjunDas2003/ai-chatbot/domain"
	"github.com/ArjunDas2003/ai-chatbot/utils/log"
)

const (
	spotifyAPIBase   = "https://api.spotify.com/v1"
	spotifyTokenURL  = "https://accounts.spotify.com/api/token"
	spotifyEmbedBase = "https://open.spotify.com/embed/track/"
)

// Spotify searches the Spotify catalog using the client-credentials flow.
// The bearer token is cached until shortly before it expires.
type Spotify struct {
	clientID     string
	clientSecret string
	baseURL      string
	tokenURL     string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewSpotify(clientID, clientSecret string) *Spotify {
	return &Spotify{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      spotifyAPIBase,
		tokenURL:     spotifyTokenURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
	} `json:"tracks"`
}

func (s *Spotify) Search(ctx context.Context, query string) domain.MediaResult {
	if s.clientID == "" || s.clientSecret == "" {
		return domain.MediaResult{Message: "Spotify API is not configured."}
	}

	token, err := s.token(ctx)
	if err != nil {
		log.WithCtx(ctx).Error("spotify token", zap.Error(err))
		return domain.MediaResult{Message: fmt.Sprintf("Sorry, I couldn't play '%s' on Spotify.", query)}
	}

	params := url.Values{
		"q":     {"track:" + query},
		"type":  {"track"},
		"limit": {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.MediaResult{Message: fmt.Sprintf("Sorry, I couldn't play '%s' on Spotify.", query)}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.WithCtx(ctx).Error("spotify search", zap.Error(err), zap.String("query", query))
		return domain.MediaResult{Message: fmt.Sprintf("Sorry, I couldn't play '%s' on Spotify.", query)}
	}
	defer resp.Body.Close()

	var search spotifySearchResponse
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&search) != nil {
		log.WithCtx(ctx).Error("spotify search response", zap.Int("status", resp.StatusCode), zap.String("query", query))
		return domain.MediaResult{Message: fmt.Sprintf("Sorry, I couldn't play '%s' on Spotify.", query)}
	}

	if len(search.Tracks.Items) == 0 {
		return domain.MediaResult{Message: fmt.Sprintf("Sorry, I couldn't find the song '%s' on Spotify.", query)}
	}

	track := search.Tracks.Items[0]
	return domain.MediaResult{
		URL:     spotifyEmbedBase + track.ID,
		Message: fmt.Sprintf("Playing '%s' on Spotify.", track.Name),
	}
}

func (s *Spotify) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		return s.accessToken, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, form)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify token status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	s.accessToken = body.AccessToken
	// Renew a minute early so in-flight searches never race expiry.
	s.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	return s.accessToken, nil
}
