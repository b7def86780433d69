package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ArjunDas2003/ai-chatbot/utils/log"
)

const openWeatherAPIBase = "https://api.openweathermap.org/data/2.5"

// OpenWeather reports current conditions from the OpenWeatherMap API as one
// user-facing sentence. Current never errors.
type OpenWeather struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenWeather(apiKey string) *OpenWeather {
	return &OpenWeather{
		apiKey:     apiKey,
		baseURL:    openWeatherAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type openWeatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
}

func (w *OpenWeather) Current(ctx context.Context, city string) string {
	if w.apiKey == "" {
		return "Weather API key is not configured."
	}

	params := url.Values{
		"q":     {city},
		"appid": {w.apiKey},
		"units": {"metric"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return fmt.Sprintf("Sorry, I couldn't fetch the weather for %s.", city)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.WithCtx(ctx).Error("weather lookup", zap.Error(err), zap.String("city", city))
		return fmt.Sprintf("Sorry, I couldn't fetch the weather for %s.", city)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithCtx(ctx).Error("weather lookup status", zap.Int("status", resp.StatusCode), zap.String("city", city))
		return fmt.Sprintf("Sorry, I couldn't fetch the weather for %s.", city)
	}

	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Sprintf("Sorry, I couldn't fetch the weather for %s.", city)
	}
	if len(body.Weather) == 0 || body.Main.Temp == nil {
		return fmt.Sprintf("Sorry, I couldn't find weather data for %s.", city)
	}

	return fmt.Sprintf("The weather in %s is currently %s with a temperature of %.1f°C.",
		city, body.Weather[0].Description, *body.Main.Temp)
}
