package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

type stubVideo struct {
	result domain.MediaResult
	delay  time.Duration
}

func (s stubVideo) Search(ctx context.Context, query string) domain.MediaResult {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.result
}

type stubMusic struct {
	result domain.MediaResult
}

func (s stubMusic) Search(ctx context.Context, query string) domain.MediaResult {
	return s.result
}

type stubWeather struct {
	message string
}

func (s stubWeather) Current(ctx context.Context, city string) string {
	return fmt.Sprintf(s.message, city)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newTestDispatcher(video domain.VideoSearcher, music domain.MusicSearcher, weather domain.WeatherProvider, now time.Time) *Dispatcher {
	return NewDispatcher(video, music, weather, fixedClock(now), time.Second)
}

func TestDispatchGetTimeAtMockedClock(t *testing.T) {
	now := time.Date(2025, time.March, 14, 14, 5, 0, 0, time.UTC)
	d := newTestDispatcher(stubVideo{}, stubMusic{}, stubWeather{}, now)

	result := d.Dispatch(context.Background(), []domain.Command{domain.GetTime{}})

	require.Equal(t, []string{"The current time is 02:05 PM."}, result.Confirmations)
	assert.Empty(t, result.Instructions)
}

func TestDispatchDateKinds(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	d := newTestDispatcher(stubVideo{}, stubMusic{}, stubWeather{}, now)

	result := d.Dispatch(context.Background(), []domain.Command{
		domain.GetDate{Kind: domain.DateFull},
		domain.GetDate{Kind: domain.DateYear},
		domain.GetDate{Kind: domain.DateLastYear},
		domain.GetDate{Kind: domain.DateOther},
	})

	require.Equal(t, []string{
		"Today is Friday, March 14, 2025.",
		"The current year is 2025.",
		"Last year was 2024.",
		"The date today is 2025-03-14.",
	}, result.Confirmations)
	assert.Empty(t, result.Instructions)
}

func TestDispatchConfirmationOrderMatchesInputOrder(t *testing.T) {
	// The video provider is the slowest call; its confirmation must still
	// come first because it was the first command.
	d := newTestDispatcher(
		stubVideo{result: domain.MediaResult{URL: "https://www.youtube.com/embed/abc", Message: "Playing the top result for 'lofi' on YouTube."}, delay: 50 * time.Millisecond},
		stubMusic{result: domain.MediaResult{Message: "Sorry, I couldn't find the song 'x' on Spotify."}},
		stubWeather{message: "The weather in %s is fine."},
		time.Now(),
	)

	result := d.Dispatch(context.Background(), []domain.Command{
		domain.PlayVideo{Query: "lofi"},
		domain.GetWeather{City: "london"},
		domain.PlaySong{Query: "x"},
	})

	require.Equal(t, []string{
		"Playing the top result for 'lofi' on YouTube.",
		"The weather in london is fine.",
		"Sorry, I couldn't find the song 'x' on Spotify.",
	}, result.Confirmations)

	require.Len(t, result.Instructions, 1)
	assert.JSONEq(t, `{"open_url":"https://www.youtube.com/embed/abc"}`, string(result.Instructions[0]))
}

func TestDispatchVideoWithoutURLYieldsNoInstruction(t *testing.T) {
	d := newTestDispatcher(
		stubVideo{result: domain.MediaResult{Message: "couldn't find any YouTube videos for 'lofi'."}},
		stubMusic{}, stubWeather{}, time.Now(),
	)

	result := d.Dispatch(context.Background(), []domain.Command{domain.PlayVideo{Query: "lofi"}})

	require.Equal(t, []string{"couldn't find any YouTube videos for 'lofi'."}, result.Confirmations)
	assert.Empty(t, result.Instructions)
}

func TestDispatchPassThroughCommandsAreForwardedUnchanged(t *testing.T) {
	d := newTestDispatcher(stubVideo{}, stubMusic{}, stubWeather{}, time.Now())

	rawUnknown := json.RawMessage(`{"teleport":"mars"}`)
	result := d.Dispatch(context.Background(), []domain.Command{
		domain.SearchWeb{Query: "golang"},
		domain.OpenWebsite{Name: "wikipedia"},
		domain.SendMessage{Number: "+123", Message: "hey"},
		domain.Unknown{Raw: rawUnknown},
	})

	assert.Empty(t, result.Confirmations)
	require.Len(t, result.Instructions, 4)
	assert.JSONEq(t, `{"search_google":"golang"}`, string(result.Instructions[0]))
	assert.JSONEq(t, `{"open_website":"wikipedia"}`, string(result.Instructions[1]))
	assert.JSONEq(t, `{"send_whatsapp":{"number":"+123","message":"hey"}}`, string(result.Instructions[2]))
	assert.JSONEq(t, `{"teleport":"mars"}`, string(result.Instructions[3]))
}

func TestDispatchMixedBatchKeepsBothOrders(t *testing.T) {
	now := time.Date(2025, time.March, 14, 14, 5, 0, 0, time.UTC)
	d := newTestDispatcher(
		stubVideo{result: domain.MediaResult{URL: "https://www.youtube.com/embed/v1", Message: "Playing video."}, delay: 20 * time.Millisecond},
		stubMusic{result: domain.MediaResult{URL: "https://open.spotify.com/embed/track/t1", Message: "Playing song."}},
		stubWeather{message: "The weather in %s is fine."},
		now,
	)

	result := d.Dispatch(context.Background(), []domain.Command{
		domain.OpenWebsite{Name: "github"},
		domain.PlayVideo{Query: "talks"},
		domain.GetTime{},
		domain.PlaySong{Query: "song"},
	})

	require.Equal(t, []string{
		"Playing video.",
		"The current time is 02:05 PM.",
		"Playing song.",
	}, result.Confirmations)

	require.Len(t, result.Instructions, 3)
	assert.JSONEq(t, `{"open_website":"github"}`, string(result.Instructions[0]))
	assert.JSONEq(t, `{"open_url":"https://www.youtube.com/embed/v1"}`, string(result.Instructions[1]))
	assert.JSONEq(t, `{"open_url":"https://open.spotify.com/embed/track/t1"}`, string(result.Instructions[2]))
}
