package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

// DefaultProviderTimeout bounds each individual provider call. A provider
// that blocks past this deadline is abandoned and contributes its fallback
// sentence only.
const DefaultProviderTimeout = 10 * time.Second

// Dispatcher executes parsed command lists against the injected providers.
type Dispatcher struct {
	video   domain.VideoSearcher
	music   domain.MusicSearcher
	weather domain.WeatherProvider
	clock   Clock
	timeout time.Duration
}

func NewDispatcher(video domain.VideoSearcher, music domain.MusicSearcher, weather domain.WeatherProvider, clock Clock, timeout time.Duration) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Dispatcher{
		video:   video,
		music:   music,
		weather: weather,
		clock:   clock,
		timeout: timeout,
	}
}

// slot holds the per-command outcome before reassembly. Results are written
// by index so the output order is the input order no matter how provider
// latencies interleave.
type slot struct {
	confirmation string
	confirmed    bool
	instruction  domain.Instruction
}

// Dispatch executes every command in input order semantics: commands needing
// a remote provider run concurrently, each behind its own bounded-timeout
// context, and results are stitched back together by position. A failing or
// slow provider degrades to its fallback message and never disturbs the other
// commands. No call is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, commands []domain.Command) domain.DispatchResult {
	slots := make([]slot, len(commands))
	var wg sync.WaitGroup

	for i, command := range commands {
		switch cmd := command.(type) {
		case domain.GetTime:
			slots[i] = slot{confirmation: timeConfirmation(d.clock()), confirmed: true}

		case domain.GetDate:
			slots[i] = slot{confirmation: dateConfirmation(d.clock(), cmd.Kind), confirmed: true}

		case domain.GetWeather:
			wg.Add(1)
			go func(i int, city string) {
				defer wg.Done()
				callCtx, cancel := context.WithTimeout(ctx, d.timeout)
				defer cancel()
				slots[i] = slot{confirmation: d.weather.Current(callCtx, city), confirmed: true}
			}(i, cmd.City)

		case domain.PlayVideo:
			wg.Add(1)
			go func(i int, query string) {
				defer wg.Done()
				callCtx, cancel := context.WithTimeout(ctx, d.timeout)
				defer cancel()
				slots[i] = mediaSlot(d.video.Search(callCtx, query))
			}(i, cmd.Query)

		case domain.PlaySong:
			wg.Add(1)
			go func(i int, query string) {
				defer wg.Done()
				callCtx, cancel := context.WithTimeout(ctx, d.timeout)
				defer cancel()
				slots[i] = mediaSlot(d.music.Search(callCtx, query))
			}(i, cmd.Query)

		case domain.SearchWeb:
			slots[i] = slot{instruction: singleKey(domain.CmdSearchWeb, cmd.Query)}

		case domain.OpenWebsite:
			slots[i] = slot{instruction: singleKey(domain.CmdOpenWebsite, cmd.Name)}

		case domain.SendMessage:
			slots[i] = slot{instruction: singleKey(domain.CmdSendMessage, cmd)}

		case domain.Unknown:
			slots[i] = slot{instruction: domain.Instruction(cmd.Raw)}
		}
	}

	wg.Wait()

	result := domain.DispatchResult{
		Confirmations: make([]string, 0, len(commands)),
		Instructions:  make([]domain.Instruction, 0, len(commands)),
	}
	for _, s := range slots {
		if s.confirmed {
			result.Confirmations = append(result.Confirmations, s.confirmation)
		}
		if s.instruction != nil {
			result.Instructions = append(result.Instructions, s.instruction)
		}
	}
	return result
}

func mediaSlot(res domain.MediaResult) slot {
	s := slot{confirmation: res.Message, confirmed: true}
	if res.URL != "" {
		s.instruction = singleKey(domain.CmdOpenURL, res.URL)
	}
	return s
}

// singleKey builds the {"name": value} wire object of one instruction.
func singleKey(name string, value any) domain.Instruction {
	raw, err := json.Marshal(map[string]any{name: value})
	if err != nil {
		// value is always a string or a marshal-safe struct
		panic(fmt.Errorf("marshaling instruction %q: %w", name, err))
	}
	return domain.Instruction(raw)
}
