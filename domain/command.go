package domain

import "encoding/json"

// Wire names of the command objects the model is allowed to emit. Each
// instruction element is a single-key JSON object keyed by one of these.
const (
	CmdPlayVideo   = "play_youtube_direct"
	CmdPlaySong    = "play_spotify_direct"
	CmdSearchWeb   = "search_google"
	CmdGetTime     = "get_time"
	CmdGetDate     = "get_date"
	CmdGetWeather  = "get_weather"
	CmdOpenWebsite = "open_website"
	CmdSendMessage = "send_whatsapp"
	CmdOpenURL     = "open_url"
)

// Command is one structured action extracted from model output. A command is
// either executed server-side (it yields a confirmation sentence and possibly
// a derived open_url instruction) or passed through untouched for the client
// to execute; never both.
//
// Keeping commands as plain data makes dispatch deterministic and testable.
type Command interface {
	isCommand()
}

// PlayVideo asks for a video search; the top embeddable result is opened
// client-side.
type PlayVideo struct {
	Query string
}

// PlaySong asks for a music track search.
type PlaySong struct {
	Query string
}

// SearchWeb is a pass-through web search, executed by the client.
type SearchWeb struct {
	Query string
}

// GetTime asks for the current wall-clock time.
type GetTime struct{}

// DateKind selects the phrasing of a date query.
type DateKind string

const (
	DateFull     DateKind = "full_date"
	DateYear     DateKind = "year"
	DateLastYear DateKind = "last_year"
	DateOther    DateKind = "other"
)

// NormalizeDateKind maps any model-provided date query onto the closed kind
// set. Unrecognized values fall back to DateOther, never an error.
func NormalizeDateKind(s string) DateKind {
	switch DateKind(s) {
	case DateFull, DateYear, DateLastYear:
		return DateKind(s)
	default:
		return DateOther
	}
}

// GetDate asks for the current date in one of the DateKind phrasings.
type GetDate struct {
	Kind DateKind
}

// GetWeather asks for current conditions in a city.
type GetWeather struct {
	City string
}

// OpenWebsite is a pass-through command opening a named site client-side.
type OpenWebsite struct {
	Name string
}

// SendMessage is a pass-through WhatsApp send, executed by the client.
type SendMessage struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

// Unknown wraps any instruction element whose shape is not recognized. It is
// forwarded to the client verbatim so new command types survive the trip even
// before the server learns about them.
type Unknown struct {
	Raw json.RawMessage
}

func (PlayVideo) isCommand()   {}
func (PlaySong) isCommand()    {}
func (SearchWeb) isCommand()   {}
func (GetTime) isCommand()     {}
func (GetDate) isCommand()     {}
func (GetWeather) isCommand()  {}
func (OpenWebsite) isCommand() {}
func (SendMessage) isCommand() {}
func (Unknown) isCommand()     {}
