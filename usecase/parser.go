package usecase

import (
	"encoding/json"
	"strings"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

// rawModelResponse mirrors the JSON object the model is instructed to emit.
// Speech is a pointer so a conversation reply with a missing speech field is
// distinguishable from one with an empty string.
type rawModelResponse struct {
	Action      string            `json:"action"`
	Speech      *string           `json:"speech"`
	Instruction []json.RawMessage `json:"instruction"`
}

// Parse interprets raw model output as a ModelResponse. The text may arrive
// wrapped in markdown code fences; those are stripped before decoding. A
// decode failure yields ParseMalformed, a decoded object that does not match
// the response contract yields ParseUnknownShape. Individual instruction
// elements never fail the parse: anything unrecognized becomes an Unknown
// command and rides along.
func Parse(rawText string) (domain.ModelResponse, error) {
	cleaned := stripFences(rawText)

	var raw rawModelResponse
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return domain.ModelResponse{}, &domain.ParseError{
			Kind: domain.ParseMalformed,
			Raw:  rawText,
			Err:  err,
		}
	}

	switch raw.Action {
	case "conversation":
		if raw.Speech == nil {
			return domain.ModelResponse{}, &domain.ParseError{Kind: domain.ParseUnknownShape, Raw: rawText}
		}
		return domain.ModelResponse{
			Kind:   domain.KindConversation,
			Speech: *raw.Speech,
		}, nil

	case "instruction":
		if raw.Instruction == nil {
			return domain.ModelResponse{}, &domain.ParseError{Kind: domain.ParseUnknownShape, Raw: rawText}
		}
		commands := make([]domain.Command, 0, len(raw.Instruction))
		for _, element := range raw.Instruction {
			commands = append(commands, parseCommand(element))
		}
		return domain.ModelResponse{
			Kind:     domain.KindInstruction,
			Commands: commands,
		}, nil

	default:
		return domain.ModelResponse{}, &domain.ParseError{Kind: domain.ParseUnknownShape, Raw: rawText}
	}
}

// parseCommand maps one instruction element onto a Command variant. The
// element's single key determines the type; anything that doesn't match a
// known shape is preserved verbatim as Unknown so one bad command cannot
// invalidate the rest of the list.
func parseCommand(element json.RawMessage) domain.Command {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(element, &object); err != nil || len(object) != 1 {
		return domain.Unknown{Raw: element}
	}

	var key string
	var value json.RawMessage
	for k, v := range object {
		key, value = k, v
	}

	switch key {
	case domain.CmdGetTime:
		return domain.GetTime{}

	case domain.CmdGetDate:
		var kind string
		if err := json.Unmarshal(value, &kind); err != nil {
			return domain.Unknown{Raw: element}
		}
		return domain.GetDate{Kind: domain.NormalizeDateKind(kind)}

	case domain.CmdPlayVideo:
		if query, ok := asString(value); ok {
			return domain.PlayVideo{Query: query}
		}

	case domain.CmdPlaySong:
		if query, ok := asString(value); ok {
			return domain.PlaySong{Query: query}
		}

	case domain.CmdSearchWeb:
		if query, ok := asString(value); ok {
			return domain.SearchWeb{Query: query}
		}

	case domain.CmdGetWeather:
		if city, ok := asString(value); ok {
			return domain.GetWeather{City: city}
		}

	case domain.CmdOpenWebsite:
		if name, ok := asString(value); ok {
			return domain.OpenWebsite{Name: name}
		}

	case domain.CmdSendMessage:
		var msg domain.SendMessage
		if err := json.Unmarshal(value, &msg); err == nil {
			return msg
		}
	}

	return domain.Unknown{Raw: element}
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// stripFences removes markdown code-fence wrapping the model sometimes adds
// around its JSON.
func stripFences(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
