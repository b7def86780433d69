package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

func TestParseConversationPassesSpeechThrough(t *testing.T) {
	parsed, err := Parse(`{"action":"conversation","speech":"Hello there!"}`)
	require.NoError(t, err)

	assert.Equal(t, domain.KindConversation, parsed.Kind)
	assert.Equal(t, "Hello there!", parsed.Speech)
}

func TestParseStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"action\":\"conversation\",\"speech\":\"hi\"}\n```"
	parsed, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "hi", parsed.Speech)
}

func TestParseTruncatedJSONIsMalformed(t *testing.T) {
	_, err := Parse(`Sure! {"action":"conversation"`)
	require.Error(t, err)

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, domain.ParseMalformed, parseErr.Kind)
	assert.Contains(t, parseErr.Raw, "Sure!")
}

func TestParseUnknownShapes(t *testing.T) {
	cases := map[string]string{
		"no action":                   `{"speech":"hi"}`,
		"unrecognized action":         `{"action":"sing","speech":"la"}`,
		"instruction without list":    `{"action":"instruction"}`,
		"conversation without speech": `{"action":"conversation"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(raw)
			var parseErr *domain.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, domain.ParseUnknownShape, parseErr.Kind)
		})
	}
}

func TestParseCommandVocabulary(t *testing.T) {
	raw := `{"action":"instruction","instruction":[
		{"play_youtube_direct":"lofi"},
		{"play_spotify_direct":"Stairway to Heaven"},
		{"search_google":"weather models"},
		{"get_time":"current"},
		{"get_date":"year"},
		{"get_weather":"paris"},
		{"open_website":"wikipedia"},
		{"send_whatsapp":{"number":"+123","message":"hey"}}
	]}`

	parsed, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, domain.KindInstruction, parsed.Kind)
	require.Len(t, parsed.Commands, 8)

	assert.Equal(t, domain.PlayVideo{Query: "lofi"}, parsed.Commands[0])
	assert.Equal(t, domain.PlaySong{Query: "Stairway to Heaven"}, parsed.Commands[1])
	assert.Equal(t, domain.SearchWeb{Query: "weather models"}, parsed.Commands[2])
	assert.Equal(t, domain.GetTime{}, parsed.Commands[3])
	assert.Equal(t, domain.GetDate{Kind: domain.DateYear}, parsed.Commands[4])
	assert.Equal(t, domain.GetWeather{City: "paris"}, parsed.Commands[5])
	assert.Equal(t, domain.OpenWebsite{Name: "wikipedia"}, parsed.Commands[6])
	assert.Equal(t, domain.SendMessage{Number: "+123", Message: "hey"}, parsed.Commands[7])
}

func TestParseOneBadCommandDoesNotFailTheList(t *testing.T) {
	raw := `{"action":"instruction","instruction":[
		{"get_time":"current"},
		{"get_weather":"london"},
		{"teleport":"mars"},
		{"open_website":"github"},
		{"search_google":"golang"}
	]}`

	parsed, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Commands, 5)

	unknown, ok := parsed.Commands[2].(domain.Unknown)
	require.True(t, ok, "unrecognized element should become Unknown, got %T", parsed.Commands[2])
	assert.JSONEq(t, `{"teleport":"mars"}`, string(unknown.Raw))

	for i, cmd := range parsed.Commands {
		if i == 2 {
			continue
		}
		_, isUnknown := cmd.(domain.Unknown)
		assert.False(t, isUnknown, "command %d should be typed", i)
	}
}

func TestParseDateKindNormalization(t *testing.T) {
	parsed, err := Parse(`{"action":"instruction","instruction":[{"get_date":"tomorrow"}]}`)
	require.NoError(t, err)

	assert.Equal(t, domain.GetDate{Kind: domain.DateOther}, parsed.Commands[0])
}

func TestParseNonObjectElementsBecomeUnknown(t *testing.T) {
	raw := `{"action":"instruction","instruction":["just a string",{"a":1,"b":2}]}`
	parsed, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Commands, 2)

	for _, cmd := range parsed.Commands {
		_, ok := cmd.(domain.Unknown)
		assert.True(t, ok)
	}
}

func TestParseEmptyInstructionListIsValid(t *testing.T) {
	parsed, err := Parse(`{"action":"instruction","instruction":[]}`)
	require.NoError(t, err)
	assert.Equal(t, domain.KindInstruction, parsed.Kind)
	assert.Empty(t, parsed.Commands)
}
