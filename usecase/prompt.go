package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

// systemPrompt instructs the model to classify each query into the JSON
// response contract, using the conversation history to resolve vague
// follow-ups. %s receives the current date.
const systemPrompt = `You are a conversation-aware AI assistant. Analyze the user's query, considering the entire conversation history, and convert it into a specific JSON command. The current date is %s. Respond with a single, minified JSON object ONLY.

If the user wants you to do something (play, search, get info), respond with:
{"action":"instruction","instruction":[<command objects>]}

If the user is making small talk or asking a general question, respond with:
{"action":"conversation","speech":"<your friendly reply>"}

Use the conversation history to resolve vague follow-ups such as "another one" or "what about paris?" by repeating or modifying the last executed command. When a play request names no specific title, invent a concrete, relevant search term yourself rather than emitting a placeholder.

Supported command objects:
- {"play_youtube_direct": "video_name"}
- {"play_spotify_direct": "song_or_artist_name"}
- {"search_google": "search_term"}
- {"get_time": "current"}
- {"get_date": "query"} (one of "full_date", "year", "last_year")
- {"get_weather": "city_name"}
- {"open_website": "website_name"}
- {"send_whatsapp": {"number": "phone_number", "message": "your_message"}}`

// BuildPrompt serializes the system instructions, the user's history, and the
// current query into the single prompt string handed to the model.
func BuildPrompt(now time.Time, history []domain.HistoryEntry, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, systemPrompt, now.Format(fullDateLayout))

	b.WriteString("\n\n--- Conversation History ---\n")
	for i, entry := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "User: %s\nAI: %s", entry.UserMessage, entry.BotResponse)
	}

	fmt.Fprintf(&b, "\n\n--- Current Query ---\nUser: %q", query)
	return b.String()
}
