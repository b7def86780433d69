package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

type stubLlm struct {
	text   string
	err    error
	prompt string
}

func (s *stubLlm) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

type appended struct {
	userID      int
	userMessage string
	botResponse string
}

type memStore struct {
	entries  map[int][]domain.HistoryEntry
	appends  []appended
	readErr  error
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{entries: map[int][]domain.HistoryEntry{}}
}

func (s *memStore) Append(ctx context.Context, userID int, userMessage, botResponse string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.appends = append(s.appends, appended{userID, userMessage, botResponse})
	s.entries[userID] = append(s.entries[userID], domain.HistoryEntry{
		UserMessage: userMessage,
		BotResponse: botResponse,
		Timestamp:   time.Now(),
	})
	return nil
}

func (s *memStore) ReadAll(ctx context.Context, userID int) ([]domain.HistoryEntry, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.entries[userID], nil
}

func (s *memStore) ClearAll(ctx context.Context, userID int) error {
	delete(s.entries, userID)
	return nil
}

type recordingBroker struct {
	published []domain.Message
}

func (b *recordingBroker) Publish(ctx context.Context, topic, routingKey string, message []byte) error {
	b.published = append(b.published, domain.Message{Topic: topic, RoutingKey: routingKey, Payload: message})
	return nil
}

func (b *recordingBroker) Subscribe(ctx context.Context, topic, routingKey string) (<-chan domain.Message, error) {
	return nil, errors.New("not implemented")
}

func (b *recordingBroker) Close() error { return nil }

func newTestService(model domain.Llm, store domain.HistoryStore, broker domain.MessageBroker) *ChatService {
	dispatcher := NewDispatcher(
		stubVideo{result: domain.MediaResult{Message: "no video"}},
		stubMusic{result: domain.MediaResult{Message: "no song"}},
		stubWeather{message: "The weather in %s is fine."},
		fixedClock(time.Date(2025, time.March, 14, 14, 5, 0, 0, time.UTC)),
		time.Second,
	)
	return NewChatService(model, store, dispatcher, broker)
}

func TestHandleTurnConversationAppendsHistory(t *testing.T) {
	store := newMemStore()
	model := &stubLlm{text: `{"action":"conversation","speech":"Hello!"}`}
	svc := newTestService(model, store, nil)

	reply, err := svc.HandleTurn(context.Background(), 7, "req-1", "hi")
	require.NoError(t, err)

	assert.Equal(t, domain.ActionConversation, reply.Action)
	require.Len(t, store.appends, 1)
	assert.Equal(t, appended{7, "hi", "Hello!"}, store.appends[0])
}

func TestHandleTurnPassThroughWritesExecutingInstruction(t *testing.T) {
	store := newMemStore()
	model := &stubLlm{text: `{"action":"instruction","instruction":[{"open_website":"wikipedia"}]}`}
	svc := newTestService(model, store, nil)

	reply, err := svc.HandleTurn(context.Background(), 7, "req-1", "open wikipedia")
	require.NoError(t, err)

	assert.Equal(t, domain.ActionInstruction, reply.Action)
	assert.Nil(t, reply.Speech)
	require.Len(t, store.appends, 1)
	assert.Equal(t, "Executing instruction.", store.appends[0].botResponse)
}

func TestHandleTurnParseFailureWritesNoHistory(t *testing.T) {
	store := newMemStore()
	model := &stubLlm{text: `Sure! {"action":"conversation"`}
	svc := newTestService(model, store, nil)

	_, err := svc.HandleTurn(context.Background(), 7, "req-1", "hi")
	require.Error(t, err)

	var parseErr *domain.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Empty(t, store.appends, "a failed turn must not leave a phantom history entry")
}

func TestHandleTurnModelFailureWritesNoHistory(t *testing.T) {
	store := newMemStore()
	model := &stubLlm{err: errors.New("backend down")}
	svc := newTestService(model, store, nil)

	_, err := svc.HandleTurn(context.Background(), 7, "req-1", "hi")
	require.Error(t, err)

	var parseErr *domain.ParseError
	assert.False(t, errors.As(err, &parseErr), "model failure is not a parse error")
	assert.Empty(t, store.appends)
}

func TestHandleTurnUnreadableHistoryStillAnswers(t *testing.T) {
	store := newMemStore()
	store.readErr = errors.New("disk gone")
	model := &stubLlm{text: `{"action":"conversation","speech":"Hello!"}`}
	svc := newTestService(model, store, nil)

	reply, err := svc.HandleTurn(context.Background(), 7, "req-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionConversation, reply.Action)
}

func TestHandleTurnPublishesTurnEvent(t *testing.T) {
	store := newMemStore()
	broker := &recordingBroker{}
	model := &stubLlm{text: `{"action":"conversation","speech":"Hello!"}`}
	svc := newTestService(model, store, broker)

	_, err := svc.HandleTurn(context.Background(), 7, "req-1", "hi")
	require.NoError(t, err)

	require.Len(t, broker.published, 1)
	assert.Equal(t, domain.TurnTopic, broker.published[0].Topic)
	assert.Equal(t, "req-1", broker.published[0].RoutingKey)
	assert.Contains(t, string(broker.published[0].Payload), `"speech":"Hello!"`)
}

func TestHandleTurnPromptCarriesHistoryAndQuery(t *testing.T) {
	store := newMemStore()
	store.entries[7] = []domain.HistoryEntry{
		{UserMessage: "play a random video", BotResponse: "Playing the top result for 'space' on YouTube."},
	}
	model := &stubLlm{text: `{"action":"conversation","speech":"ok"}`}
	svc := newTestService(model, store, nil)

	_, err := svc.HandleTurn(context.Background(), 7, "req-1", "another one")
	require.NoError(t, err)

	assert.Contains(t, model.prompt, "User: play a random video")
	assert.Contains(t, model.prompt, "AI: Playing the top result for 'space' on YouTube.")
	assert.Contains(t, model.prompt, `User: "another one"`)
}
