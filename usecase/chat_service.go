package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ArjunDas2003/ai-chatbot/domain"
	"github.com/ArjunDas2003/ai-chatbot/utils/log"
)

// ChatService runs one chat turn end to end: load history, prompt the model,
// parse its output, dispatch any commands, assemble the reply, and persist
// the turn. The broker is optional; when present, each completed turn is
// published as a TurnEvent for live listeners.
type ChatService struct {
	llm        domain.Llm
	store      domain.HistoryStore
	dispatcher *Dispatcher
	broker     domain.MessageBroker
	clock      Clock
}

func NewChatService(llm domain.Llm, store domain.HistoryStore, dispatcher *Dispatcher, broker domain.MessageBroker) *ChatService {
	return &ChatService{
		llm:        llm,
		store:      store,
		dispatcher: dispatcher,
		broker:     broker,
		clock:      time.Now,
	}
}

// HandleTurn processes one user message and returns the assembled reply.
// Errors are returned only for the two caller-visible failure classes: the
// model output being unusable (*domain.ParseError) and anything unexpected.
// The history row is appended only after a reply has been fully assembled, so
// a failed turn never leaves a phantom entry.
func (s *ChatService) HandleTurn(ctx context.Context, userID int, requestID, message string) (domain.Reply, error) {
	history, err := s.store.ReadAll(ctx, userID)
	if err != nil {
		// An unreadable history degrades the model's context, not the turn.
		log.WithCtx(ctx).Warn("reading history", zap.Error(err))
		history = nil
	}

	prompt := BuildPrompt(s.clock(), history, message)
	rawText, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("generating model response: %w", err)
	}

	parsed, err := Parse(rawText)
	if err != nil {
		return domain.Reply{}, err
	}

	var dispatch domain.DispatchResult
	if parsed.Kind == domain.KindInstruction {
		dispatch = s.dispatcher.Dispatch(ctx, parsed.Commands)
	}

	reply, botText := Assemble(parsed, dispatch)

	if err := s.store.Append(ctx, userID, message, botText); err != nil {
		// The reply already exists; losing the history row is not worth
		// failing the turn over.
		log.WithCtx(ctx).Error("appending history", zap.Error(err))
	}

	s.publishTurn(ctx, userID, requestID, message, reply)
	return reply, nil
}

// History returns the caller's full ordered conversation log.
func (s *ChatService) History(ctx context.Context, userID int) ([]domain.HistoryEntry, error) {
	return s.store.ReadAll(ctx, userID)
}

// ClearHistory wipes the caller's conversation log.
func (s *ChatService) ClearHistory(ctx context.Context, userID int) error {
	return s.store.ClearAll(ctx, userID)
}

func (s *ChatService) publishTurn(ctx context.Context, userID int, requestID, message string, reply domain.Reply) {
	if s.broker == nil {
		return
	}

	event := domain.TurnEvent{
		UserID:      userID,
		RequestID:   requestID,
		UserMessage: message,
		Action:      reply.Action,
		Timestamp:   s.clock(),
	}
	if reply.Speech != nil {
		event.Speech = *reply.Speech
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.WithCtx(ctx).Error("marshaling turn event", zap.Error(err))
		return
	}
	if err := s.broker.Publish(ctx, domain.TurnTopic, requestID, payload); err != nil {
		log.WithCtx(ctx).Error("publishing turn event", zap.Error(err))
	}
}
