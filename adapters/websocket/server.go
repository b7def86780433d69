package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ArjunDas2003/ai-chatbot/adapters/tts"
	"github.com/ArjunDas2003/ai-chatbot/domain"
	"github.com/ArjunDas2003/ai-chatbot/utils/log"
)

// Server subscribes to completed chat turns and pushes each one to the
// speaking user's open websocket sessions, optionally followed by a binary
// frame with the synthesized speech.
type Server struct {
	upgrader websocket.Upgrader
	broker   domain.MessageBroker
	tts      *tts.GoogleTTS
	hub      *Hub
}

// NewServer wires the hub and starts the turn listener. tts may be nil when
// spoken replies are disabled.
func NewServer(broker domain.MessageBroker, googleTTS *tts.GoogleTTS) *Server {
	server := &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		broker:   broker,
		tts:      googleTTS,
		hub:      NewHub(),
	}

	go server.startTurnListener()

	return server
}

func (s *Server) RunWebsocketHub() {
	s.hub.Run()
}

func (s *Server) GetHub() *Hub {
	return s.hub
}

// startTurnListener forwards TurnEvents from the broker to the right user's
// sessions.
func (s *Server) startTurnListener() {
	ctx := context.Background()

	messageChan, err := s.broker.Subscribe(ctx, domain.TurnTopic, "")
	if err != nil {
		log.WithCtx(ctx).Error("subscribing to turn topic", zap.Error(err))
		return
	}

	log.WithCtx(ctx).Info("websocket server listening for chat turns")

	for {
		select {
		case msg, ok := <-messageChan:
			if !ok {
				log.WithCtx(ctx).Info("turn listener stopped, broker closed")
				return
			}

			var event domain.TurnEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				log.WithCtx(ctx).Error("unmarshaling turn event", zap.Error(err))
				continue
			}

			if !s.hub.IsUserConnected(event.UserID) {
				continue
			}

			wsMessage, err := json.Marshal(map[string]interface{}{
				"type":       "turn",
				"request_id": event.RequestID,
				"user":       event.UserMessage,
				"action":     event.Action,
				"speech":     event.Speech,
				"timestamp":  event.Timestamp,
			})
			if err != nil {
				log.WithCtx(ctx).Error("marshaling websocket message", zap.Error(err))
				continue
			}

			s.hub.SendTextToUser(event.UserID, wsMessage)
			log.WithCtx(ctx).Debug("pushed turn to websocket sessions",
				zap.Int("user_id", event.UserID),
				zap.String("request_id", event.RequestID))

			if s.tts != nil && event.Speech != "" {
				s.speak(ctx, event)
			}

		case <-ctx.Done():
			log.WithCtx(ctx).Info("turn listener stopped")
			return
		}
	}
}

func (s *Server) speak(ctx context.Context, event domain.TurnEvent) {
	audio, err := s.tts.Synthesize(ctx, event.Speech)
	if err != nil {
		log.WithCtx(ctx).Error("synthesizing reply speech", zap.Error(err))
		return
	}
	s.hub.SendBinaryToUser(event.UserID, audio)
}
