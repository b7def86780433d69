package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ArjunDas2003/ai-chatbot/domain"
	"github.com/ArjunDas2003/ai-chatbot/usecase"
	"github.com/ArjunDas2003/ai-chatbot/utils/log"
)

const (
	JWTExpiry = 24 * time.Hour

	// Rate limiting
	MaxConcurrent = 10
)

// Fixed conversational fallbacks: clients never see a raw error, both
// failure classes degrade to an apologetic conversation reply.
const (
	parseApology      = "I'm having a little trouble understanding. Could you rephrase that?"
	unexpectedApology = "I'm sorry, an unexpected error occurred. Please try again."
)

type ChatHandler struct {
	chatService *usecase.ChatService
	apiKey      string
	apiSecret   string
	jwtSecret   []byte
}

type ChatRequest struct {
	Message string `json:"message"`
}

type TokenRequest struct {
	UserID int `json:"user_id"`
}

type HistoryEntryResponse struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

type JWTClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

func NewChatHandler(chatService *usecase.ChatService, apiKey, apiSecret string, jwtSecret []byte) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		jwtSecret:   jwtSecret,
	}
}

// GenerateJWT exchanges the API key pair for a bearer token carrying the
// user identity the chat routes operate on.
func (h *ChatHandler) GenerateJWT(c echo.Context) error {
	key := c.Request().Header.Get("X-API-Key")
	secret := c.Request().Header.Get("X-API-Secret")

	if h.apiKey == "" || key != h.apiKey || secret != h.apiSecret {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	var req TokenRequest
	if err := c.Bind(&req); err != nil || req.UserID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "A positive user_id is required")
	}

	claims := &JWTClaims{
		UserID: req.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "ai-chatbot",
			Subject:   "chat",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		log.WithCtx(c.Request().Context()).Error("signing JWT", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"token": tokenString,
		"type":  "Bearer",
	})
}

// JWTMiddleware authenticates the bearer token and exposes user_id to the
// downstream handler. Shared by the chat routes and the websocket endpoint.
func (h *ChatHandler) JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.jwtSecret, nil
		})
		if err != nil {
			log.WithCtx(c.Request().Context()).Warn("JWT validation", zap.Error(err))
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
			c.Set("user_id", claims.UserID)
			return next(c)
		}

		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
	}
}

// RateLimitMiddleware bounds in-flight requests per route group.
func (h *ChatHandler) RateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	semaphore := make(chan struct{}, MaxConcurrent)
	return func(c echo.Context) error {
		select {
		case semaphore <- struct{}{}:
			defer func() { <-semaphore }()
			return next(c)
		default:
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many concurrent requests")
		}
	}
}

// Chat runs one assistant turn for the authenticated user.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No message provided"})
	}

	userID := c.Get("user_id").(int)
	requestID := uuid.NewString()
	ctx := requestContext(c, userID, requestID)

	reply, err := h.chatService.HandleTurn(ctx, userID, requestID, req.Message)
	if err != nil {
		var parseErr *domain.ParseError
		if errors.As(err, &parseErr) {
			log.WithCtx(ctx).Error("unusable model output",
				zap.Error(parseErr), zap.String("raw", parseErr.Raw))
			return c.JSON(http.StatusInternalServerError, conversationReply(parseApology))
		}
		log.WithCtx(ctx).Error("chat turn failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, conversationReply(unexpectedApology))
	}

	return c.JSON(http.StatusOK, reply)
}

// History returns the caller's ordered conversation log, oldest first.
func (h *ChatHandler) History(c echo.Context) error {
	userID := c.Get("user_id").(int)
	ctx := requestContext(c, userID, uuid.NewString())

	entries, err := h.chatService.History(ctx, userID)
	if err != nil {
		log.WithCtx(ctx).Error("reading history", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read history")
	}

	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HistoryEntryResponse{User: entry.UserMessage, Bot: entry.BotResponse})
	}
	return c.JSON(http.StatusOK, out)
}

// ClearHistory wipes the caller's conversation log.
func (h *ChatHandler) ClearHistory(c echo.Context) error {
	userID := c.Get("user_id").(int)
	ctx := requestContext(c, userID, uuid.NewString())

	if err := h.chatService.ClearHistory(ctx, userID); err != nil {
		log.WithCtx(ctx).Error("clearing history", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear history")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "History cleared successfully."})
}

// HealthCheck endpoint.
func (h *ChatHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "ai-chatbot",
	})
}

func conversationReply(speech string) domain.Reply {
	return domain.Reply{Action: domain.ActionConversation, Speech: &speech}
}

func requestContext(c echo.Context, userID int, requestID string) context.Context {
	ctx := context.WithValue(c.Request().Context(), "user_id", userID)
	return context.WithValue(ctx, "request_id", requestID)
}
