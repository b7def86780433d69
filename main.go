package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/subosito/gotenv"

	adapterhttp "github.com/ArjunDas2003/ai-chatbot/adapters/http"
	"github.com/ArjunDas2003/ai-chatbot/adapters/history"
	"github.com/ArjunDas2003/ai-chatbot/adapters/llm"
	"github.com/ArjunDas2003/ai-chatbot/adapters/message_broker"
	"github.com/ArjunDas2003/ai-chatbot/adapters/providers"
	"github.com/ArjunDas2003/ai-chatbot/adapters/tts"
	"github.com/ArjunDas2003/ai-chatbot/adapters/websocket"
	"github.com/ArjunDas2003/ai-chatbot/domain"
	"github.com/ArjunDas2003/ai-chatbot/usecase"
)

func main() {
	// run owns the defers; log.Fatal here would skip them.
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	gotenv.Load()
	ctx := context.Background()

	// History store: Postgres when DATABASE_URL is set, SQLite otherwise.
	var store domain.HistoryStore
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		pgStore, err := history.NewPostgresStore(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("postgres store: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		sqliteStore, err := history.NewSQLiteStore(getenv("DATABASE", "chatbot.db"))
		if err != nil {
			return fmt.Errorf("sqlite store: %w", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	// Model backend.
	var model domain.Llm
	switch getenv("LLM_PROVIDER", "gemini") {
	case "openai":
		model = llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))
	default:
		model = llm.NewGeminiClient()
	}

	dispatcher := usecase.NewDispatcher(
		providers.NewYouTube(os.Getenv("YOUTUBE_API_KEY")),
		providers.NewSpotify(os.Getenv("SPOTIFY_CLIENT_ID"), os.Getenv("SPOTIFY_CLIENT_SECRET")),
		providers.NewOpenWeather(os.Getenv("WEATHER_API_KEY")),
		nil, 0,
	)

	// Broker: Redis pub/sub when REDIS_URL is set, in-process otherwise.
	var broker domain.MessageBroker
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		broker = message_broker.NewRedisMessageBroker(rdb)
	} else {
		broker = message_broker.NewChannelMessageBroker()
	}
	defer broker.Close()

	svc := usecase.NewChatService(model, store, dispatcher, broker)

	var googleTTS *tts.GoogleTTS
	if os.Getenv("TTS_ENABLED") == "true" {
		googleTTS = tts.NewGoogleTTS()
	}

	server := websocket.NewServer(broker, googleTTS)
	go server.RunWebsocketHub()

	chatHandler := adapterhttp.NewChatHandler(
		svc,
		os.Getenv("API_KEY"),
		os.Getenv("API_SECRET"),
		[]byte(getenv("JWT_SECRET", "change-me-in-production")),
	)

	e := echo.New()

	// Security middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20))) // 20 requests per minute
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // In production, specify exact origins
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"X-API-Key",
			"X-API-Secret",
		},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
	e.Use(middleware.BodyLimit("1MB"))

	// Websocket sessions authenticate with the same JWT as the HTTP API.
	wsGroup := e.Group("/ws")
	wsGroup.Use(chatHandler.JWTMiddleware)
	wsGroup.GET("", server.Handler)

	api := e.Group("/api/v1")

	// Public endpoints (no auth required)
	api.GET("/health", chatHandler.HealthCheck)
	api.POST("/auth/token", chatHandler.GenerateJWT)

	// Chat endpoints (JWT auth required)
	chat := api.Group("")
	chat.Use(chatHandler.JWTMiddleware)
	chat.Use(chatHandler.RateLimitMiddleware)
	chat.POST("/chat", chatHandler.Chat)
	chat.GET("/history", chatHandler.History)
	chat.POST("/history/clear", chatHandler.ClearHistory)

	port := getenv("PORT", "8080")
	log.Printf("Starting server on :%s", port)
	log.Println("Available endpoints:")
	log.Println("  GET  /api/v1/health         - Health check")
	log.Println("  POST /api/v1/auth/token     - Get JWT token")
	log.Println("  POST /api/v1/chat           - Chat turn (JWT required)")
	log.Println("  GET  /api/v1/history        - Conversation history (JWT required)")
	log.Println("  POST /api/v1/history/clear  - Clear history (JWT required)")
	log.Println("  GET  /ws                    - Live turn events (JWT required)")
	return e.Start(":" + port)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
