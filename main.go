package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/peoplebot-poc/server/internal/agent/graph"
	"github.com/peoplebot-poc/server/internal/agent/model"
	"github.com/peoplebot-poc/server/internal/agent/repo"
	"github.com/peoplebot-poc/server/internal/core"
	"github.com/peoplebot-poc/server/internal/server"
	"github.com/peoplebot-poc/server/internal/sheets"
	logx "github.com/peoplebot-poc/server/pkg/logger"
	pkgredis "github.com/peoplebot-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8080"`

	// Infrastructure
	Redis  pkgredis.Config
	Sheets sheets.Config

	// Agent configs
	AnswerModel  model.AnswerModelConfig
	People       model.PeopleConfig
	Conversation model.ConversationConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	// People table source behind the TTL cache
	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise sheets client")
	}
	source := sheets.NewTableCache(sheetsClient, time.Duration(cfg.Sheets.CacheTTLMS)*time.Millisecond)

	// Conversation history is optional; without Redis the bot is stateless
	// across turns.
	var conversationRepo model.ConversationRepository
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to initialise Redis client")
		}
		defer rdb.Close()

		ttl, err := time.ParseDuration(cfg.Conversation.TTL)
		if err != nil {
			logx.Fatal().Str("ttl", cfg.Conversation.TTL).Err(err).Msg("invalid CONVERSATION_TTL")
		}
		conversationRepo = repo.NewRedisConversationRepository(rdb, ttl)
		logx.Info().Msg("conversation history enabled")
	} else {
		logx.Info().Msg("no REDIS_URL configured, conversation history disabled")
	}

	runner, err := graph.BuildAnswerGraph(ctx, graph.Config{
		AnswerModel:      cfg.AnswerModel,
		People:           cfg.People,
		Conversation:     cfg.Conversation,
		Source:           source,
		ConversationRepo: conversationRepo,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build answer graph")
	}

	router := server.NewRouter(server.NewHandler(runner))

	logx.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("starting server")
	if err := router.Run(":" + cfg.Port); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}
