package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glucolog/glucolog/internal/api"
	"github.com/glucolog/glucolog/internal/cache"
	"github.com/glucolog/glucolog/internal/config"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/domain"
	"github.com/glucolog/glucolog/internal/logger"
	"github.com/glucolog/glucolog/internal/notifier"
	"github.com/glucolog/glucolog/internal/repository"
	"github.com/glucolog/glucolog/internal/services"
	"github.com/joho/godotenv"
)

// app implements api.App over the concrete services.
type app struct {
	users       domain.UserService
	entries     domain.EntryService
	rules       domain.RuleService
	presets     domain.PresetService
	suggestions domain.SuggestionService
}

func (a *app) Users() domain.UserService             { return a.users }
func (a *app) Entries() domain.EntryService          { return a.entries }
func (a *app) Rules() domain.RuleService             { return a.rules }
func (a *app) Presets() domain.PresetService         { return a.presets }
func (a *app) Suggestions() domain.SuggestionService { return a.suggestions }

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	logger.Info("Starting glucolog service")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	presetRepo := repository.NewPresetRepository(db)
	basalRepo := repository.NewBasalRepository(db)

	// Suggestion cache: Redis when configured, in-process otherwise.
	var suggestionCache cache.SuggestionCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		suggestionCache = redisCache
		logger.Info("Using Redis suggestion cache")
	} else {
		suggestionCache = cache.NewMemoryCache()
		logger.Info("Using in-memory suggestion cache")
	}

	// Optional Telegram notification channel.
	var notify notifier.Notifier = notifier.Noop{}
	if cfg.Telegram.Token != "" {
		tg, err := notifier.NewTelegram(cfg.Telegram.Token)
		if err != nil {
			logger.Fatalf("Failed to init Telegram notifier: %v", err)
		}
		notify = tg
	}

	// Services
	userService := services.NewUserService(userRepo)
	suggestionService := services.NewSuggestionService(ruleRepo, entryRepo, presetRepo, basalRepo, suggestionCache)
	entryService := services.NewEntryService(entryRepo, userRepo, suggestionService, suggestionCache, notify)
	ruleService := services.NewRuleService(ruleRepo, presetRepo, suggestionCache)
	presetService := services.NewPresetService(presetRepo, basalRepo, suggestionCache)
	logger.Info("Services initialized")

	router := api.NewRouter(&app{
		users:       userService,
		entries:     entryService,
		rules:       ruleService,
		presets:     presetService,
		suggestions: suggestionService,
	})

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
}
