package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Vovarama1992/saga_tts/internal/config"
	"github.com/Vovarama1992/saga_tts/internal/delivery"
	"github.com/Vovarama1992/saga_tts/internal/domain"
	"github.com/Vovarama1992/saga_tts/internal/error_notificator"
	"github.com/Vovarama1992/saga_tts/internal/health"
	"github.com/Vovarama1992/saga_tts/internal/infra"
	"github.com/Vovarama1992/saga_tts/internal/observe"
	"github.com/Vovarama1992/saga_tts/internal/ports"
	"github.com/Vovarama1992/saga_tts/internal/speech"
	"github.com/Vovarama1992/saga_tts/internal/textrules"
	"github.com/Vovarama1992/saga_tts/internal/voices"
)

const serviceName = "saga_tts"

var version = "dev"

func main() {

	// =========================================================================
	// ENV / CONFIG
	// =========================================================================

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseLogger, err := newZap(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	metrics, shutdownMetrics, err := observe.InitProvider(serviceName, version)
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}
	defer func() { _ = shutdownMetrics(context.Background()) }()

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	var errInfra error_notificator.Notificator = error_notificator.NewLogInfra(zl)
	if cfg.Telegram.Token != "" {
		tg, err := error_notificator.NewTelegramInfra(cfg.Telegram.Token, cfg.Telegram.ChatIDs)
		if err != nil {
			log.Fatalf("telegram alerts: %v", err)
		}
		errInfra = tg
	}
	errService := error_notificator.NewService(errInfra, zl)

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	var checkers []health.Checker

	var store ports.S3Client
	switch cfg.Storage {
	case config.StorageInline:
		store = infra.NewInlineStore()
	default:
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		store, err = infra.NewS3Client(initCtx, infra.S3Config{
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Secure:        cfg.S3.Secure,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		cancel()
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
	}
	checkers = append(checkers, health.Checker{Name: "storage", Check: store.Ping})

	rulesRepo := textrules.NewMemoryRepo(cfg.Letters, cfg.Words)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer db.Close()

		initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(initCtx)
		if err == nil {
			err = textrules.EnsureSchema(initCtx, db)
		}
		cancel()
		if err != nil {
			log.Fatalf("postgres init: %v", err)
		}

		rulesRepo = textrules.NewPostgresRepo(db)
		checkers = append(checkers, health.Checker{Name: "database", Check: db.PingContext})
	}

	// =========================================================================
	// CLIENTS (TTS)
	// =========================================================================

	var tts speech.Synthesizer
	switch cfg.Provider {
	case config.ProviderElevenLabs:
		tts, err = speech.NewElevenLabsClient(cfg.ElevenLabs.APIKey, cfg.ElevenLabs.BaseURL, cfg.ElevenLabs.Model, nil)
	default:
		tts, err = speech.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	}
	if err != nil {
		log.Fatalf("tts client: %v", err)
	}

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	hash, err := voices.HashByName(cfg.VoiceHash)
	if err != nil {
		log.Fatalf("voices: %v", err)
	}
	policy, err := voices.NewPolicy(cfg.VoiceMode, cfg.Library, voices.WithHash(hash))
	if err != nil {
		log.Fatalf("voices: %v", err)
	}
	registry := voices.NewRegistry()

	speechService := speech.NewService(tts, cfg.SynthTimeout)
	s3Service := domain.NewS3Service(store, cfg.S3.KeyPrefix)
	rulesService := textrules.NewService(rulesRepo)

	narrationService := domain.NewNarrationService(domain.NarrationDeps{
		Registry:      registry,
		Policy:        policy,
		Speech:        speechService,
		Storage:       s3Service,
		Rules:         rulesService,
		Notifier:      errService,
		Log:           zl,
		Metrics:       metrics,
		SkipCharacter: cfg.SkipCharacter,
	})

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(observe.Middleware(metrics))

	delivery.RegisterRoutes(r, delivery.Handlers{
		Narration: delivery.NewNarrationHandler(narrationService, zl),
		Voices:    delivery.NewVoiceHandler(registry, policy, zl),
		TextRules: delivery.NewTextRuleHandler(rulesRepo),
		Health:    health.New(checkers...),
		Metrics:   delivery.MetricsHandler(),
	}, cfg.RateLimitPerMinute)

	// =========================================================================
	// START SERVER
	// =========================================================================

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "listening at " + srv.Addr + " (provider " + tts.Name() + ", policy " + string(policy.Mode()) + ")",
			Service: serviceName,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zl.Log(logger.LogEntry{Level: "error", Message: "server stopped", Service: serviceName, Error: err})
		os.Exit(1)
	}
}

// newZap builds a JSON production logger writing to stdout and, when file is
// set, to a rotated log file.
func newZap(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	sink := zapcore.AddSync(os.Stdout)
	if file != "" {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		sink,
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core, zap.AddCaller()), nil
}
