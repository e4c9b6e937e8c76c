package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bistro/internal/api"
	"bistro/internal/config"
	"bistro/internal/database"
	"bistro/internal/domain"
	"bistro/internal/events"
	"bistro/internal/export"
	"bistro/internal/google"
	"bistro/internal/logging"
	"bistro/internal/metrics"
	"bistro/internal/models"
	"bistro/internal/notify"
	"bistro/internal/repository"
	"bistro/internal/service"
	"bistro/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	slotCache := initSlotCache(redisClient, &logger)

	sheetsService := initGoogleSheets(cfg, &logger)

	var sheetsWorker *worker.SheetsWorker
	if sheetsService != nil {
		sheetsWorker = worker.NewSheetsWorker(db, sheetsService, redisClient, worker.DefaultRetryPolicy(), &logger)
		go sheetsWorker.Start(ctx)
	}

	eventBus := events.NewEventBus()
	initTelegram(cfg, eventBus, &logger)

	reservationService := newReservationService(db, slotCache, eventBus, sheetsWorker, &logger)
	scheduleService := service.NewScheduleService(db, slotCache, eventBus, &logger)
	contentService := service.NewContentService(db, eventBus, &logger)
	exporter := export.NewExporter(db, cfg.Exports.Path, &logger)

	server := api.NewServer(cfg, api.ServerDeps{
		Reservations: reservationService,
		Schedule:     scheduleService,
		Content:      contentService,
		Exporter:     exporter,
		Auth:         api.NewAuth(db, cfg.Auth),
	}, &logger)

	startMetrics(ctx, cfg, &logger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()
	logger.Info().Int("port", cfg.HTTP.Port).Msg("bistro API started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	logger.Info().Msg("bistro API stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	adminHash := ""
	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		adminHash = string(hash)
	}

	defaults := models.RestaurantConfig{
		CapacityPerSlot:     cfg.Restaurant.CapacityPerSlot,
		SlotDurationMinutes: cfg.Restaurant.SlotDurationMinutes,
		MaxPartySize:        cfg.Restaurant.MaxPartySize,
	}
	if err := db.Seed(context.Background(), defaults, cfg.Auth.AdminEmail, adminHash); err != nil {
		logger.Error().Err(err).Msg("seed database")
		return nil, err
	}
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initSlotCache keeps slot availability in redis with an in-memory
// fallback, so cache reads survive a redis outage.
func initSlotCache(redisClient *redis.Client, logger *zerolog.Logger) domain.SlotCache {
	ttl := time.Duration(models.SlotCacheTTLSeconds) * time.Second
	fallback := repository.NewMemorySlotCache(ttl)
	if redisClient == nil {
		return fallback
	}
	primary := repository.NewRedisSlotCache(redisClient, ttl)
	return repository.NewFailoverSlotCache(primary, fallback, logger)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.ReservationsSpreadsheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.ReservationsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	if err := sheetsService.TestConnection(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("google sheets connection test failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func initTelegram(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken == "" {
		return
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return
	}
	botAPI.Debug = cfg.Telegram.Debug

	notifier := notify.NewTelegramNotifier(botAPI, cfg.Telegram.ChatIDs, logger)
	notifier.SubscribeTo(bus)
	logger.Info().Int("chats", len(cfg.Telegram.ChatIDs)).Msg("telegram notifications enabled")
}

// newReservationService works around typed-nil interface pitfalls when
// the sheets worker is absent.
func newReservationService(
	db *database.DB,
	cache domain.SlotCache,
	bus *events.EventBus,
	sheetsWorker *worker.SheetsWorker,
	logger *zerolog.Logger,
) *service.ReservationService {
	var syncWorker domain.SyncWorker
	if sheetsWorker != nil {
		syncWorker = sheetsWorker
	}
	return service.NewReservationService(db, cache, bus, syncWorker, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
