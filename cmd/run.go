package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"courtside/bot"
	"courtside/config"
	"courtside/database"
	"courtside/events"
	"courtside/infrastructure"
	"courtside/metrics"
	"courtside/repository"
	"courtside/rng"
	"courtside/service"
	"courtside/store"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	setupLogging(cfg)
	log.WithField("environment", cfg.Environment).Info("Starting courtside bot...")

	settings := SettingsFromConfig(cfg)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid economy settings: %w", err)
	}

	// Initialize persistence
	persister, closePersister, err := openPersister(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePersister()

	st, err := store.Open(ctx, persister)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if err := st.Recovered(); err != nil {
		log.WithError(err).Warn("Persisted document was unreadable, starting from an empty store")
	}

	src, err := newSource(cfg)
	if err != nil {
		return err
	}

	// Initialize event bus and its subscribers
	eventBus := events.NewBus()

	collector := metrics.NewCollector()
	collector.Subscribe(eventBus)

	var natsClient *infrastructure.NATSClient
	if cfg.NATSURL != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSURL)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			return err
		}
		infrastructure.NewNATSEventPublisher(natsClient).Subscribe(eventBus)
	}

	// Initialize services
	accounts := service.NewAccountService(st, settings, eventBus)
	income := service.NewIncomeService(accounts, src, settings)
	wagers := service.NewWageringService(accounts, src, settings)
	log.Info("Services initialized successfully")

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		// Healthy while the store mutex can be taken within the probe deadline
		health := func(ctx context.Context) error {
			_, err := st.Transactions(ctx, "")
			return err
		}
		metricsServer = metrics.NewServer(cfg.MetricsAddr, metrics.NewRouter(collector, health))
		go func() {
			log.WithField("addr", cfg.MetricsAddr).Info("Serving metrics")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// Initialize Discord bot
	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}, accounts, income, wagers)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	<-ctx.Done()
	log.Info("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Error stopping metrics server")
		}
	}

	// Let in-flight event handlers finish before the NATS connection drains
	done := make(chan struct{})
	go func() {
		eventBus.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded waiting for event handlers")
	}

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}

	log.Info("Shutdown completed")
	return nil
}

// SettingsFromConfig maps the environment configuration onto the economy settings
func SettingsFromConfig(cfg *config.Config) service.Settings {
	return service.Settings{
		StartingChips: cfg.StartingChips,
		DailyCooldown: time.Duration(cfg.DailyCooldownHours) * time.Hour,
		WorkCooldown:  time.Duration(cfg.WorkCooldownMinutes) * time.Minute,
		FeeRate:       cfg.BankFeeRate,
		BetLimit:      cfg.BetLimit,
	}
}

// openPersister selects Postgres when DATABASE_URL is set and the JSON document otherwise
func openPersister(ctx context.Context, cfg *config.Config) (store.Persister, func(), error) {
	if cfg.DatabaseURL == "" {
		fp := store.NewFilePersister(cfg.DBFile)
		log.WithField("path", fp.Path()).Info("Using JSON document store")
		return fp, func() {}, nil
	}

	if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	return repository.NewPostgresPersister(db), db.Close, nil
}

func newSource(cfg *config.Config) (rng.Source, error) {
	if cfg.RNGSeed != nil {
		log.WithField("seed", *cfg.RNGSeed).Warn("Using a fixed RNG seed")
		return rng.New(*cfg.RNGSeed), nil
	}
	src, err := rng.NewFromEntropy()
	if err != nil {
		return nil, fmt.Errorf("failed to seed RNG: %w", err)
	}
	return src, nil
}
