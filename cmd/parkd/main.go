package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"parksystem-backend/config"
	"parksystem-backend/internal/api"
	"parksystem-backend/internal/auth"
	"parksystem-backend/internal/db"
	"parksystem-backend/internal/flight"
	"parksystem-backend/internal/i18n"
	"parksystem-backend/internal/logger"
	"parksystem-backend/internal/metrics"
	"parksystem-backend/internal/notification"
	"parksystem-backend/internal/reminder"
	"parksystem-backend/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	root := &cobra.Command{
		Use:          "parkd",
		Short:        "Parking reservation server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "path to the YAML configuration")
	root.AddCommand(newGenVAPIDCmd(), newSendTestCmd(&configPath))
	return root
}

func webpushOptions(cfg *config.Config) *webpush.Options {
	return &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}
}

func serve(configPath string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("configuration loaded", "path", configPath)

	// Check for VAPID keys
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		log.Warn("VAPID keys are not configured; push notifications are disabled until they are generated with `parkd gen-vapid`")
	}
	pushOptions := webpushOptions(cfg)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, log)
	if err != nil {
		return err
	}
	appStore := store.NewGormStore(gormDB)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg, "parkd")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.Auth.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Auth.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to reach redis at %s: %w", cfg.Auth.RedisAddr, err)
		}
		revoker = auth.NewRedisRevoker(rdb)
		log.Info("refresh token revocation backed by redis", "addr", cfg.Auth.RedisAddr)
	}

	var google auth.GoogleVerifier
	if cfg.Auth.GoogleClientID != "" {
		google = auth.NewIDTokenVerifier(cfg.Auth.GoogleClientID)
	}
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	authService := auth.NewService(appStore, issuer, revoker, google, cfg.Auth.BcryptCost)

	var provider flight.Provider = flight.StaticProvider{}
	if cfg.Flight.ProviderURL != "" {
		provider = flight.NewHTTPProvider(cfg.Flight.ProviderURL, cfg.Flight.APIKey, cfg.Flight.Timeout, cfg.Flight.MaxRetries)
	}
	flights := flight.NewService(provider, appStore, cfg.Flight.CacheTTL, cfg.View.Location, log, m)

	// Start the notification workers and the reminder loop feeding them
	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, pushOptions, log, m)
	pool.Start(ctx)
	reminders := reminder.NewService(&cfg.Reminder, cfg.View.Location, appStore, pool, log)
	go reminders.Run(ctx)

	// Initialize router
	router := api.NewRouter(api.Deps{
		Store:    appStore,
		Auth:     authService,
		Flights:  flights,
		WebPush:  pushOptions,
		Location: cfg.View.Location,
		PageSize: cfg.View.PageSize,
		Logger:   log,
		Metrics:  m,
	}, cfg.Server)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: corsHandler.Handler(router),
	}

	// Start the server in a goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server ListenAndServe", "error", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	log.Info("shutdown signal received, stopping services")
	cancel()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}

	log.Info("server gracefully stopped")
	return nil
}

func newGenVAPIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-vapid",
		Short: "Print a new VAPID key pair for the push section of the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vapid_public_key: %q\n", publicKey)
			fmt.Fprintf(out, "vapid_private_key: %q\n", privateKey)
			return nil
		},
	}
}

func newSendTestCmd(configPath *string) *cobra.Command {
	var (
		userID int64
		lang   string
	)
	cmd := &cobra.Command{
		Use:   "send-test-notification",
		Short: "Send a test push to every subscription, or to one user's",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.NewLogger(cfg.LogLevel)
			defer log.Sync()

			if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
				return errors.New("VAPID keys must be configured. Please generate them and add them to your config file")
			}

			gormDB, err := db.Init(&cfg.Database, log)
			if err != nil {
				return err
			}

			tr := i18n.For(lang)
			pool := notification.NewWorkerPool(1, store.NewGormStore(gormDB), webpushOptions(cfg), log, nil)
			res := pool.Deliver(cmd.Context(), notification.Job{
				UserID:    userID,
				Broadcast: userID == 0,
				Message:   notification.Message{Head: tr.T(i18n.TestHead), Body: tr.T(i18n.TestBody)},
			})

			fmt.Fprintf(cmd.OutOrStdout(), "sent: %d, failed: %d, expired: %d\n", res.Sent, res.Failed, res.Expired)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "only notify this user id")
	cmd.Flags().StringVar(&lang, "lang", "pl", "message language (pl, en, uk)")
	return cmd
}
