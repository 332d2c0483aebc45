package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/tradelink-backend/api/routes"
	"github.com/angelmondragon/tradelink-backend/internal/auth"
	"github.com/angelmondragon/tradelink-backend/internal/favorites"
	"github.com/angelmondragon/tradelink-backend/internal/notifications"
	"github.com/angelmondragon/tradelink-backend/internal/orders"
	"github.com/angelmondragon/tradelink-backend/internal/partnerships"
	product "github.com/angelmondragon/tradelink-backend/internal/products"
	"github.com/angelmondragon/tradelink-backend/internal/search"
	"github.com/angelmondragon/tradelink-backend/internal/stats"
	"github.com/angelmondragon/tradelink-backend/internal/users"
	"github.com/angelmondragon/tradelink-backend/pkg/auth/session"
	"github.com/angelmondragon/tradelink-backend/pkg/config"
	"github.com/angelmondragon/tradelink-backend/pkg/db"
	"github.com/angelmondragon/tradelink-backend/pkg/logger"
	"github.com/angelmondragon/tradelink-backend/pkg/metrics"
	"github.com/angelmondragon/tradelink-backend/pkg/migrate"
	pkgpubsub "github.com/angelmondragon/tradelink-backend/pkg/pubsub"
	"github.com/angelmondragon/tradelink-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deliverer, closeDeliverer, err := newDeliverer(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeDeliverer()) }()

	notificationRepo := notifications.NewRepository(dbClient.DB())
	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Repo:      notificationRepo,
		Deliverer: deliverer,
		Logger:    logg,
		Metrics:   metrics.NewNotificationMetrics(registry),
		Timeout:   cfg.Notifications.DispatchTimeout,
	})
	if err != nil {
		return err
	}
	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	userService, err := users.NewService(userRepo)
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	catalogRepo := product.NewRepository(dbClient.DB())
	productService, err := product.NewService(catalogRepo)
	if err != nil {
		return err
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:       orderRepo,
		Users:      userRepo,
		Catalog:    catalogRepo,
		Tx:         dbClient,
		Dispatcher: dispatcher,
		Logger:     logg,
		Metrics:    metrics.NewOrderMetrics(registry),
	})
	if err != nil {
		return err
	}

	partnershipRepo := partnerships.NewRepository(dbClient.DB())
	partnershipService, err := partnerships.NewService(partnerships.ServiceParams{
		Repo:   partnershipRepo,
		Users:  userRepo,
		Tx:     dbClient,
		Logger: logg,
	})
	if err != nil {
		return err
	}

	favoriteService, err := favorites.NewService(favorites.ServiceParams{
		Repo:   favorites.NewRepository(dbClient.DB()),
		Users:  userRepo,
		Logger: logg,
	})
	if err != nil {
		return err
	}

	searchService, err := search.NewService(search.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	statsService, err := stats.NewService(stats.ServiceParams{
		Orders:       orderRepo,
		Products:     catalogRepo,
		Partnerships: partnershipRepo,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"delivery": cfg.Notifications.Delivery,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:            dbClient,
			Redis:         redisClient,
			Idempotency:   redisClient,
			Sessions:      sessionManager,
			Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
			Auth:          authService,
			Users:         userService,
			Products:      productService,
			Orders:        orderService,
			Partnerships:  partnershipService,
			Notifications: notificationService,
			Favorites:     favoriteService,
			Search:        searchService,
			Stats:         statsService,
		}),
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newDeliverer picks the notification channel. The returned close func is never nil.
func newDeliverer(ctx context.Context, cfg *config.Config, logg *logger.Logger) (notifications.Deliverer, func() error, error) {
	noop := func() error { return nil }
	if !strings.EqualFold(strings.TrimSpace(cfg.Notifications.Delivery), config.NotificationDeliveryPubSub) {
		return notifications.NewLogDeliverer(logg), noop, nil
	}

	client, err := pkgpubsub.NewClient(ctx, cfg.PubSub, logg)
	if err != nil {
		return nil, noop, err
	}
	deliverer, err := notifications.NewPubSubDeliverer(client.NotificationPublisher())
	if err != nil {
		return nil, noop, multierr.Append(err, client.Close())
	}
	return deliverer, client.Close, nil
}
