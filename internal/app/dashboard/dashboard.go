package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/vpn-dashboard/internal/cache"
	"github.com/magabrotheeeer/vpn-dashboard/internal/config"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/migrations"
	"github.com/magabrotheeeer/vpn-dashboard/internal/services/allocation"
	authservice "github.com/magabrotheeeer/vpn-dashboard/internal/services/auth"
	broadcastservice "github.com/magabrotheeeer/vpn-dashboard/internal/services/broadcast"
	linksservice "github.com/magabrotheeeer/vpn-dashboard/internal/services/links"
	usersservice "github.com/magabrotheeeer/vpn-dashboard/internal/services/users"
	"github.com/magabrotheeeer/vpn-dashboard/internal/storage/repository"
	"github.com/magabrotheeeer/vpn-dashboard/internal/telegram"
)

const (
	shutdownTimeout = 15 * time.Second
	dbConnectTries  = 10
	dbConnectDelay  = 3 * time.Second
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	mqConn *amqp.Connection
	mqCh   *amqp.Channel
}

// New поднимает зависимости приложения. Redis и RabbitMQ необязательны:
// без адреса Redis список пользователей читается из базы напрямую,
// без адреса RabbitMQ события о выдаче ссылок не публикуются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := connectDB(ctx, cfg.StorageConnectionString, logger)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{
		logger: logger,
		db:     db,
	}

	var usersCache usersservice.Cache
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, err
		}
		app.cache = cacheRedis
		usersCache = cacheRedis
	} else {
		logger.Info("redis address is empty, users cache disabled")
	}

	var publisher allocation.Publisher
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			app.close()
			return nil, err
		}
		app.mqConn = conn
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			app.close()
			return nil, err
		}
		app.mqCh = ch
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Info("rabbitmq url is empty, assignment events disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	tgClient := telegram.New(cfg.Telegram, &http.Client{})
	if !tgClient.Configured() {
		logger.Warn("telegram bot token is empty, broadcast will be unavailable")
	}

	svc := Services{
		Auth:       authservice.NewService(cfg.Credentials, jwtMaker),
		Links:      linksservice.NewService(db, logger),
		Users:      usersservice.NewService(db, usersCache, cfg.UsersTTL, logger),
		Allocation: allocation.NewService(db, publisher, logger),
		Broadcast: broadcastservice.NewDispatcher(tgClient, broadcastservice.Options{
			Timeout:   cfg.Telegram.Timeout,
			Workers:   cfg.Broadcast.Workers,
			RateLimit: cfg.Broadcast.RateLimit,
		}, logger),
		DB: db.DB,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, svc, newRouteOptions(cfg, jwtMaker))

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// newRouteOptions согласует время жизни cookie со сроком действия выпускаемых токенов.
func newRouteOptions(cfg *config.Config, jwtMaker *jwt.MakerImpl) RouteOptions {
	return RouteOptions{
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   jwtMaker.TTL(),
		LoginLimiter: rate.NewLimiter(rate.Limit(cfg.LoginRateLimit.RPS), cfg.LoginRateLimit.Burst),
	}
}

// connectDB ждёт, пока PostgreSQL начнёт принимать соединения.
func connectDB(ctx context.Context, conn string, logger *slog.Logger) (*repository.Storage, error) {
	var lastErr error
	for attempt := 1; attempt <= dbConnectTries; attempt++ {
		db, err := repository.New(conn)
		if err == nil {
			return db, nil
		}
		lastErr = err
		logger.Warn("database is not ready", slog.Int("attempt", attempt), sl.Err(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dbConnectDelay):
		}
	}
	return nil, fmt.Errorf("dashboard.connectDB: database not ready after %d attempts: %w", dbConnectTries, lastErr)
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.mqCh != nil {
		if err := a.mqCh.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.mqConn != nil {
		if err := a.mqConn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
