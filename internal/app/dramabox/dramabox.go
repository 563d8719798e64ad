package dramabox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/dramabox/internal/cache"
	"github.com/magabrotheeeer/dramabox/internal/catalog"
	"github.com/magabrotheeeer/dramabox/internal/config"
	healthhandler "github.com/magabrotheeeer/dramabox/internal/http/handlers/health"
	"github.com/magabrotheeeer/dramabox/internal/lib/clock"
	"github.com/magabrotheeeer/dramabox/internal/lib/jwt"
	"github.com/magabrotheeeer/dramabox/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/migrations"
	accessservice "github.com/magabrotheeeer/dramabox/internal/services/access"
	"github.com/magabrotheeeer/dramabox/internal/services/appconfig"
	authservice "github.com/magabrotheeeer/dramabox/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/dramabox/internal/services/catalog"
	"github.com/magabrotheeeer/dramabox/internal/services/favorites"
	"github.com/magabrotheeeer/dramabox/internal/services/members"
	"github.com/magabrotheeeer/dramabox/internal/services/playback"
	"github.com/magabrotheeeer/dramabox/internal/storage/repository"
)

const (
	appConfigTTL    = time.Minute
	shutdownTimeout = 15 * time.Second
	healthInterval  = 10 * time.Second
)

// App HTTP API и gRPC health-сервер.
type App struct {
	server     *http.Server
	grpcServer *grpc.Server
	health     *health.Server
	grpcAddr   string
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	amqpConn   *amqp.Connection
	publisher  *rabbitmq.Publisher
}

// New поднимает зависимости и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "dramabox.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	version, err := migrations.Run(db.DB, cfg.MigrationsPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("database schema is up to date", slog.Uint64("version", uint64(version)))

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &App{
		logger:   logger,
		db:       db,
		cache:    cacheRedis,
		grpcAddr: cfg.GRPCAddress,
	}

	// Без брокера события доступа не публикуются.
	var pub accessservice.Publisher
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			a.closeResources()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQExchange, rabbitmq.AccessQueues())
		if err != nil {
			_ = conn.Close()
			a.closeResources()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.amqpConn = conn
		a.publisher = rabbitmq.NewPublisher(ch, cfg.RabbitMQExchange)
		pub = a.publisher
	} else {
		logger.Warn("rabbitmq url is empty, access events are disabled")
	}

	clk := clock.Real{}
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	configService := appconfig.NewService(db, cacheRedis, appConfigTTL, logger)
	accessService := accessservice.NewService(db, clk, pub, cfg.DailyBonusTickets, logger)
	catalogService := catalogservice.NewService(catalog.NewClient(cfg.Catalog), cacheRedis, cfg.CatalogCacheTTL, logger)

	services := Services{
		Auth:      authservice.NewService(db, configService, jwtMaker, clk, logger),
		Members:   members.NewService(db, clk, logger),
		Config:    configService,
		Access:    accessService,
		Playback:  playback.NewService(catalogService, configService, accessService, logger),
		Catalog:   catalogService,
		Favorites: favorites.NewService(db, logger),
		Health: map[string]healthhandler.Pinger{
			"postgres": db,
			"redis":    cacheRedis,
		},
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, services)

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	a.health = health.NewServer()
	a.grpcServer = grpc.NewServer()
	healthpb.RegisterHealthServer(a.grpcServer, a.health)

	return a, nil
}

// Run обслуживает HTTP и gRPC до отмены ctx, затем останавливает серверы.
func (a *App) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.grpcAddr)
	if err != nil {
		a.closeResources()
		return fmt.Errorf("dramabox.Run: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		a.logger.Info("gRPC health server starting on", slog.String("address", a.grpcAddr))
		return a.grpcServer.Serve(lis)
	})

	g.Go(func() error {
		a.watchHealth(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		a.logger.Info("shutting down HTTP server gracefully")
		a.health.Shutdown()
		err := a.server.Shutdown(timeoutCtx)
		a.grpcServer.GracefulStop()
		a.closeResources()
		return err
	})

	return g.Wait()
}

// watchHealth переводит gRPC health в NOT_SERVING, пока недоступна база или Redis.
func (a *App) watchHealth(ctx context.Context) {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()
	for {
		status := healthpb.HealthCheckResponse_SERVING
		if err := a.ping(ctx); err != nil {
			a.logger.Warn("dependency unavailable", sl.Err(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		a.health.SetServingStatus("", status)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := a.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := a.cache.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (a *App) closeResources() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
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
