package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/auth"
	"github.com/junaidrashid-git/commerce-api/backup"
	"github.com/junaidrashid-git/commerce-api/config"
	"github.com/junaidrashid-git/commerce-api/events"
	"github.com/junaidrashid-git/commerce-api/logger"
	"github.com/junaidrashid-git/commerce-api/metrics"
	"github.com/junaidrashid-git/commerce-api/middleware"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/junaidrashid-git/commerce-api/routes"
	"github.com/junaidrashid-git/commerce-api/seed"
	"github.com/junaidrashid-git/commerce-api/services"
	"github.com/junaidrashid-git/commerce-api/session"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type stores struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log); err != nil {
		slog.Error("logger setup failed", "error", err)
		os.Exit(1)
	}
	slog.Info("starting application")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init storage
	repos, err := initStores(cfg)
	if err != nil {
		slog.Error("storage setup failed", "error", err)
		os.Exit(1)
	}
	if cfg.SeedDemoData {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := seed.Load(ctx, rng, time.Now(), repos.products, repos.orders, repos.users); err != nil {
			slog.Error("seeding demo data failed", "error", err)
			os.Exit(1)
		}
	}

	sessions, closeSessions, err := initSessions(ctx, cfg)
	if err != nil {
		slog.Error("session store setup failed", "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	// Order events go to dashboard sockets and, when configured, Kafka
	hub := events.NewHub()
	defer hub.Close()
	publishers := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kafka := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), cfg.KafkaTopic)
		defer kafka.Close()
		publishers = append(publishers, kafka)
		slog.Info("publishing order events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	m := metrics.New()
	catalog := services.NewCatalog(repos.products)
	carts := services.NewCarts(sessions, repos.products, m)
	deps := routes.Deps{
		Auth: auth.NewService(repos.users, sessions, carts, m, auth.Config{
			Secret:   cfg.JWTSecret,
			TokenTTL: cfg.TokenTTL,
		}),
		Catalog: catalog,
		Carts:   carts,
		Orders: services.NewOrders(repos.orders, repos.products, carts, publishers, m, services.OrdersConfig{
			TaxRate:     cfg.TaxRate,
			DeliveryFee: cfg.DeliveryFee,
		}),
		Dashboard:   services.NewDashboard(repos.orders, repos.products),
		Hub:         hub,
		Metrics:     m,
		AdminAPIKey: cfg.AdminAPIKey,
	}

	// Gin setup
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Spreadsheet uploads are small
	r.MaxMultipartMemory = 32 << 20

	r.Use(
		middleware.RequestLogger(),
		middleware.Recovery(),
		m.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.SimulatedLatency(cfg.LatencyMin, cfg.LatencyMax),
	)

	// Setup routes
	routes.SetupRoutes(r, deps)

	// Catalog snapshot every day at BACKUP_HOUR
	go backup.Run(ctx, catalog, backup.Config{
		Dir:       cfg.BackupDir,
		Hour:      cfg.BackupHour,
		Retention: cfg.BackupRetention,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// initStores opens postgres when a DSN is configured and falls back to memory.
func initStores(cfg *config.Config) (stores, error) {
	dsn := cfg.DSN()
	if dsn == "" {
		slog.Warn("no database configured, using in-memory repositories")
		return stores{
			products: repository.NewMemoryProducts(),
			orders:   repository.NewMemoryOrders(),
			users:    repository.NewMemoryUsers(),
		}, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return stores{}, err
	}
	if err := repository.Migrate(db); err != nil {
		return stores{}, err
	}
	slog.Info("connected to postgres")
	return stores{
		products: repository.NewGormProducts(db),
		orders:   repository.NewGormOrders(db),
		users:    repository.NewGormUsers(db),
	}, nil
}

// initSessions dials Redis when REDIS_URL is set; otherwise sessions and carts
// live in process memory and vanish on restart.
func initSessions(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		slog.Warn("no REDIS_URL configured, using in-memory session store")
		return session.NewMemoryStore(), func() {}, nil
	}
	client, err := session.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("connected to redis")
	return session.NewRedisStore(client), func() { client.Close() }, nil
}
