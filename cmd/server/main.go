package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dokon/internal/auth"
	"dokon/internal/config"
	"dokon/internal/customer"
	"dokon/internal/events"
	"dokon/internal/infrastructure/amqp"
	"dokon/internal/infrastructure/logger"
	"dokon/internal/infrastructure/mysql"
	"dokon/internal/policy"
	"dokon/internal/product"
	"dokon/internal/server"
	"dokon/internal/stats"
	"dokon/internal/transaction"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Database.MigrateOnStart {
		if err := mysql.RunMigrations(cfg.Database); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
		zapLogger.Info("migrations applied")
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	dispatcher := events.NewDispatcher(zapLogger)

	statsCtrl, aggregator := stats.NewModule(db, cfg, zapLogger)
	dispatcher.Subscribe("stats", aggregator)

	if cfg.AMQP.URL != "" {
		forwarder, err := amqp.NewForwarder(cfg.AMQP.URL, cfg.AMQP.Exchange, zapLogger)
		if err != nil {
			zapLogger.Fatal("connecting to AMQP", zap.Error(err))
		}
		defer forwarder.Close()
		dispatcher.Subscribe("amqp", forwarder)
		zapLogger.Info("event forwarding enabled", zap.String("exchange", cfg.AMQP.Exchange))
	}

	router := server.NewRouter(server.Controllers{
		Product:     product.NewModule(db, cfg, dispatcher, zapLogger),
		Customer:    customer.NewModule(db, zapLogger),
		Transaction: transaction.NewModule(db, cfg, dispatcher, zapLogger),
		Stats:       statsCtrl,
	}, auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), policy.Default(), db, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
