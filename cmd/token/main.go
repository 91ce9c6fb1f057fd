// Command token issues an admin API bearer token for an existing user.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dokon/internal/auth"
	"dokon/internal/config"
	"dokon/internal/customer/repository"
	"dokon/internal/infrastructure/logger"
	"dokon/internal/infrastructure/mysql"
)

func main() {
	userID := flag.Int64("user", 0, "id of the user the token is issued for")
	flag.Parse()

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

	if *userID <= 0 {
		zapLogger.Fatal("-user must be a positive id")
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := repository.NewMySQLUserRepository(db).FindByID(ctx, *userID)
	if err != nil {
		zapLogger.Fatal("loading user", zap.Int64("userId", *userID), zap.Error(err))
	}

	token, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(*user)
	if err != nil {
		zapLogger.Fatal("issuing token", zap.Error(err))
	}

	zapLogger.Info("token issued",
		zap.Int64("userId", user.ID),
		zap.String("role", string(user.Role)),
		zap.Duration("ttl", cfg.Auth.TokenTTL))
	fmt.Println(token)
}
