// The scheduler process runs the periodic maintenance jobs: stale-account
// cleanup, the weekly newsletter, cache clearing, and promotion expiry. It
// shares the database with the API server but runs as its own binary.
package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"brutarie/internal/cache"
	"brutarie/internal/config"
	"brutarie/internal/email"
	"brutarie/internal/jobs"
	"brutarie/internal/repositories"
	"brutarie/internal/scheduler"
)

func main() {
	cfg := config.Load()

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := openDatabase(cfg.DatabaseDSN)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}

	userRepo := repositories.NewGORMUserRepository(db)
	promotionRepo := repositories.NewGORMPromotionRepository(db)
	store := cache.New(15 * time.Minute)

	var mailer email.Mailer = email.NewLogMailer(zlog)
	if cfg.SMTPAddr != "" {
		mailer = email.NewSMTPMailer(cfg.SMTPAddr)
	}

	bundle := jobs.New(userRepo, promotionRepo, store, mailer, zlog, jobs.Config{
		AccountExpiryWindow: cfg.AccountExpiryWindow,
		NewsletterMinAge:    cfg.NewsletterMinAge,
		EmailFrom:           cfg.EmailFrom,
	})

	sched := scheduler.New(zlog)
	sched.Register("expire_unconfirmed_accounts",
		scheduler.Every(cfg.AccountExpiryWindow), bundle.ExpireUnconfirmedAccounts)
	sched.Register("send_newsletter",
		scheduler.Weekly(time.Monday, 15, 8), bundle.SendNewsletter)
	sched.Register("clear_cache",
		scheduler.Every(15*time.Minute), bundle.ClearCache)
	sched.Register("deactivate_expired_promotions",
		scheduler.Weekly(time.Monday, 8, 0), bundle.DeactivateExpiredPromotions)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched.Run(ctx)
}

// openDatabase picks the driver from the DSN shape, matching the API server.
func openDatabase(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}
