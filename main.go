package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/cache"
	"github.com/nqminh/marketplace-api/config"
	chatControllers "github.com/nqminh/marketplace-api/controllers/chat"
	"github.com/nqminh/marketplace-api/logger"
	"github.com/nqminh/marketplace-api/models"
	"github.com/nqminh/marketplace-api/routes"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger.New(logger.Options{
		Service: "marketplace-api",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	db := initDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Shipment{},
		&models.Notification{},
		&models.Review{},
		&models.Banner{},
		&models.WishlistItem{},
		&models.Follow{},
		&models.ProductLike{},
		&models.Voucher{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.PaymentTransaction{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	var cc cache.Cache = cache.NewNoop()
	if cfg.RedisAddr != "" {
		cc = cache.NewRedisCache(cfg.RedisAddr, "marketplace-api")
		slog.Info("redis cache enabled", "addr", cfg.RedisAddr)
	}

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.MaxMultipartMemory = 16 << 20 // 16MB, banner images only

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded banner images
	r.Static("/uploads", cfg.UploadsDir)

	hub := chatControllers.NewHub()
	routes.SetupRoutes(r, db, cfg, cc, hub)

	// Back up uploads daily at 2 AM, keep 4 days
	go startDailyBackupAtFixedTime(cfg.UploadsDir, cfg.BackupDir, 4*24*time.Hour, 2, 0)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("🚀 server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// startDailyBackupAtFixedTime backs up uploaded images daily at a fixed hour
// and removes old backups
func startDailyBackupAtFixedTime(srcDir, backupDir string, retention time.Duration, hour, min int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		time.Sleep(next.Sub(now))

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		destDir := filepath.Join(backupDir, timestamp)

		if err := copyDir(srcDir, destDir); err != nil {
			slog.Error("uploads backup failed", "error", err)
		} else {
			slog.Info("uploads backed up", "dest", destDir)
		}

		cleanupOldBackups(backupDir, retention)
	}
}

// copyDir recursively copies a folder
func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, destPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFile copies a single file
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// cleanupOldBackups removes backup folders older than retention duration
func cleanupOldBackups(backupDir string, retention time.Duration) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		slog.Error("failed to read backup directory", "error", err)
		return
	}

	cutoff := time.Now().Add(-retention)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(backupDir, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folderPath); err != nil {
				slog.Error("failed to remove old backup", "path", folderPath, "error", err)
			} else {
				slog.Info("removed old backup", "path", folderPath)
			}
		}
	}
}
