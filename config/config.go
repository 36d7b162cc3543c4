package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret string

	RedisAddr string

	UploadsDir string
	BackupDir  string
	PublicURL  string

	// Flat per-seller shipping fee added to every order (VND).
	ShippingFee float64

	MomoPartnerCode string
	MomoAccessKey   string
	MomoSecretKey   string
	MomoEndpoint    string
	MomoRedirectURL string
	MomoIPNURL      string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "marketplace"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		UploadsDir: getEnv("UPLOADS_DIR", "./uploads"),
		BackupDir:  getEnv("BACKUP_DIR", "./backup/uploads"),
		PublicURL:  getEnv("PUBLIC_URL", "http://localhost:8080"),

		ShippingFee: getEnvFloat("SHIPPING_FEE", 20000),

		MomoPartnerCode: os.Getenv("MOMO_PARTNER_CODE"),
		MomoAccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
		MomoSecretKey:   os.Getenv("MOMO_SECRET_KEY"),
		MomoEndpoint:    getEnv("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
		MomoRedirectURL: os.Getenv("MOMO_REDIRECT_URL"),
		MomoIPNURL:      os.Getenv("MOMO_IPN_URL"),
	}
}

// DSN builds the postgres connection string when DATABASE_URL is not set.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
