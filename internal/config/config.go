package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. Loaded once at startup and never
// mutated afterwards.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Admin   AdminConfig
	Storage StorageConfig

	// FrontendURL is the base URL used to build password-reset links and
	// to deliver reset notifications.
	FrontendURL string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AdminConfig optionally bootstraps an admin account at startup.
type AdminConfig struct {
	Email    string
	Password string
}

// StorageConfig configures the S3-compatible image store. When Endpoint is
// empty the store runs in base64 fallback mode.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
	UseSSL    bool
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DB", "sleepycare")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("ACCESS_TOKEN_EXPIRES_MINUTES", 30)
	viper.SetDefault("REFRESH_TOKEN_EXPIRES_MINUTES", 10080)
	viper.SetDefault("STORAGE_BUCKET", "sleepycare")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DB"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		JWT: JWTConfig{
			Secret:          os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  time.Duration(viper.GetInt("ACCESS_TOKEN_EXPIRES_MINUTES")) * time.Minute,
			RefreshTokenTTL: time.Duration(viper.GetInt("REFRESH_TOKEN_EXPIRES_MINUTES")) * time.Minute,
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			PublicURL: viper.GetString("STORAGE_PUBLIC_URL"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
		},
		FrontendURL: viper.GetString("FRONTEND_URL"),
	}

	if cfg.MongoDB.URI == "" {
		return nil, fmt.Errorf("environment variable MONGODB_URI is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET is required")
	}

	return cfg, nil
}
