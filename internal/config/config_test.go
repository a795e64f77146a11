package config

import (
	"testing"
	"time"
)

func TestLoadConfig_RequiresMongoAndSecret(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when MONGODB_URI is missing")
	}

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "unit-test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Server.Port != "8000" {
		t.Fatalf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.MongoDB.Database != "sleepycare" {
		t.Fatalf("unexpected default database: %s", cfg.MongoDB.Database)
	}
	if cfg.JWT.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("unexpected access TTL: %v", cfg.JWT.AccessTokenTTL)
	}
	if cfg.JWT.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("unexpected refresh TTL: %v", cfg.JWT.RefreshTokenTTL)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ACCESS_TOKEN_EXPIRES_MINUTES", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.JWT.AccessTokenTTL != 5*time.Minute {
		t.Fatalf("unexpected access TTL: %v", cfg.JWT.AccessTokenTTL)
	}
}
