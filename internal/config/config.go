package config

import (
	"os"
	"strconv"
	"time"
)

// ServerConfig holds settings for the chat server runtime.
type ServerConfig struct {
	ListenAddr   string
	Database     DatabaseConfig
	JWT          JWTConfig
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	HistoryLimit int
	OutboxBuffer int
}

// DatabaseConfig captures storage configuration.
type DatabaseConfig struct {
	Path string
}

// JWTConfig defines token verification and issuance parameters.
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// LoadServerConfig builds the server configuration from environment variables with sensible defaults.
func LoadServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:   envOrDefault("CHATRELAY_LISTEN_ADDR", ":5000"),
		Database:     DatabaseConfig{Path: envOrDefault("CHATRELAY_DB_PATH", "chatrelay.db")},
		JWT:          LoadJWTConfig(),
		ReadTimeout:  envDuration("CHATRELAY_READ_TIMEOUT", 60*time.Second),
		WriteTimeout: envDuration("CHATRELAY_WRITE_TIMEOUT", 15*time.Second),
		HistoryLimit: envInt("CHATRELAY_HISTORY_LIMIT", 100),
		OutboxBuffer: envInt("CHATRELAY_OUTBOX_BUFFER", 64),
	}
}

// LoadJWTConfig builds token settings from environment variables. The
// secret must match whatever the account service signs with.
func LoadJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:     envOrDefault("CHATRELAY_JWT_SECRET", "replace-me"),
		Issuer:     envOrDefault("CHATRELAY_JWT_ISSUER", "chatrelay"),
		Expiration: envDuration("CHATRELAY_JWT_EXPIRATION", 24*time.Hour),
	}
}

func envOrDefault(key, value string) string {
	if env, ok := os.LookupEnv(key); ok {
		return env
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	if env, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(env); err == nil {
			return parsed
		}
	}
	return def
}

func envInt(key string, def int) int {
	if env, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(env); err == nil {
			return parsed
		}
	}
	return def
}
