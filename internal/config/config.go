package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	TickRate    int
	HumanCount  int
	Seed        int64
	MaxRooms    int
	JoinTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnvInt("PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		TickRate:    getEnvInt("TICK_RATE", 60),
		HumanCount:  getEnvInt("HUMAN_COUNT", 15),
		Seed:        getEnvInt64("RNG_SEED", 0),
		MaxRooms:    getEnvInt("MAX_ROOMS", 64),
		JoinTimeout: time.Duration(getEnvInt("JOIN_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}
