package config

import (
	"os"
	"strings"

	"github.com/glucolog/glucolog/internal/logger"
)

type Config struct {
	HTTP     HTTPConfig
	DB       DBConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Logger   LoggerConfig
}

type HTTPConfig struct {
	Addr string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host    string
	Port    string
	Enabled bool
}

type TelegramConfig struct {
	Token string // empty disables the notifier
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	return &Config{
		HTTP: HTTPConfig{
			Addr: getEnvOrDefault("HTTP_ADDR", ":8080"),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "glucolog"),
		},
		Redis: RedisConfig{
			Host:    getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:    getEnvOrDefault("REDIS_PORT", "6379"),
			Enabled: strings.EqualFold(getEnvOrDefault("REDIS_ENABLED", "false"), "true"),
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}
