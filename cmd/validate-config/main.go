package main

import (
	"fmt"
	"os"

	"github.com/glucolog/glucolog/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Note: .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration OK")
	fmt.Printf("  - HTTP Addr: %s\n", cfg.HTTP.Addr)
	fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
	fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
	fmt.Printf("  - DB User: %s\n", cfg.DB.User)
	fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	fmt.Printf("  - Redis Enabled: %v\n", cfg.Redis.Enabled)
	if cfg.Redis.Enabled {
		fmt.Printf("  - Redis: %s:%s\n", cfg.Redis.Host, cfg.Redis.Port)
	}
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.Telegram.Token))
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
