package database

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/glucolog/glucolog/internal/config"
	"github.com/glucolog/glucolog/internal/database/migrations"
	"github.com/glucolog/glucolog/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Rows are persisted with string-typed enum columns; the repository
// layer normalizes them into the domain enumerations on read.

type User struct {
	gorm.Model
	Email          string `gorm:"uniqueIndex"`
	Name           string
	APIToken       string `gorm:"uniqueIndex"`
	TelegramChatID int64
}

type GlucoseEntry struct {
	gorm.Model
	UserID       uint      `gorm:"index:idx_entries_user_day"`
	User         User
	Date         time.Time `gorm:"type:date;index:idx_entries_user_day"`
	Slot         string    `gorm:"index:idx_entries_user_day"`
	GlucoseLevel int
	Note         string
	InsulinTaken *float64
}

type AdjustmentRule struct {
	gorm.Model
	UserID        uint `gorm:"index"`
	User          User
	Name          string
	TimeSlot      string
	ConditionDay  string
	ConditionSlot string
	Threshold     int
	Comparison    string
	Amount        int
	TargetDay     string
	TargetSlot    string
	PresetID      *uint
}

type InsulinPreset struct {
	gorm.Model
	UserID       uint `gorm:"index"`
	User         User
	Name         string
	SortOrder    int
	MorningUnits *float64
	NoonUnits    *float64
	EveningUnits *float64
	BedtimeUnits *float64
}

type BasalConfig struct {
	gorm.Model
	UserID       uint `gorm:"uniqueIndex"`
	User         User
	MorningUnits float64
	NoonUnits    float64
	EveningUnits float64
	BedtimeUnits float64
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("failed to get current file path")
	}
	migrationsDir := filepath.Join(filepath.Dir(filename), "migrations")

	if err := migrations.LoadSQLMigrations(migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	// Schema first, then data migrations: the legacy-synonym cleanup
	// needs the tables to exist on a fresh database.
	if err := db.AutoMigrate(&User{}, &GlucoseEntry{}, &AdjustmentRule{}, &InsulinPreset{}, &BasalConfig{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed")
	return db, nil
}
