package migrations

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glucolog/glucolog/internal/logger"
	"gorm.io/gorm"
)

// Migration is one registered schema or data migration.
type Migration struct {
	ID string
	Up func(*gorm.DB) error
}

var registry = make(map[string]Migration)

// Register adds a migration to the registry. SQL-file migrations are
// registered automatically by LoadSQLMigrations.
func Register(id string, up func(*gorm.DB) error) {
	registry[id] = Migration{ID: id, Up: up}
}

// MigrationRecord tracks executed migrations.
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// RunMigrations executes all pending migrations in ID order.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var ids []string
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}
	executedMap := make(map[string]bool, len(executed))
	for _, m := range executed {
		executedMap[m.ID] = true
	}

	for _, id := range ids {
		if executedMap[id] {
			continue
		}
		logger.Info("Running migration", "id", id)
		if err := registry[id].Up(db); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
		if err := db.Create(&MigrationRecord{ID: id}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", id, err)
		}
	}

	return nil
}

// LoadSQLMigrations registers every .sql file in dir as a migration
// keyed by its filename.
func LoadSQLMigrations(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		id := strings.TrimSuffix(file.Name(), ".sql")
		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}
		sql := string(content)
		Register(id, func(db *gorm.DB) error {
			return db.Exec(sql).Error
		})
	}

	return nil
}
