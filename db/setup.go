package db

import (
	"log"
	"strings"

	"github.com/taskboard-dev/taskboard/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase opens the managed connection pool. A postgres DSN selects
// the postgres driver; anything else is treated as a sqlite file path.
func ConnectDatabase(dsn string) error {
	var err error

	if isPostgresDSN(dsn) {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}

	if err != nil {
		return err
	}

	return nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// MigrateDatabase creates the users and tasks tables if they are missing.
// Best-effort: failures are logged per table and never abort startup.
func MigrateDatabase() {
	entities := []interface{}{
		&models.User{},
		&models.Task{},
	}

	migrator := DB.Migrator()

	for _, entity := range entities {
		if migrator.HasTable(entity) {
			continue
		}

		if err := DB.AutoMigrate(entity); err != nil {
			log.Printf("Failed to create table for %T: %v", entity, err)
			continue
		}

		log.Printf("Created table for %T", entity)
	}
}
