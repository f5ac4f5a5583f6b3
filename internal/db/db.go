package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amplen/quotation-builder/internal/models"
)

// ConnectAndMigrate opens the database and applies GORM migrations. The
// driver is picked from the DSN: postgres URLs and key=value lists go to the
// postgres driver, everything else is treated as an sqlite file path.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	var conn *gorm.DB
	var err error

	// Simple retry to give Postgres time to come up when containerized.
	for i := 0; i < 5; i++ {
		conn, err = open(dsn)
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := conn.AutoMigrate(&models.Quotation{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func open(dsn string) (*gorm.DB, error) {
	if isPostgres(dsn) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

func isPostgres(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=")
}
