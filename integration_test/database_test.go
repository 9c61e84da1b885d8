//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	mysqltc "github.com/testcontainers/testcontainers-go/modules/mysql"
	pgtc "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gitlab.com/timkado/api/lead-importer/internal/model"
	"gitlab.com/timkado/api/lead-importer/internal/storage"
)

var seedEmoji = []model.Emoji{{E: "🚀"}, {E: "🌷"}, {E: "⭐"}}

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := pgtc.Run(ctx,
		"postgres:17-bookworm",
		pgtc.WithDatabase("leads"),
		pgtc.WithUsername("postgres"),
		pgtc.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return pgContainer, "", fmt.Errorf("failed to get PostgreSQL connection string: %w", err)
	}
	return pgContainer, dsn, nil
}

func startMySQL(ctx context.Context) (testcontainers.Container, string, error) {
	myContainer, err := mysqltc.Run(ctx,
		"mysql:8.4",
		mysqltc.WithDatabase("leads"),
		mysqltc.WithUsername("importer"),
		mysqltc.WithPassword("importer"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start MySQL container: %w", err)
	}

	host, err := myContainer.Host(ctx)
	if err != nil {
		return myContainer, "", fmt.Errorf("failed to get MySQL host: %w", err)
	}
	mappedPort, err := myContainer.MappedPort(ctx, "3306")
	if err != nil {
		return myContainer, "", fmt.Errorf("failed to get MySQL port: %w", err)
	}

	// The URL form operators put in DATABASE_URL.
	url := fmt.Sprintf("mysql://importer:importer@%s:%s/leads?charset=utf8mb4", host, mappedPort.Port())
	return myContainer, url, nil
}

// openDirect opens a second handle, outside the repository, for fixtures.
func openDirect(url string) (*gorm.DB, error) {
	dialector, _, err := storage.ResolveDialector("", url)
	if err != nil {
		return nil, err
	}
	return gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
}

func createSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Campaign{}, &model.Address{}, &model.PhoneQueue{}, &model.Emoji{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return db.Create(&seedEmoji).Error
}

func truncateTables(db *gorm.DB) error {
	for _, table := range []string{"phonequeue", "address", "campaigns"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to empty %s: %w", table, err)
		}
	}
	return nil
}
