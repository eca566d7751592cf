package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
	customerdomain "github.com/wardrobers/backend-api-sub000/internal/customer/domain"
	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
)

// RunMigrations applies the embedded SQL migrations against postgres.
// All pricing tables are created automatically on startup so a fresh
// database is usable without manual steps.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not close the migrator here, it would close the shared *sql.DB.

	return nil
}

// AutoMigrate covers the non-postgres dialects used in local
// development, where golang-migrate's postgres driver cannot run.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&catalogdomain.PricingTier{},
		&catalogdomain.PriceFactor{},
		&catalogdomain.CategoryMultiplier{},
		&promotiondomain.Promotion{},
		&customerdomain.Customer{},
		&customerdomain.RentalOrder{},
	)
}
