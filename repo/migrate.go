package repo

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"mailer/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

//go:embed migrations
var migrations embed.FS

func migrationDir(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres, config.DriverMySQL:
		return fmt.Sprintf("migrations/%s", driver), nil
	default:
		return "", ErrUnsupportedDriver
	}
}

// Migrate applies every pending schema migration for the configured driver.
func Migrate(ctx context.Context, dbCfg config.Database) error {
	dir, err := migrationDir(dbCfg.Driver)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations, dir)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dbCfg.ToURL())
	if err != nil {
		return fmt.Errorf("init migrate failed: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Ctx(ctx).Error().Msgf("close migrate failed, source err: %v, db err: %v", srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Ctx(ctx).Info().Msg("database schema is up to date")
			return nil
		}
		return fmt.Errorf("apply migrations failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Msgf("database migrated, version: %d, dirty: %v", version, dirty)

	return nil
}
