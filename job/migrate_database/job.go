package migrate_database

import (
	"context"

	"mailer/config"
	"mailer/pkg/service"
	"mailer/repo"

	"github.com/rs/zerolog/log"
)

type MigrateDatabase struct {
	dbCfg   config.Database
	migrate func(ctx context.Context, dbCfg config.Database) error
}

func New(dbCfg config.Database) service.Job {
	return &MigrateDatabase{
		dbCfg:   dbCfg,
		migrate: repo.Migrate,
	}
}

func (j *MigrateDatabase) Init(_ context.Context) error {
	return nil
}

func (j *MigrateDatabase) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Msgf("migrating %s database %s at %s:%d",
		j.dbCfg.Driver, j.dbCfg.Database, j.dbCfg.Host, j.dbCfg.Port)

	if err := j.migrate(ctx, j.dbCfg); err != nil {
		log.Ctx(ctx).Error().Msgf("migrate database failed: %v", err)
		return err
	}

	return nil
}

func (j *MigrateDatabase) CleanUp(_ context.Context) error {
	return nil
}
