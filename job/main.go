package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mailer/config"
	"mailer/job/hash_password"
	"mailer/job/migrate_database"
	"mailer/job/seed_database"
	"mailer/pkg/logutil"
	"mailer/pkg/service"
	"mailer/repo"

	"github.com/rs/zerolog/log"
)

func main() {
	var (
		opt = config.NewOptions()
		ctx = logutil.InitZeroLog(context.Background(), "DEBUG")
	)

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./job <seed_database|migrate_database|hash_password> [--force] [--password=...]")
		os.Exit(1)
	}

	jobName := os.Args[1]

	fs := flag.NewFlagSet(jobName, flag.ExitOnError)
	force := fs.Bool("force", false, "clear existing data before seeding")
	password := fs.String("password", "", "webhook password to hash")
	_ = fs.Parse(os.Args[2:])

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		opt.ConfigPath = configPath
	}

	if err := config.LoadDotEnv(ctx, opt.EnvPath); err != nil {
		log.Ctx(ctx).Error().Msgf("load env file failed: %v", err)
		os.Exit(1)
	}

	cfg := config.NewConfig()
	if err := cfg.Load(ctx, opt.ConfigPath); err != nil {
		log.Ctx(ctx).Error().Msgf("load config failed: %v", err)
		os.Exit(1)
	}

	if err := cfg.LoadEnv(ctx); err != nil {
		log.Ctx(ctx).Error().Msgf("load env config failed: %v", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Ctx(ctx).Error().Msgf("invalid config: %v", err)
		os.Exit(1)
	}

	var job service.Job
	switch jobName {
	case "hash_password":
		job = hash_password.New(*password)
	case "migrate_database":
		job = migrate_database.New(cfg.Database)
	case "seed_database":
		baseRepo, err := repo.NewBaseRepo(ctx, cfg.Database)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("init base repo failed, err: %v", err)
			os.Exit(1)
		}
		defer func() {
			if err := baseRepo.Close(ctx); err != nil {
				log.Ctx(ctx).Error().Msgf("close base repo failed, err: %v", err)
			}
		}()

		baseCache := repo.NewBaseCache(ctx)

		job = seed_database.New(cfg.Seed, *force, baseRepo,
			repo.NewTemplateRepo(ctx, baseRepo),
			repo.NewSentEmailRepo(ctx, baseRepo, baseCache),
			repo.NewEngagementRepo(ctx, baseRepo))
	default:
		log.Ctx(ctx).Error().Msgf("job %s not found", jobName)
		os.Exit(1)
	}

	if err := runJob(ctx, job); err != nil {
		log.Ctx(ctx).Error().Msgf("%s failed: %v", jobName, err)
		os.Exit(1)
	}

	log.Ctx(ctx).Info().Msg("job executed successfully")
}

func runJob(ctx context.Context, job service.Job) error {
	if err := job.Init(ctx); err != nil {
		return fmt.Errorf("init job err: %w", err)
	}

	if err := job.Run(ctx); err != nil {
		return fmt.Errorf("run job err: %w", err)
	}

	if err := job.CleanUp(ctx); err != nil {
		return fmt.Errorf("cleanup job err: %w", err)
	}

	return nil
}
