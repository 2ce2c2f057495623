package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"mailer/config"
	"mailer/dep"
	"mailer/handler"
	"mailer/job/seed_database"
	"mailer/middleware"
	"mailer/pkg/logutil"
	"mailer/pkg/mq"
	"mailer/pkg/service"
	"mailer/repo"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

type server struct {
	ctx context.Context
	opt *config.Option
	cfg *config.Config

	httpServer *http.Server

	baseRepo       repo.BaseRepo
	baseCache      repo.BaseCache
	templateRepo   repo.TemplateRepo
	sentEmailRepo  repo.SentEmailRepo
	engagementRepo repo.EngagementRepo
	analyticsRepo  repo.AnalyticsRepo

	emailService dep.EmailService
	publisher    mq.Publisher

	// api handlers
	healthHandler    handler.HealthHandler
	templateHandler  handler.TemplateHandler
	emailHandler     handler.EmailHandler
	webhookHandler   handler.WebhookHandler
	analyticsHandler handler.AnalyticsHandler
}

func main() {
	s := new(server)
	if err := service.Run(s); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

func (s *server) Init() error {
	opt := config.NewOptions()

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		opt.LogLevel = logLevel
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		opt.ConfigPath = configPath
	}

	if serverPort := os.Getenv("PORT"); serverPort != "" {
		if port, err := strconv.Atoi(serverPort); err == nil {
			opt.Port = port
		}
	}

	s.opt = opt

	return nil
}

func (s *server) Start() error {
	var err error

	// ====== init logger ===== //

	s.ctx = logutil.InitZeroLog(context.Background(), s.opt.LogLevel)

	// ===== init config ===== //

	if err = config.LoadDotEnv(s.ctx, s.opt.EnvPath); err != nil {
		log.Ctx(s.ctx).Error().Msgf("load env file failed, err: %v", err)
		return err
	}

	s.cfg = config.NewConfig()
	if err = s.cfg.Load(s.ctx, s.opt.ConfigPath); err != nil {
		log.Ctx(s.ctx).Error().Msgf("load config failed, err: %v", err)
		return err
	}

	if err = s.cfg.LoadEnv(s.ctx); err != nil {
		log.Ctx(s.ctx).Error().Msgf("load env config failed, err: %v", err)
		return err
	}

	if err = s.cfg.Validate(); err != nil {
		log.Ctx(s.ctx).Error().Msgf("invalid config, err: %v", err)
		return err
	}

	// ===== init repos ===== //

	s.baseRepo, err = repo.NewBaseRepo(s.ctx, s.cfg.Database)
	if err != nil {
		log.Ctx(s.ctx).Error().Msgf("init base repo failed, err: %v", err)
		return err
	}
	defer func() {
		if err != nil && s.baseRepo != nil {
			if err := s.baseRepo.Close(s.ctx); err != nil {
				log.Ctx(s.ctx).Error().Msgf("close base repo failed, err: %v", err)
				return
			}
		}
	}()

	if s.cfg.Database.AutoMigrate {
		if err = repo.Migrate(s.ctx, s.cfg.Database); err != nil {
			log.Ctx(s.ctx).Error().Msgf("migrate database failed, err: %v", err)
			return err
		}
	}

	s.baseCache = repo.NewBaseCache(s.ctx)

	s.templateRepo = repo.NewTemplateRepo(s.ctx, s.baseRepo)
	s.sentEmailRepo = repo.NewSentEmailRepo(s.ctx, s.baseRepo, s.baseCache)
	s.engagementRepo = repo.NewEngagementRepo(s.ctx, s.baseRepo)
	s.analyticsRepo = repo.NewAnalyticsRepo(s.ctx, s.baseRepo)

	// ===== init deps ===== //

	s.emailService, err = dep.NewEmailService(s.ctx, s.cfg.Provider)
	if err != nil {
		log.Ctx(s.ctx).Error().Msgf("init email service failed, err: %v", err)
		return err
	}
	if err := s.emailService.CheckConfig(); err != nil {
		log.Ctx(s.ctx).Warn().Msgf("email service is not ready, sends will fail: %v", err)
	}

	if len(s.cfg.EventBus.Brokers) > 0 {
		s.publisher, err = mq.NewProducer(s.ctx, mq.ProducerConfig{
			Brokers: s.cfg.EventBus.Brokers,
			Topics:  s.cfg.EventBus.Topics,
		})
		if err != nil {
			log.Ctx(s.ctx).Error().Msgf("init event producer failed, err: %v", err)
			return err
		}
	} else {
		s.publisher = mq.NewNoopPublisher()
	}

	// ===== seed data ===== //

	if s.cfg.Seed.Enabled {
		if err = s.seed(); err != nil {
			log.Ctx(s.ctx).Error().Msgf("seed database failed, err: %v", err)
			return err
		}
	}

	// ===== init handlers ===== //

	s.healthHandler = handler.NewHealthHandler(s.baseRepo)
	s.templateHandler = handler.NewTemplateHandler(s.baseRepo, s.templateRepo, s.sentEmailRepo, s.engagementRepo)
	s.emailHandler = handler.NewEmailHandler(s.baseRepo, s.templateRepo, s.sentEmailRepo, s.emailService, s.publisher)
	s.webhookHandler = handler.NewWebhookHandler(s.baseRepo, s.sentEmailRepo, s.engagementRepo, s.publisher)
	s.analyticsHandler = handler.NewAnalyticsHandler(s.analyticsRepo, s.sentEmailRepo, s.templateRepo)

	// ===== start server ===== //

	addr := fmt.Sprintf(":%d", s.opt.Port)

	s.httpServer = &http.Server{
		BaseContext: func(_ net.Listener) context.Context {
			return s.ctx
		},
		Addr:         addr,
		Handler:      s.newCORS().Handler(middleware.Log(s.registerRoutes())),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("starting HTTP server at %s", addr)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fail to start HTTP server, err: %v", err)
		}
	}()

	return nil
}

func (s *server) seed() error {
	job := seed_database.New(s.cfg.Seed, false, s.baseRepo, s.templateRepo, s.sentEmailRepo, s.engagementRepo)

	if err := job.Init(s.ctx); err != nil {
		return err
	}

	if err := job.Run(s.ctx); err != nil {
		return err
	}

	return job.CleanUp(s.ctx)
}

func (s *server) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Ctx(s.ctx).Error().Msgf("shutdown http server failed, err: %v", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.Ctx(s.ctx).Error().Msgf("close event publisher failed, err: %v", err)
		}
	}

	if s.emailService != nil {
		if err := s.emailService.Close(s.ctx); err != nil {
			log.Ctx(s.ctx).Error().Msgf("close email service failed, err: %v", err)
		}
	}

	if s.baseCache != nil {
		if err := s.baseCache.Close(s.ctx); err != nil {
			log.Ctx(s.ctx).Error().Msgf("close base cache failed, err: %v", err)
		}
	}

	if s.baseRepo != nil {
		if err := s.baseRepo.Close(s.ctx); err != nil {
			log.Ctx(s.ctx).Error().Msgf("close base repo failed, err: %v", err)
			return err
		}
	}

	return nil
}

func (s *server) newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	})
}
