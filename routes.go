package main

import (
	"context"
	"net/http"

	"mailer/config"
	"mailer/handler"
	"mailer/middleware"
	"mailer/pkg/router"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *server) registerRoutes() http.Handler {
	r := router.NewHttpRouter("")
	r.Use(middleware.Metrics)

	r.Handle(config.PathMetrics, promhttp.Handler()).Methods(http.MethodGet)

	// health check
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathHealthCheck,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(handler.HealthCheckRequest),
			Res: new(handler.HealthCheckResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.healthHandler.HealthCheck(ctx, req.(*handler.HealthCheckRequest), res.(*handler.HealthCheckResponse))
			},
		},
	})

	// test db
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathTestDB,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(handler.TestDBRequest),
			Res: new(handler.TestDBResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.healthHandler.TestDB(ctx, req.(*handler.TestDBRequest), res.(*handler.TestDBResponse))
			},
		},
	})

	s.registerTemplateRoutes(r)
	s.registerEmailRoutes(r)
	s.registerWebhookRoutes(r)
	s.registerAnalyticsRoutes(r)

	return r
}

func (s *server) registerTemplateRoutes(r *router.HttpRouter) {
	// get templates
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathTemplates,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(handler.GetTemplatesRequest),
			Res: new(handler.GetTemplatesResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.templateHandler.GetTemplates(ctx, req.(*handler.GetTemplatesRequest), res.(*handler.GetTemplatesResponse))
			},
		},
	})

	// create template
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathTemplates,
		Method: http.MethodPost,
		Handler: router.Handler{
			Req: new(handler.CreateTemplateRequest),
			Res: new(handler.CreateTemplateResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.templateHandler.CreateTemplate(ctx, req.(*handler.CreateTemplateRequest), res.(*handler.CreateTemplateResponse))
			},
		},
	})

	// update template
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathTemplate,
		Method: http.MethodPut,
		Handler: router.Handler{
			Req: new(handler.UpdateTemplateRequest),
			Res: new(handler.UpdateTemplateResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.templateHandler.UpdateTemplate(ctx, req.(*handler.UpdateTemplateRequest), res.(*handler.UpdateTemplateResponse))
			},
		},
		ErrorMessage: "Failed to update template",
	})

	// delete template
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathTemplate,
		Method: http.MethodDelete,
		Handler: router.Handler{
			Req: new(handler.DeleteTemplateRequest),
			Res: new(handler.DeleteTemplateResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.templateHandler.DeleteTemplate(ctx, req.(*handler.DeleteTemplateRequest), res.(*handler.DeleteTemplateResponse))
			},
		},
		ErrorMessage: "Failed to delete template",
	})
}

func (s *server) registerEmailRoutes(r *router.HttpRouter) {
	// send email
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathSendEmail,
		Method: http.MethodPost,
		Handler: router.Handler{
			Req: new(handler.SendEmailRequest),
			Res: new(handler.SendEmailResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.emailHandler.SendEmail(ctx, req.(*handler.SendEmailRequest), res.(*handler.SendEmailResponse))
			},
		},
		ErrorMessage: "Failed to send email",
		ErrorStatus:  http.StatusInternalServerError,
	})
}

func (s *server) registerWebhookRoutes(r *router.HttpRouter) {
	var middlewares []router.Middleware
	if s.cfg.Webhook.Username != "" {
		middlewares = append(middlewares, router.NewBasicAuthMiddleware(s.cfg.Webhook.Username, s.cfg.Webhook.PasswordHash))
	}

	// on email open
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathOnEmailOpen,
		Method: http.MethodPost,
		Handler: router.Handler{
			Req: new(handler.OnOpenEventRequest),
			Res: new(handler.OnOpenEventResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.webhookHandler.OnOpenEvent(ctx, req.(*handler.OnOpenEventRequest), res.(*handler.OnOpenEventResponse))
			},
		},
		Middlewares: middlewares,
		ErrorStatus: http.StatusInternalServerError,
	})

	// on email click
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathOnEmailClick,
		Method: http.MethodPost,
		Handler: router.Handler{
			Req: new(handler.OnClickEventRequest),
			Res: new(handler.OnClickEventResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.webhookHandler.OnClickEvent(ctx, req.(*handler.OnClickEventRequest), res.(*handler.OnClickEventResponse))
			},
		},
		Middlewares: middlewares,
		ErrorStatus: http.StatusInternalServerError,
	})
}

func (s *server) registerAnalyticsRoutes(r *router.HttpRouter) {
	// open analytics
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathOpenAnalytics,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(handler.GetOpenAnalyticsRequest),
			Res: new(handler.GetOpenAnalyticsResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.analyticsHandler.GetOpenAnalytics(ctx, req.(*handler.GetOpenAnalyticsRequest), res.(*handler.GetOpenAnalyticsResponse))
			},
		},
	})

	// click analytics
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathClickAnalytics,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(handler.GetClickAnalyticsRequest),
			Res: new(handler.GetClickAnalyticsResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.analyticsHandler.GetClickAnalytics(ctx, req.(*handler.GetClickAnalyticsRequest), res.(*handler.GetClickAnalyticsResponse))
			},
		},
	})

	// device analytics
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathDeviceAnalytics,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(handler.GetDeviceAnalyticsRequest),
			Res: new(handler.GetDeviceAnalyticsResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.analyticsHandler.GetDeviceAnalytics(ctx, req.(*handler.GetDeviceAnalyticsRequest), res.(*handler.GetDeviceAnalyticsResponse))
			},
		},
	})

	// sent emails
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathSentEmails,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(handler.GetSentEmailsRequest),
			Res: new(handler.GetSentEmailsResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.analyticsHandler.GetSentEmails(ctx, req.(*handler.GetSentEmailsRequest), res.(*handler.GetSentEmailsResponse))
			},
		},
		ErrorMessage: "Failed to fetch sent emails",
	})

	// stats
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathStats,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(handler.GetStatsRequest),
			Res: new(handler.GetStatsResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.analyticsHandler.GetStats(ctx, req.(*handler.GetStatsRequest), res.(*handler.GetStatsResponse))
			},
		},
		ErrorMessage: "Failed to fetch stats",
	})

	// activities
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathActivities,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(handler.GetActivitiesRequest),
			Res: new(handler.GetActivitiesResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.analyticsHandler.GetActivities(ctx, req.(*handler.GetActivitiesRequest), res.(*handler.GetActivitiesResponse))
			},
		},
		ErrorMessage: "Failed to fetch activities",
	})
}
