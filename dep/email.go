package dep

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mailer/config"
)

var (
	ErrMissingAPIKey      = errors.New("email provider api key is not configured")
	ErrMissingFromAddress = errors.New("from address is not configured")
	ErrUnsupportedService = errors.New("unsupported email provider")
)

type SendEmailInput struct {
	To       string
	Subject  string
	HtmlBody string
	// Tag groups sends in the provider dashboard, usually the template name.
	Tag string
}

type EmailService interface {
	// CheckConfig reports missing credentials without calling the provider.
	CheckConfig() error
	// SendEmail sends one message with open and link tracking and returns the provider message id.
	SendEmail(ctx context.Context, input *SendEmailInput) (string, error)
	Close(ctx context.Context) error
}

func NewEmailService(_ context.Context, cfg config.Provider) (EmailService, error) {
	client := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	var svc EmailService
	switch cfg.Name {
	case config.ProviderPostmark:
		svc = newPostmarkService(cfg, client)
	case config.ProviderBrevo:
		svc = newBrevoService(cfg, client)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedService, cfg.Name)
	}

	if cfg.RateLimit > 0 {
		svc = NewRateLimitedEmailService(svc, cfg.RateLimit, cfg.Burst)
	}

	return svc, nil
}

func checkCredentials(apiKey, from string) error {
	if apiKey == "" {
		return ErrMissingAPIKey
	}
	if from == "" {
		return ErrMissingFromAddress
	}
	return nil
}
