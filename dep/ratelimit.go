package dep

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimitedEmailService struct {
	EmailService
	limiter *rate.Limiter
}

// NewRateLimitedEmailService throttles SendEmail to limit calls per second.
func NewRateLimitedEmailService(svc EmailService, limit float64, burst int) EmailService {
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedEmailService{
		EmailService: svc,
		limiter:      rate.NewLimiter(rate.Limit(limit), burst),
	}
}

func (s *rateLimitedEmailService) SendEmail(ctx context.Context, input *SendEmailInput) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.EmailService.SendEmail(ctx, input)
}
