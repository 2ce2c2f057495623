package dep

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mailer/config"

	brevo "github.com/getbrevo/brevo-go/lib"
)

const (
	brevoBaseURL = "https://api.brevo.com/v3"
)

type brevoResp struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type brevoService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	from    string
}

func newBrevoService(cfg config.Provider, client *http.Client) EmailService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = brevoBaseURL
	}

	return &brevoService{
		client:  client,
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.FromEmail,
	}
}

func (s *brevoService) CheckConfig() error {
	return checkCredentials(s.apiKey, s.from)
}

// SendEmail relies on the account-level open and click tracking of Brevo.
func (s *brevoService) SendEmail(ctx context.Context, input *SendEmailInput) (string, error) {
	body := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Email: s.from,
		},
		ReplyTo: &brevo.SendSmtpEmailReplyTo{
			Email: s.from,
		},
		To:          []brevo.SendSmtpEmailTo{{Email: input.To}},
		Subject:     input.Subject,
		HtmlContent: input.HtmlBody,
		ScheduledAt: time.Now().Add(10 * time.Second),
	}
	if input.Tag != "" {
		body.Tags = []string{input.Tag}
	}

	var res struct {
		brevo.CreateSmtpEmail
		brevoResp
	}
	status, err := postJson(ctx, s.client, s.baseURL+"/smtp/email", map[string]string{
		"api-key": s.apiKey,
	}, body, &res)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}

	if res.Message != "" || status >= http.StatusBadRequest {
		return "", fmt.Errorf("encounter brevo error: %s, code: %s, status: %d", res.Message, res.Code, status)
	}

	return res.MessageId, nil
}

func (s *brevoService) Close(_ context.Context) error {
	s.client.CloseIdleConnections()
	return nil
}
