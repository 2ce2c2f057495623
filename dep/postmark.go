package dep

import (
	"context"
	"fmt"
	"net/http"

	"mailer/config"
)

const (
	postmarkBaseURL    = "https://api.postmarkapp.com"
	postmarkTrackLinks = "HtmlAndText"
)

type postmarkEmail struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	HtmlBody      string `json:"HtmlBody"`
	Tag           string `json:"Tag,omitempty"`
	MessageStream string `json:"MessageStream"`
	TrackOpens    bool   `json:"TrackOpens"`
	TrackLinks    string `json:"TrackLinks"`
}

type postmarkResp struct {
	To          string `json:"To"`
	SubmittedAt string `json:"SubmittedAt"`
	MessageID   string `json:"MessageID"`
	ErrorCode   int    `json:"ErrorCode"`
	Message     string `json:"Message"`
}

type postmarkService struct {
	client        *http.Client
	baseURL       string
	apiKey        string
	from          string
	messageStream string
}

func newPostmarkService(cfg config.Provider, client *http.Client) EmailService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = postmarkBaseURL
	}

	messageStream := cfg.MessageStream
	if messageStream == "" {
		messageStream = "outbound"
	}

	return &postmarkService{
		client:        client,
		baseURL:       baseURL,
		apiKey:        cfg.APIKey,
		from:          cfg.FromEmail,
		messageStream: messageStream,
	}
}

func (s *postmarkService) CheckConfig() error {
	return checkCredentials(s.apiKey, s.from)
}

func (s *postmarkService) SendEmail(ctx context.Context, input *SendEmailInput) (string, error) {
	body := postmarkEmail{
		From:          s.from,
		To:            input.To,
		Subject:       input.Subject,
		HtmlBody:      input.HtmlBody,
		Tag:           input.Tag,
		MessageStream: s.messageStream,
		TrackOpens:    true,
		TrackLinks:    postmarkTrackLinks,
	}

	res := new(postmarkResp)
	status, err := postJson(ctx, s.client, s.baseURL+"/email", map[string]string{
		"X-Postmark-Server-Token": s.apiKey,
	}, body, res)
	if err != nil {
		return "", fmt.Errorf("postmark request failed: %w", err)
	}

	if status != http.StatusOK || res.ErrorCode != 0 {
		return "", fmt.Errorf("encounter postmark error: %s, code: %d, status: %d", res.Message, res.ErrorCode, status)
	}

	return res.MessageID, nil
}

func (s *postmarkService) Close(_ context.Context) error {
	s.client.CloseIdleConnections()
	return nil
}
