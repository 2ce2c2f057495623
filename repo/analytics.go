package repo

import (
	"context"
	"time"

	"mailer/entity"
	"mailer/pkg/goutil"
)

const (
	openBreakdownSql = `SELECT t.name AS template_name, se.recipient AS recipient,
COUNT(eo.id) AS open_count, MIN(eo.opened_at) AS first_opened_at
FROM sent_emails se
JOIN templates t ON t.id = se.template_id
LEFT JOIN email_opens eo ON eo.email_id = se.id
GROUP BY t.name, se.recipient
ORDER BY t.name, se.recipient`

	clickBreakdownSql = `SELECT t.name AS template_name, se.recipient AS recipient,
COUNT(ec.id) AS click_count, MIN(ec.clicked_at) AS first_clicked_at
FROM sent_emails se
JOIN templates t ON t.id = se.template_id
LEFT JOIN email_clicks ec ON ec.email_id = se.id
GROUP BY t.name, se.recipient
ORDER BY t.name, se.recipient`

	sendSummarySql = `SELECT COUNT(*) AS total_emails,
COUNT(CASE WHEN opens > 0 THEN 1 END) AS opened_emails,
COUNT(CASE WHEN clicks > 0 THEN 1 END) AS clicked_emails
FROM sent_emails`

	recentEmailsSql = `SELECT t.name AS template, se.recipient, se.sent_at, se.status
FROM sent_emails se
JOIN templates t ON t.id = se.template_id
ORDER BY se.sent_at DESC, se.id DESC
LIMIT ?`

	recentSendsSql = `SELECT recipient, sent_at
FROM sent_emails
ORDER BY sent_at DESC, id DESC
LIMIT ?`

	userAgentCountsSql = `SELECT user_agent, COUNT(*) AS open_count
FROM email_opens
GROUP BY user_agent`
)

type openBreakdownRow struct {
	TemplateName  *string
	Recipient     *string
	OpenCount     uint64
	FirstOpenedAt *time.Time
}

type clickBreakdownRow struct {
	TemplateName   *string
	Recipient      *string
	ClickCount     uint64
	FirstClickedAt *time.Time
}

type sendSummaryRow struct {
	TotalEmails   uint64
	OpenedEmails  uint64
	ClickedEmails uint64
}

type recentEmailRow struct {
	Template  *string
	Recipient *string
	SentAt    *time.Time
	Status    *string
}

type recentSendRow struct {
	Recipient *string
	SentAt    *time.Time
}

// UserAgentCount is the number of opens recorded for one user agent string.
type UserAgentCount struct {
	UserAgent *string
	OpenCount uint64
}

func (m *UserAgentCount) GetUserAgent() string {
	if m != nil && m.UserAgent != nil {
		return *m.UserAgent
	}
	return ""
}

type AnalyticsRepo interface {
	GetOpenBreakdown(ctx context.Context) ([]*entity.OpenBreakdown, error)
	GetClickBreakdown(ctx context.Context) ([]*entity.ClickBreakdown, error)
	GetSendSummary(ctx context.Context) (*entity.SendSummary, error)
	GetRecentEmails(ctx context.Context, limit int) ([]*entity.RecentEmail, error)
	GetActivities(ctx context.Context, limit int) ([]*entity.Activity, error)
	GetUserAgentCounts(ctx context.Context) ([]*UserAgentCount, error)
}

type analyticsRepo struct {
	baseRepo BaseRepo
}

func NewAnalyticsRepo(_ context.Context, baseRepo BaseRepo) AnalyticsRepo {
	return &analyticsRepo{
		baseRepo: baseRepo,
	}
}

func (r *analyticsRepo) GetOpenBreakdown(ctx context.Context) ([]*entity.OpenBreakdown, error) {
	rows := make([]*openBreakdownRow, 0)
	if err := r.baseRepo.Raw(ctx, &rows, openBreakdownSql); err != nil {
		return nil, err
	}

	breakdown := make([]*entity.OpenBreakdown, len(rows))
	for i, row := range rows {
		breakdown[i] = &entity.OpenBreakdown{
			TemplateName:  row.TemplateName,
			Recipient:     row.Recipient,
			OpenCount:     goutil.Uint64(row.OpenCount),
			FirstOpenedAt: row.FirstOpenedAt,
		}
	}

	return breakdown, nil
}

func (r *analyticsRepo) GetClickBreakdown(ctx context.Context) ([]*entity.ClickBreakdown, error) {
	rows := make([]*clickBreakdownRow, 0)
	if err := r.baseRepo.Raw(ctx, &rows, clickBreakdownSql); err != nil {
		return nil, err
	}

	breakdown := make([]*entity.ClickBreakdown, len(rows))
	for i, row := range rows {
		breakdown[i] = &entity.ClickBreakdown{
			TemplateName:   row.TemplateName,
			Recipient:      row.Recipient,
			ClickCount:     goutil.Uint64(row.ClickCount),
			FirstClickedAt: row.FirstClickedAt,
		}
	}

	return breakdown, nil
}

func (r *analyticsRepo) GetSendSummary(ctx context.Context) (*entity.SendSummary, error) {
	row := new(sendSummaryRow)
	if err := r.baseRepo.Raw(ctx, row, sendSummarySql); err != nil {
		return nil, err
	}

	return &entity.SendSummary{
		TotalEmails:   row.TotalEmails,
		OpenedEmails:  row.OpenedEmails,
		ClickedEmails: row.ClickedEmails,
	}, nil
}

func (r *analyticsRepo) GetRecentEmails(ctx context.Context, limit int) ([]*entity.RecentEmail, error) {
	rows := make([]*recentEmailRow, 0)
	if err := r.baseRepo.Raw(ctx, &rows, recentEmailsSql, limit); err != nil {
		return nil, err
	}

	recentEmails := make([]*entity.RecentEmail, len(rows))
	for i, row := range rows {
		recentEmails[i] = &entity.RecentEmail{
			Template:  row.Template,
			Recipient: row.Recipient,
			SentAt:    row.SentAt,
			Status:    row.Status,
		}
	}

	return recentEmails, nil
}

// GetActivities lists the most recent sends as activity entries.
func (r *analyticsRepo) GetActivities(ctx context.Context, limit int) ([]*entity.Activity, error) {
	rows := make([]*recentSendRow, 0)
	if err := r.baseRepo.Raw(ctx, &rows, recentSendsSql, limit); err != nil {
		return nil, err
	}

	activities := make([]*entity.Activity, len(rows))
	for i, row := range rows {
		activities[i] = &entity.Activity{
			Type:        goutil.String(entity.ActivityTypeEmailSent),
			Description: row.Recipient,
			Timestamp:   row.SentAt,
		}
	}

	return activities, nil
}

func (r *analyticsRepo) GetUserAgentCounts(ctx context.Context) ([]*UserAgentCount, error) {
	rows := make([]*UserAgentCount, 0)
	if err := r.baseRepo.Raw(ctx, &rows, userAgentCountsSql); err != nil {
		return nil, err
	}
	return rows, nil
}
