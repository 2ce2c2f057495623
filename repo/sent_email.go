package repo

import (
	"context"
	"errors"
	"time"

	"mailer/entity"
	"mailer/pkg/errutil"
	"mailer/pkg/goutil"

	"gorm.io/gorm"
)

var (
	ErrSentEmailNotFound = errutil.NotFoundError(errors.New("sent email not found"))
)

const messageIDCachePrefix = "message_id"

type SentEmail struct {
	ID             *uint64
	TemplateID     *uint64
	Recipient      *string
	SentAt         *time.Time
	Status         *string
	Opens          *uint64
	Clicks         *uint64
	LastActivityAt *time.Time
	MessageID      *string
}

func (m *SentEmail) TableName() string {
	return "sent_emails"
}

func (m *SentEmail) GetID() uint64 {
	if m != nil && m.ID != nil {
		return *m.ID
	}
	return 0
}

// sentEmailLog is a row of the send log query.
type sentEmailLog struct {
	ID             *uint64
	TemplateName   *string
	Recipient      *string
	SentAt         *time.Time
	Status         *string
	Opens          *uint64
	Clicks         *uint64
	LastActivityAt *time.Time
	MessageID      *string
}

type SentEmailRepo interface {
	Create(ctx context.Context, sentEmail *entity.SentEmail) (uint64, error)
	// CreateMany inserts sentEmails in batches and sets their IDs.
	CreateMany(ctx context.Context, sentEmails []*entity.SentEmail, batchSize int) error
	// GetIDByMessageID resolves a provider message id to the sent email id.
	GetIDByMessageID(ctx context.Context, messageID string) (uint64, error)
	GetLog(ctx context.Context, pagination *entity.Pagination) ([]*entity.SentEmailLog, error)
	IncrementOpens(ctx context.Context, sentEmailID uint64, at time.Time) error
	IncrementClicks(ctx context.Context, sentEmailID uint64, at time.Time) error
	DeleteByTemplateID(ctx context.Context, templateID uint64) error
	DeleteAll(ctx context.Context) error
}

type sentEmailRepo struct {
	baseRepo  BaseRepo
	baseCache BaseCache
}

func NewSentEmailRepo(_ context.Context, baseRepo BaseRepo, baseCache BaseCache) SentEmailRepo {
	return &sentEmailRepo{
		baseRepo:  baseRepo,
		baseCache: baseCache,
	}
}

func (r *sentEmailRepo) Create(ctx context.Context, sentEmail *entity.SentEmail) (uint64, error) {
	sentEmailModel := ToSentEmailModel(sentEmail)

	if err := r.baseRepo.Create(ctx, sentEmailModel); err != nil {
		return 0, err
	}

	return sentEmailModel.GetID(), nil
}

func (r *sentEmailRepo) CreateMany(ctx context.Context, sentEmails []*entity.SentEmail, batchSize int) error {
	if len(sentEmails) == 0 {
		return nil
	}

	sentEmailModels := make([]*SentEmail, len(sentEmails))
	for i, sentEmail := range sentEmails {
		sentEmailModels[i] = ToSentEmailModel(sentEmail)
	}

	if err := r.baseRepo.CreateMany(ctx, &sentEmailModels, batchSize); err != nil {
		return err
	}

	for i, sentEmailModel := range sentEmailModels {
		sentEmails[i].ID = sentEmailModel.ID
	}

	return nil
}

func (r *sentEmailRepo) GetIDByMessageID(ctx context.Context, messageID string) (uint64, error) {
	if v, ok := r.baseCache.Get(ctx, messageIDCachePrefix, messageID); ok {
		return v.(uint64), nil
	}

	sentEmailModel := new(SentEmail)
	if err := r.baseRepo.Get(ctx, sentEmailModel, &Filter{
		Conditions: []*Condition{
			{
				Field: "message_id",
				Op:    OpEq,
				Value: messageID,
			},
		},
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSentEmailNotFound
		}
		return 0, err
	}

	r.baseCache.Set(ctx, messageIDCachePrefix, messageID, sentEmailModel.GetID())

	return sentEmailModel.GetID(), nil
}

const sentEmailLogSql = `SELECT se.id, t.name AS template_name, se.recipient, se.sent_at, se.status,
se.opens, se.clicks, se.last_activity_at, se.message_id
FROM sent_emails se
LEFT JOIN templates t ON t.id = se.template_id
ORDER BY se.sent_at DESC, se.id DESC`

func (r *sentEmailRepo) GetLog(ctx context.Context, pagination *entity.Pagination) ([]*entity.SentEmailLog, error) {
	var (
		query = sentEmailLogSql
		args  = make([]interface{}, 0)
		rows  = make([]*sentEmailLog, 0)
	)

	if limit := pagination.GetLimit(); limit > 0 {
		page := pagination.GetPage()
		if page == 0 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	if err := r.baseRepo.Raw(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	logs := make([]*entity.SentEmailLog, len(rows))
	for i, row := range rows {
		logs[i] = &entity.SentEmailLog{
			ID:             row.ID,
			TemplateName:   row.TemplateName,
			Recipient:      row.Recipient,
			SentAt:         row.SentAt,
			Status:         row.Status,
			Opens:          row.Opens,
			Clicks:         row.Clicks,
			LastActivityAt: row.LastActivityAt,
			MessageID:      row.MessageID,
		}
		if logs[i].Opens == nil {
			logs[i].Opens = goutil.Uint64(0)
		}
		if logs[i].Clicks == nil {
			logs[i].Clicks = goutil.Uint64(0)
		}
	}

	return logs, nil
}

func (r *sentEmailRepo) IncrementOpens(ctx context.Context, sentEmailID uint64, at time.Time) error {
	return r.increment(ctx, "opens", sentEmailID, at)
}

func (r *sentEmailRepo) IncrementClicks(ctx context.Context, sentEmailID uint64, at time.Time) error {
	return r.increment(ctx, "clicks", sentEmailID, at)
}

func (r *sentEmailRepo) increment(ctx context.Context, counter string, sentEmailID uint64, at time.Time) error {
	n, err := r.baseRepo.UpdateColumns(ctx, new(SentEmail), &Filter{
		Conditions: []*Condition{
			{
				Field: "id",
				Op:    OpEq,
				Value: sentEmailID,
			},
		},
	}, map[string]interface{}{
		counter:            gorm.Expr(counter+" + ?", 1),
		"last_activity_at": at,
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrSentEmailNotFound
	}

	return nil
}

func (r *sentEmailRepo) DeleteByTemplateID(ctx context.Context, templateID uint64) error {
	if _, err := r.baseRepo.Delete(ctx, new(SentEmail), &Filter{
		Conditions: []*Condition{
			{
				Field: "template_id",
				Op:    OpEq,
				Value: templateID,
			},
		},
	}); err != nil {
		return err
	}

	// message ids of deleted sends must not resolve anymore
	r.baseCache.Flush(ctx)

	return nil
}

func (r *sentEmailRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.baseRepo.Delete(ctx, new(SentEmail), nil); err != nil {
		return err
	}

	r.baseCache.Flush(ctx)

	return nil
}

func ToSentEmailModel(sentEmail *entity.SentEmail) *SentEmail {
	return &SentEmail{
		ID:             sentEmail.ID,
		TemplateID:     sentEmail.TemplateID,
		Recipient:      sentEmail.Recipient,
		SentAt:         sentEmail.SentAt,
		Status:         sentEmail.Status,
		Opens:          sentEmail.Opens,
		Clicks:         sentEmail.Clicks,
		LastActivityAt: sentEmail.LastActivityAt,
		MessageID:      sentEmail.MessageID,
	}
}
