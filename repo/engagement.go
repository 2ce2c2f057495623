package repo

import (
	"context"
	"time"

	"mailer/entity"
)

type EmailOpen struct {
	ID        *uint64
	EmailID   *uint64
	EventID   *string
	OpenedAt  *time.Time
	UserAgent *string
	IPAddress *string `gorm:"column:ip_address"`
}

func (m *EmailOpen) TableName() string {
	return "email_opens"
}

type EmailClick struct {
	ID         *uint64
	EmailID    *uint64
	EventID    *string
	ClickedURL *string `gorm:"column:clicked_url"`
	ClickedAt  *time.Time
	UserAgent  *string
	IPAddress  *string `gorm:"column:ip_address"`
}

func (m *EmailClick) TableName() string {
	return "email_clicks"
}

type EngagementRepo interface {
	// CreateOpen records an open. It reports false when the event id was seen before.
	CreateOpen(ctx context.Context, open *entity.EmailOpen) (bool, error)
	// CreateClick records a click. It reports false when the event id was seen before.
	CreateClick(ctx context.Context, click *entity.EmailClick) (bool, error)
	CreateOpens(ctx context.Context, opens []*entity.EmailOpen, batchSize int) error
	CreateClicks(ctx context.Context, clicks []*entity.EmailClick, batchSize int) error
	DeleteByTemplateID(ctx context.Context, templateID uint64) error
	DeleteAll(ctx context.Context) error
}

type engagementRepo struct {
	baseRepo BaseRepo
}

func NewEngagementRepo(_ context.Context, baseRepo BaseRepo) EngagementRepo {
	return &engagementRepo{
		baseRepo: baseRepo,
	}
}

func (r *engagementRepo) CreateOpen(ctx context.Context, open *entity.EmailOpen) (bool, error) {
	openModel := ToEmailOpenModel(open)

	if open.EventID == nil {
		if err := r.baseRepo.Create(ctx, openModel); err != nil {
			return false, err
		}
		open.ID = openModel.ID
		return true, nil
	}

	created, err := r.baseRepo.CreateIgnoreConflict(ctx, openModel)
	if err != nil {
		return false, err
	}
	open.ID = openModel.ID

	return created, nil
}

func (r *engagementRepo) CreateClick(ctx context.Context, click *entity.EmailClick) (bool, error) {
	clickModel := ToEmailClickModel(click)

	if click.EventID == nil {
		if err := r.baseRepo.Create(ctx, clickModel); err != nil {
			return false, err
		}
		click.ID = clickModel.ID
		return true, nil
	}

	created, err := r.baseRepo.CreateIgnoreConflict(ctx, clickModel)
	if err != nil {
		return false, err
	}
	click.ID = clickModel.ID

	return created, nil
}

func (r *engagementRepo) CreateOpens(ctx context.Context, opens []*entity.EmailOpen, batchSize int) error {
	if len(opens) == 0 {
		return nil
	}

	openModels := make([]*EmailOpen, len(opens))
	for i, open := range opens {
		openModels[i] = ToEmailOpenModel(open)
	}

	return r.baseRepo.CreateMany(ctx, &openModels, batchSize)
}

func (r *engagementRepo) CreateClicks(ctx context.Context, clicks []*entity.EmailClick, batchSize int) error {
	if len(clicks) == 0 {
		return nil
	}

	clickModels := make([]*EmailClick, len(clicks))
	for i, click := range clicks {
		clickModels[i] = ToEmailClickModel(click)
	}

	return r.baseRepo.CreateMany(ctx, &clickModels, batchSize)
}

func (r *engagementRepo) DeleteByTemplateID(ctx context.Context, templateID uint64) error {
	for _, table := range []string{"email_opens", "email_clicks"} {
		if _, err := r.baseRepo.Exec(ctx,
			"DELETE FROM "+table+" WHERE email_id IN (SELECT id FROM sent_emails WHERE template_id = ?)",
			templateID); err != nil {
			return err
		}
	}
	return nil
}

func (r *engagementRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.baseRepo.Delete(ctx, new(EmailOpen), nil); err != nil {
		return err
	}
	if _, err := r.baseRepo.Delete(ctx, new(EmailClick), nil); err != nil {
		return err
	}
	return nil
}

func ToEmailOpenModel(open *entity.EmailOpen) *EmailOpen {
	return &EmailOpen{
		ID:        open.ID,
		EmailID:   open.EmailID,
		EventID:   open.EventID,
		OpenedAt:  open.OpenedAt,
		UserAgent: open.UserAgent,
		IPAddress: open.IPAddress,
	}
}

func ToEmailClickModel(click *entity.EmailClick) *EmailClick {
	return &EmailClick{
		ID:         click.ID,
		EmailID:    click.EmailID,
		EventID:    click.EventID,
		ClickedURL: click.ClickedURL,
		ClickedAt:  click.ClickedAt,
		UserAgent:  click.UserAgent,
		IPAddress:  click.IPAddress,
	}
}
