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
	ErrTemplateNotFound = errutil.NotFoundError(errors.New("template not found"))
)

type Template struct {
	ID          *uint64
	Name        *string
	Subject     *string
	HtmlContent *string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

func (m *Template) TableName() string {
	return "templates"
}

func (m *Template) GetID() uint64 {
	if m != nil && m.ID != nil {
		return *m.ID
	}
	return 0
}

type TemplateRepo interface {
	Create(ctx context.Context, template *entity.Template) (uint64, error)
	CreateMany(ctx context.Context, templates []*entity.Template) error
	GetByID(ctx context.Context, templateID uint64) (*entity.Template, error)
	GetMany(ctx context.Context) ([]*entity.Template, error)
	Update(ctx context.Context, template *entity.Template) error
	Delete(ctx context.Context, templateID uint64) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (uint64, error)
}

type templateRepo struct {
	baseRepo BaseRepo
}

func NewTemplateRepo(_ context.Context, baseRepo BaseRepo) TemplateRepo {
	return &templateRepo{
		baseRepo: baseRepo,
	}
}

func (r *templateRepo) Create(ctx context.Context, template *entity.Template) (uint64, error) {
	templateModel := ToTemplateModel(template)

	if err := r.baseRepo.Create(ctx, templateModel); err != nil {
		return 0, err
	}

	return templateModel.GetID(), nil
}

func (r *templateRepo) CreateMany(ctx context.Context, templates []*entity.Template) error {
	if len(templates) == 0 {
		return nil
	}

	templateModels := make([]*Template, len(templates))
	for i, template := range templates {
		templateModels[i] = ToTemplateModel(template)
	}

	if err := r.baseRepo.CreateMany(ctx, &templateModels, len(templateModels)); err != nil {
		return err
	}

	for i, templateModel := range templateModels {
		templates[i].ID = templateModel.ID
	}

	return nil
}

func (r *templateRepo) GetByID(ctx context.Context, templateID uint64) (*entity.Template, error) {
	templateModel := new(Template)

	if err := r.baseRepo.Get(ctx, templateModel, &Filter{
		Conditions: []*Condition{
			{
				Field: "id",
				Op:    OpEq,
				Value: templateID,
			},
		},
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	return ToTemplate(templateModel), nil
}

func (r *templateRepo) GetMany(ctx context.Context) ([]*entity.Template, error) {
	res, _, err := r.baseRepo.GetMany(ctx, new(Template), &Filter{
		Order: "created_at DESC",
	})
	if err != nil {
		return nil, err
	}

	templates := make([]*entity.Template, len(res))
	for i, m := range res {
		templates[i] = ToTemplate(m.(*Template))
	}

	return templates, nil
}

func (r *templateRepo) Update(ctx context.Context, template *entity.Template) error {
	if template.UpdatedAt == nil {
		template.UpdatedAt = goutil.Time(time.Now())
	}

	templateModel := &Template{
		ID:          template.ID,
		Name:        template.Name,
		Subject:     template.Subject,
		HtmlContent: template.HtmlContent,
		UpdatedAt:   template.UpdatedAt,
	}

	return r.baseRepo.Update(ctx, templateModel)
}

func (r *templateRepo) Delete(ctx context.Context, templateID uint64) error {
	n, err := r.baseRepo.Delete(ctx, new(Template), &Filter{
		Conditions: []*Condition{
			{
				Field: "id",
				Op:    OpEq,
				Value: templateID,
			},
		},
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

func (r *templateRepo) DeleteAll(ctx context.Context) error {
	_, err := r.baseRepo.Delete(ctx, new(Template), nil)
	return err
}

func (r *templateRepo) Count(ctx context.Context) (uint64, error) {
	return r.baseRepo.Count(ctx, new(Template), nil)
}

func ToTemplateModel(template *entity.Template) *Template {
	return &Template{
		ID:          template.ID,
		Name:        template.Name,
		Subject:     template.Subject,
		HtmlContent: template.HtmlContent,
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
	}
}

func ToTemplate(template *Template) *entity.Template {
	return &entity.Template{
		ID:          template.ID,
		Name:        template.Name,
		Subject:     template.Subject,
		HtmlContent: template.HtmlContent,
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
	}
}
