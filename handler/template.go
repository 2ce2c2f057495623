package handler

import (
	"context"
	"time"

	"mailer/entity"
	"mailer/pkg/goutil"
	"mailer/repo"

	"github.com/rs/zerolog/log"
)

const msgTemplateDeleted = "Template deleted successfully"

type TemplateHandler interface {
	GetTemplates(ctx context.Context, req *GetTemplatesRequest, res *GetTemplatesResponse) error
	CreateTemplate(ctx context.Context, req *CreateTemplateRequest, res *CreateTemplateResponse) error
	UpdateTemplate(ctx context.Context, req *UpdateTemplateRequest, res *UpdateTemplateResponse) error
	DeleteTemplate(ctx context.Context, req *DeleteTemplateRequest, res *DeleteTemplateResponse) error
}

type templateHandler struct {
	txService      repo.TxService
	templateRepo   repo.TemplateRepo
	sentEmailRepo  repo.SentEmailRepo
	engagementRepo repo.EngagementRepo
}

func NewTemplateHandler(txService repo.TxService, templateRepo repo.TemplateRepo,
	sentEmailRepo repo.SentEmailRepo, engagementRepo repo.EngagementRepo) TemplateHandler {
	return &templateHandler{
		txService:      txService,
		templateRepo:   templateRepo,
		sentEmailRepo:  sentEmailRepo,
		engagementRepo: engagementRepo,
	}
}

type GetTemplatesRequest struct{}

// GetTemplatesResponse is rendered as a bare JSON array.
type GetTemplatesResponse []*entity.Template

func (h *templateHandler) GetTemplates(ctx context.Context, _ *GetTemplatesRequest, res *GetTemplatesResponse) error {
	templates, err := h.templateRepo.GetMany(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("get templates failed: %v", err)
		return err
	}

	*res = templates

	return nil
}

type CreateTemplateRequest struct {
	Name        *string `json:"name,omitempty" validate:"required,max=255"`
	Subject     *string `json:"subject,omitempty" validate:"required,max=255"`
	HtmlContent *string `json:"html_content,omitempty" validate:"required"`
}

func (req *CreateTemplateRequest) ToTemplate() *entity.Template {
	now := time.Now()
	return &entity.Template{
		Name:        req.Name,
		Subject:     req.Subject,
		HtmlContent: req.HtmlContent,
		CreatedAt:   goutil.Time(now),
		UpdatedAt:   goutil.Time(now),
	}
}

type CreateTemplateResponse struct {
	*entity.Template
}

func (h *templateHandler) CreateTemplate(ctx context.Context, req *CreateTemplateRequest, res *CreateTemplateResponse) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	template := req.ToTemplate()

	id, err := h.templateRepo.Create(ctx, template)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("create template failed: %v", err)
		return err
	}
	template.ID = goutil.Uint64(id)

	res.Template = template

	return nil
}

type UpdateTemplateRequest struct {
	TemplateID  *uint64 `schema:"id" json:"-" validate:"required"`
	Name        *string `json:"name,omitempty" validate:"required,max=255"`
	Subject     *string `json:"subject,omitempty" validate:"required,max=255"`
	HtmlContent *string `json:"html_content,omitempty" validate:"required"`
}

func (req *UpdateTemplateRequest) GetTemplateID() uint64 {
	if req != nil && req.TemplateID != nil {
		return *req.TemplateID
	}
	return 0
}

type UpdateTemplateResponse struct {
	*entity.Template
}

func (h *templateHandler) UpdateTemplate(ctx context.Context, req *UpdateTemplateRequest, res *UpdateTemplateResponse) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	var template *entity.Template
	if err := h.txService.RunTx(ctx, func(ctx context.Context) error {
		var err error

		template, err = h.templateRepo.GetByID(ctx, req.GetTemplateID())
		if err != nil {
			return err
		}

		template.Update(&entity.Template{
			Name:        req.Name,
			Subject:     req.Subject,
			HtmlContent: req.HtmlContent,
			UpdatedAt:   goutil.Time(time.Now()),
		})

		if err := h.templateRepo.Update(ctx, template); err != nil {
			return err
		}

		// re-read so storage-side timestamps are returned
		template, err = h.templateRepo.GetByID(ctx, req.GetTemplateID())
		return err
	}); err != nil {
		log.Ctx(ctx).Error().Msgf("update template failed: %v", err)
		return err
	}

	res.Template = template

	return nil
}

type DeleteTemplateRequest struct {
	TemplateID *uint64 `schema:"id" json:"-" validate:"required"`
}

func (req *DeleteTemplateRequest) GetTemplateID() uint64 {
	if req != nil && req.TemplateID != nil {
		return *req.TemplateID
	}
	return 0
}

type DeleteTemplateResponse struct {
	Message         *string          `json:"message"`
	DeletedTemplate *entity.Template `json:"deletedTemplate"`
}

// DeleteTemplate removes the template together with its sends and their engagement rows.
func (h *templateHandler) DeleteTemplate(ctx context.Context, req *DeleteTemplateRequest, res *DeleteTemplateResponse) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	templateID := req.GetTemplateID()

	var template *entity.Template
	if err := h.txService.RunTx(ctx, func(ctx context.Context) error {
		var err error

		template, err = h.templateRepo.GetByID(ctx, templateID)
		if err != nil {
			return err
		}

		if err := h.engagementRepo.DeleteByTemplateID(ctx, templateID); err != nil {
			return err
		}

		if err := h.sentEmailRepo.DeleteByTemplateID(ctx, templateID); err != nil {
			return err
		}

		return h.templateRepo.Delete(ctx, templateID)
	}); err != nil {
		log.Ctx(ctx).Error().Msgf("delete template failed: %v", err)
		return err
	}

	res.Message = goutil.String(msgTemplateDeleted)
	res.DeletedTemplate = template

	return nil
}
