package handler

import (
	"context"
	"time"

	"mailer/dep"
	"mailer/entity"
	"mailer/pkg/errutil"
	"mailer/pkg/goutil"
	"mailer/pkg/metrics"
	"mailer/pkg/mq"
	"mailer/repo"

	"github.com/rs/zerolog/log"
)

const msgEmailSent = "Email sent successfully"

type EmailHandler interface {
	SendEmail(ctx context.Context, req *SendEmailRequest, res *SendEmailResponse) error
}

type emailHandler struct {
	txService     repo.TxService
	templateRepo  repo.TemplateRepo
	sentEmailRepo repo.SentEmailRepo
	emailService  dep.EmailService
	publisher     mq.Publisher
}

func NewEmailHandler(txService repo.TxService, templateRepo repo.TemplateRepo, sentEmailRepo repo.SentEmailRepo,
	emailService dep.EmailService, publisher mq.Publisher) EmailHandler {
	return &emailHandler{
		txService:     txService,
		templateRepo:  templateRepo,
		sentEmailRepo: sentEmailRepo,
		emailService:  emailService,
		publisher:     publisher,
	}
}

type SendEmailRequest struct {
	TemplateID *uint64 `json:"template_id,omitempty" validate:"required"`
	ToEmail    *string `json:"to_email,omitempty" validate:"required,email"`
}

func (req *SendEmailRequest) GetTemplateID() uint64 {
	if req != nil && req.TemplateID != nil {
		return *req.TemplateID
	}
	return 0
}

func (req *SendEmailRequest) GetToEmail() string {
	if req != nil && req.ToEmail != nil {
		return *req.ToEmail
	}
	return ""
}

type SendEmailResponse struct {
	Success *bool   `json:"success"`
	Message *string `json:"message"`
	EmailID *uint64 `json:"emailId"`
}

func (h *emailHandler) SendEmail(ctx context.Context, req *SendEmailRequest, res *SendEmailResponse) (err error) {
	defer func() {
		if err != nil {
			metrics.EmailSendFailuresTotal.WithLabelValues(string(errutil.GetErrorType(err))).Inc()
		}
	}()

	if err := h.emailService.CheckConfig(); err != nil {
		log.Ctx(ctx).Error().Msgf("email service not configured: %v", err)
		return errutil.ConfigurationError(err)
	}

	if err := validateRequest(req); err != nil {
		return err
	}

	template, err := h.templateRepo.GetByID(ctx, req.GetTemplateID())
	if err != nil {
		log.Ctx(ctx).Error().Msgf("get template failed: %v, template_id: %d", err, req.GetTemplateID())
		return err
	}

	messageID, err := h.emailService.SendEmail(ctx, &dep.SendEmailInput{
		To:       req.GetToEmail(),
		Subject:  template.GetSubject(),
		HtmlBody: template.GetHtmlContent(),
		Tag:      template.GetName(),
	})
	if err != nil {
		log.Ctx(ctx).Error().Msgf("send email failed: %v, template_id: %d", err, template.GetID())
		return errutil.SendFailureError(err)
	}

	sentEmail := &entity.SentEmail{
		TemplateID: template.ID,
		Recipient:  req.ToEmail,
		SentAt:     goutil.Time(time.Now()),
		Status:     goutil.String(string(entity.SentEmailStatusSent)),
		Opens:      goutil.Uint64(0),
		Clicks:     goutil.Uint64(0),
	}
	if messageID != "" {
		sentEmail.MessageID = goutil.String(messageID)
	}

	if err := h.txService.RunTx(ctx, func(ctx context.Context) error {
		id, err := h.sentEmailRepo.Create(ctx, sentEmail)
		if err != nil {
			return err
		}
		sentEmail.ID = goutil.Uint64(id)
		return nil
	}); err != nil {
		log.Ctx(ctx).Error().Msgf("record sent email failed: %v, message_id: %s", err, messageID)
		return err
	}

	metrics.EmailsSentTotal.Inc()

	if err := h.publisher.SendMessage(mq.NewEmailMessage(mq.PayloadEmailSent, &mq.EmailEvent{
		EmailID:    sentEmail.ID,
		TemplateID: sentEmail.TemplateID,
		MessageID:  sentEmail.MessageID,
		Recipient:  sentEmail.Recipient,
		OccurredAt: sentEmail.SentAt,
	})); err != nil {
		log.Ctx(ctx).Warn().Msgf("publish email sent event failed: %v", err)
	}

	res.Success = goutil.Bool(true)
	res.Message = goutil.String(msgEmailSent)
	res.EmailID = sentEmail.ID

	return nil
}
