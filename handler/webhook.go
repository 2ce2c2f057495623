package handler

import (
	"context"
	"time"

	"mailer/entity"
	"mailer/pkg/goutil"
	"mailer/pkg/metrics"
	"mailer/pkg/mq"
	"mailer/repo"

	"github.com/rs/zerolog/log"
)

type WebhookHandler interface {
	OnOpenEvent(ctx context.Context, req *OnOpenEventRequest, res *OnOpenEventResponse) error
	OnClickEvent(ctx context.Context, req *OnClickEventRequest, res *OnClickEventResponse) error
}

type webhookHandler struct {
	txService      repo.TxService
	sentEmailRepo  repo.SentEmailRepo
	engagementRepo repo.EngagementRepo
	publisher      mq.Publisher
}

func NewWebhookHandler(txService repo.TxService, sentEmailRepo repo.SentEmailRepo,
	engagementRepo repo.EngagementRepo, publisher mq.Publisher) WebhookHandler {
	return &webhookHandler{
		txService:      txService,
		sentEmailRepo:  sentEmailRepo,
		engagementRepo: engagementRepo,
		publisher:      publisher,
	}
}

// TrackingEvent holds the fields shared by provider open and click payloads.
type TrackingEvent struct {
	MessageID  *string    `json:"MessageID,omitempty" validate:"required"`
	Recipient  *string    `json:"Recipient,omitempty"`
	ReceivedAt *time.Time `json:"ReceivedAt,omitempty"`
	UserAgent  *string    `json:"UserAgent,omitempty"`
	IP         *string    `json:"IP,omitempty" validate:"omitempty,max=45"`
	// EventID is an optional delivery id; when set, redeliveries are ignored.
	EventID *string `json:"EventID,omitempty"`
}

func (e *TrackingEvent) GetMessageID() string {
	if e != nil && e.MessageID != nil {
		return *e.MessageID
	}
	return ""
}

func (e *TrackingEvent) GetReceivedAt() time.Time {
	if e != nil && e.ReceivedAt != nil {
		return *e.ReceivedAt
	}
	return time.Now()
}

type OnOpenEventRequest struct {
	TrackingEvent
}

type OnOpenEventResponse struct {
	Success *bool `json:"success"`
}

type OnClickEventRequest struct {
	TrackingEvent
	OriginalLink *string `json:"OriginalLink,omitempty"`
}

type OnClickEventResponse struct {
	Success *bool `json:"success"`
}

func (h *webhookHandler) OnOpenEvent(ctx context.Context, req *OnOpenEventRequest, res *OnOpenEventResponse) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	receivedAt := req.GetReceivedAt()
	open := &entity.EmailOpen{
		EventID:   req.EventID,
		OpenedAt:  goutil.Time(receivedAt),
		UserAgent: req.UserAgent,
		IPAddress: req.IP,
	}

	var created bool
	if err := h.txService.RunTx(ctx, func(ctx context.Context) error {
		emailID, err := h.sentEmailRepo.GetIDByMessageID(ctx, req.GetMessageID())
		if err != nil {
			return err
		}
		open.EmailID = goutil.Uint64(emailID)

		created, err = h.engagementRepo.CreateOpen(ctx, open)
		if err != nil || !created {
			return err
		}

		return h.sentEmailRepo.IncrementOpens(ctx, emailID, receivedAt)
	}); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(entity.EventEmailOpened.String(), metrics.ResultFailed).Inc()
		log.Ctx(ctx).Error().Msgf("record email open failed: %v, message_id: %s", err, req.GetMessageID())
		return err
	}

	h.afterEvent(ctx, entity.EventEmailOpened, created, &mq.EmailEvent{
		EmailID:    open.EmailID,
		MessageID:  req.MessageID,
		Recipient:  req.Recipient,
		OccurredAt: open.OpenedAt,
	})

	res.Success = goutil.Bool(true)

	return nil
}

func (h *webhookHandler) OnClickEvent(ctx context.Context, req *OnClickEventRequest, res *OnClickEventResponse) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	receivedAt := req.GetReceivedAt()
	click := &entity.EmailClick{
		EventID:    req.EventID,
		ClickedURL: req.OriginalLink,
		ClickedAt:  goutil.Time(receivedAt),
		UserAgent:  req.UserAgent,
		IPAddress:  req.IP,
	}

	var created bool
	if err := h.txService.RunTx(ctx, func(ctx context.Context) error {
		emailID, err := h.sentEmailRepo.GetIDByMessageID(ctx, req.GetMessageID())
		if err != nil {
			return err
		}
		click.EmailID = goutil.Uint64(emailID)

		created, err = h.engagementRepo.CreateClick(ctx, click)
		if err != nil || !created {
			return err
		}

		return h.sentEmailRepo.IncrementClicks(ctx, emailID, receivedAt)
	}); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(entity.EventEmailClicked.String(), metrics.ResultFailed).Inc()
		log.Ctx(ctx).Error().Msgf("record email click failed: %v, message_id: %s", err, req.GetMessageID())
		return err
	}

	h.afterEvent(ctx, entity.EventEmailClicked, created, &mq.EmailEvent{
		EmailID:    click.EmailID,
		MessageID:  req.MessageID,
		Recipient:  req.Recipient,
		URL:        req.OriginalLink,
		OccurredAt: click.ClickedAt,
	})

	res.Success = goutil.Bool(true)

	return nil
}

func (h *webhookHandler) afterEvent(ctx context.Context, event entity.Event, created bool, body *mq.EmailEvent) {
	if !created {
		log.Ctx(ctx).Info().Msgf("duplicate %s event ignored, email_id: %d", event, body.GetEmailID())
		metrics.WebhookEventsTotal.WithLabelValues(event.String(), metrics.ResultDuplicate).Inc()
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(event.String(), metrics.ResultRecorded).Inc()

	payload := mq.PayloadEmailOpened
	if event == entity.EventEmailClicked {
		payload = mq.PayloadEmailClicked
	}

	if err := h.publisher.SendMessage(mq.NewEmailMessage(payload, body)); err != nil {
		log.Ctx(ctx).Warn().Msgf("publish %s event failed: %v", event, err)
	}
}
