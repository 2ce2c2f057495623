package mq

import "time"

type Payload uint32

const (
	PayloadUnknown Payload = iota
	PayloadEmailSent
	PayloadEmailOpened
	PayloadEmailClicked
)

var Payloads = map[Payload]string{
	PayloadEmailSent:    "email_sent",
	PayloadEmailOpened:  "email_opened",
	PayloadEmailClicked: "email_clicked",
}

// EmailEvent is the body of every email lifecycle message.
type EmailEvent struct {
	EmailID    *uint64    `json:"email_id,omitempty"`
	TemplateID *uint64    `json:"template_id,omitempty"`
	MessageID  *string    `json:"message_id,omitempty"`
	Recipient  *string    `json:"recipient,omitempty"`
	URL        *string    `json:"url,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

func (m *EmailEvent) GetEmailID() uint64 {
	if m != nil && m.EmailID != nil {
		return *m.EmailID
	}
	return 0
}
