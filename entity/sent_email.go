package entity

import "time"

type SentEmailStatus string

const (
	SentEmailStatusSent SentEmailStatus = "sent"
)

type SentEmail struct {
	ID             *uint64    `json:"id,omitempty"`
	TemplateID     *uint64    `json:"template_id,omitempty"`
	Recipient      *string    `json:"recipient,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Opens          *uint64    `json:"opens,omitempty"`
	Clicks         *uint64    `json:"clicks,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	MessageID      *string    `json:"message_id,omitempty"`
}

func (e *SentEmail) GetID() uint64 {
	if e != nil && e.ID != nil {
		return *e.ID
	}
	return 0
}

func (e *SentEmail) GetTemplateID() uint64 {
	if e != nil && e.TemplateID != nil {
		return *e.TemplateID
	}
	return 0
}

func (e *SentEmail) GetRecipient() string {
	if e != nil && e.Recipient != nil {
		return *e.Recipient
	}
	return ""
}

func (e *SentEmail) GetSentAt() time.Time {
	if e != nil && e.SentAt != nil {
		return *e.SentAt
	}
	return time.Time{}
}

func (e *SentEmail) GetOpens() uint64 {
	if e != nil && e.Opens != nil {
		return *e.Opens
	}
	return 0
}

func (e *SentEmail) GetClicks() uint64 {
	if e != nil && e.Clicks != nil {
		return *e.Clicks
	}
	return 0
}

func (e *SentEmail) GetMessageID() string {
	if e != nil && e.MessageID != nil {
		return *e.MessageID
	}
	return ""
}

// SentEmailLog is a send joined with its template name.
type SentEmailLog struct {
	ID             *uint64    `json:"id,omitempty"`
	TemplateName   *string    `json:"template_name"`
	Recipient      *string    `json:"recipient,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Opens          *uint64    `json:"opens"`
	Clicks         *uint64    `json:"clicks"`
	LastActivityAt *time.Time `json:"last_activity_at"`
	MessageID      *string    `json:"message_id,omitempty"`
}
