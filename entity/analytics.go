package entity

import "time"

const (
	ActivityTypeEmailSent = "email_sent"
)

type OpenBreakdown struct {
	TemplateName  *string    `json:"template_name"`
	Recipient     *string    `json:"recipient"`
	OpenCount     *uint64    `json:"open_count"`
	FirstOpenedAt *time.Time `json:"first_opened_at"`
}

type ClickBreakdown struct {
	TemplateName   *string    `json:"template_name"`
	Recipient      *string    `json:"recipient"`
	ClickCount     *uint64    `json:"click_count"`
	FirstClickedAt *time.Time `json:"first_clicked_at"`
}

type DeviceBreakdown struct {
	Device    *string `json:"device"`
	Browser   *string `json:"browser"`
	OS        *string `json:"os"`
	OpenCount *uint64 `json:"open_count"`
}

func (e *DeviceBreakdown) GetOpenCount() uint64 {
	if e != nil && e.OpenCount != nil {
		return *e.OpenCount
	}
	return 0
}

// SendSummary holds the totals behind the dashboard rates.
type SendSummary struct {
	TotalEmails   uint64
	OpenedEmails  uint64
	ClickedEmails uint64
}

type RecentEmail struct {
	Template  *string    `json:"template"`
	Recipient *string    `json:"recipient"`
	SentAt    *time.Time `json:"sent_at"`
	Status    *string    `json:"status"`
}

type Activity struct {
	Type        *string    `json:"type"`
	Description *string    `json:"description"`
	Timestamp   *time.Time `json:"timestamp"`
}

type Stats struct {
	TotalEmails  *uint64        `json:"totalEmails"`
	OpenRate     *float64       `json:"openRate"`
	ClickRate    *float64       `json:"clickRate"`
	Templates    *uint64        `json:"templates"`
	RecentEmails []*RecentEmail `json:"recentEmails"`
}
