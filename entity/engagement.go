package entity

import "time"

type Event uint32

const (
	EventUnknown Event = iota
	EventEmailSent
	EventEmailOpened
	EventEmailClicked
)

var SupportedEvents = map[Event]string{
	EventEmailSent:    "email_sent",
	EventEmailOpened:  "email_opened",
	EventEmailClicked: "email_clicked",
}

func (e Event) String() string {
	if name, ok := SupportedEvents[e]; ok {
		return name
	}
	return "unknown"
}

type EmailOpen struct {
	ID        *uint64    `json:"id,omitempty"`
	EmailID   *uint64    `json:"email_id,omitempty"`
	EventID   *string    `json:"event_id,omitempty"`
	OpenedAt  *time.Time `json:"opened_at,omitempty"`
	UserAgent *string    `json:"user_agent,omitempty"`
	IPAddress *string    `json:"ip_address,omitempty"`
}

func (e *EmailOpen) GetEmailID() uint64 {
	if e != nil && e.EmailID != nil {
		return *e.EmailID
	}
	return 0
}

func (e *EmailOpen) GetOpenedAt() time.Time {
	if e != nil && e.OpenedAt != nil {
		return *e.OpenedAt
	}
	return time.Time{}
}

type EmailClick struct {
	ID         *uint64    `json:"id,omitempty"`
	EmailID    *uint64    `json:"email_id,omitempty"`
	EventID    *string    `json:"event_id,omitempty"`
	ClickedURL *string    `json:"clicked_url,omitempty"`
	ClickedAt  *time.Time `json:"clicked_at,omitempty"`
	UserAgent  *string    `json:"user_agent,omitempty"`
	IPAddress  *string    `json:"ip_address,omitempty"`
}

func (e *EmailClick) GetEmailID() uint64 {
	if e != nil && e.EmailID != nil {
		return *e.EmailID
	}
	return 0
}

func (e *EmailClick) GetClickedURL() string {
	if e != nil && e.ClickedURL != nil {
		return *e.ClickedURL
	}
	return ""
}

func (e *EmailClick) GetClickedAt() time.Time {
	if e != nil && e.ClickedAt != nil {
		return *e.ClickedAt
	}
	return time.Time{}
}
