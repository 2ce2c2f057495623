package entity

import "time"

type Template struct {
	ID          *uint64    `json:"id,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Subject     *string    `json:"subject,omitempty"`
	HtmlContent *string    `json:"html_content,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func (e *Template) GetID() uint64 {
	if e != nil && e.ID != nil {
		return *e.ID
	}
	return 0
}

func (e *Template) GetName() string {
	if e != nil && e.Name != nil {
		return *e.Name
	}
	return ""
}

func (e *Template) GetSubject() string {
	if e != nil && e.Subject != nil {
		return *e.Subject
	}
	return ""
}

func (e *Template) GetHtmlContent() string {
	if e != nil && e.HtmlContent != nil {
		return *e.HtmlContent
	}
	return ""
}

// Update copies the non-nil content fields of t onto e.
func (e *Template) Update(t *Template) {
	if t.Name != nil {
		e.Name = t.Name
	}

	if t.Subject != nil {
		e.Subject = t.Subject
	}

	if t.HtmlContent != nil {
		e.HtmlContent = t.HtmlContent
	}

	if t.UpdatedAt != nil {
		e.UpdatedAt = t.UpdatedAt
	}
}
