package handler

import (
	"context"
	"errors"
	"testing"

	"mailer/dep"
	"mailer/entity"
	"mailer/pkg/errutil"
	"mailer/pkg/goutil"
	"mailer/pkg/mq"
)

func newEmailHandler(s *store, svc *fakeEmailService, pub *fakePublisher) EmailHandler {
	return NewEmailHandler(s, fakeTemplateRepo{s}, fakeSentEmailRepo{s}, svc, pub)
}

func TestSendEmail(t *testing.T) {
	s := newStore()
	id, _ := fakeTemplateRepo{s}.Create(context.Background(), &entity.Template{
		Name:        goutil.String("Welcome"),
		Subject:     goutil.String("Hi"),
		HtmlContent: goutil.String("<p>Hi</p>"),
	})

	svc := &fakeEmailService{messageID: "pm-1"}
	pub := new(fakePublisher)
	h := newEmailHandler(s, svc, pub)

	res := new(SendEmailResponse)
	if err := h.SendEmail(context.Background(), &SendEmailRequest{
		TemplateID: goutil.Uint64(id),
		ToEmail:    goutil.String("a@example.com"),
	}, res); err != nil {
		t.Fatalf("SendEmail() error = %v", err)
	}

	if !*res.Success || *res.Message != "Email sent successfully" || res.EmailID == nil {
		t.Fatalf("response = %+v", res)
	}

	se := s.sent[*res.EmailID]
	if se.GetMessageID() != "pm-1" || se.GetRecipient() != "a@example.com" || *se.Status != "sent" {
		t.Fatalf("sent email = %+v", se)
	}
	if se.GetTemplateID() != id {
		t.Fatalf("template id = %d, want %d", se.GetTemplateID(), id)
	}

	if len(svc.inputs) != 1 || svc.inputs[0].Subject != "Hi" || svc.inputs[0].HtmlBody != "<p>Hi</p>" {
		t.Fatalf("provider inputs = %+v", svc.inputs)
	}
	if len(pub.msgs) != 1 || pub.msgs[0].Payload != mq.PayloadEmailSent {
		t.Fatalf("published = %+v", pub.msgs)
	}
}

func TestSendEmailMissingTemplate(t *testing.T) {
	s := newStore()
	svc := &fakeEmailService{messageID: "pm-1"}
	h := newEmailHandler(s, svc, new(fakePublisher))

	err := h.SendEmail(context.Background(), &SendEmailRequest{
		TemplateID: goutil.Uint64(5),
		ToEmail:    goutil.String("a@example.com"),
	}, new(SendEmailResponse))

	if errutil.GetErrorType(err) != errutil.TypeNotFound {
		t.Fatalf("error type = %s, want %s", errutil.GetErrorType(err), errutil.TypeNotFound)
	}
	if len(svc.inputs) != 0 {
		t.Fatalf("provider calls = %d, want 0", len(svc.inputs))
	}
	if len(s.sent) != 0 {
		t.Fatalf("sent emails = %d, want 0", len(s.sent))
	}
}

func TestSendEmailMissingConfig(t *testing.T) {
	s := newStore()
	svc := &fakeEmailService{configErr: dep.ErrMissingAPIKey}
	h := newEmailHandler(s, svc, new(fakePublisher))

	err := h.SendEmail(context.Background(), &SendEmailRequest{
		TemplateID: goutil.Uint64(1),
		ToEmail:    goutil.String("a@example.com"),
	}, new(SendEmailResponse))

	if errutil.GetErrorType(err) != errutil.TypeConfiguration {
		t.Fatalf("error type = %s, want %s", errutil.GetErrorType(err), errutil.TypeConfiguration)
	}
	if !errors.Is(err, dep.ErrMissingAPIKey) {
		t.Fatalf("error = %v, want %v", err, dep.ErrMissingAPIKey)
	}
	if s.calls != 0 {
		t.Fatalf("repo calls = %d, want 0", s.calls)
	}
}

func TestSendEmailProviderFailure(t *testing.T) {
	s := newStore()
	id, _ := fakeTemplateRepo{s}.Create(context.Background(), &entity.Template{Name: goutil.String("x")})

	svc := &fakeEmailService{sendErr: errors.New("422 invalid email")}
	pub := new(fakePublisher)
	h := newEmailHandler(s, svc, pub)

	err := h.SendEmail(context.Background(), &SendEmailRequest{
		TemplateID: goutil.Uint64(id),
		ToEmail:    goutil.String("a@example.com"),
	}, new(SendEmailResponse))

	if errutil.GetErrorType(err) != errutil.TypeSendFailure {
		t.Fatalf("error type = %s, want %s", errutil.GetErrorType(err), errutil.TypeSendFailure)
	}
	if len(s.sent) != 0 || len(pub.msgs) != 0 {
		t.Fatalf("sent/published = %d/%d, want 0/0", len(s.sent), len(pub.msgs))
	}
}
