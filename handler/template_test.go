package handler

import (
	"context"
	"errors"
	"testing"

	"mailer/entity"
	"mailer/pkg/errutil"
	"mailer/pkg/goutil"
	"mailer/repo"
)

func newTemplateHandler(s *store) TemplateHandler {
	return NewTemplateHandler(s, fakeTemplateRepo{s}, fakeSentEmailRepo{s}, fakeEngagementRepo{s})
}

func createTemplate(t *testing.T, h TemplateHandler, name string) *entity.Template {
	t.Helper()
	res := new(CreateTemplateResponse)
	if err := h.CreateTemplate(context.Background(), &CreateTemplateRequest{
		Name:        goutil.String(name),
		Subject:     goutil.String(name + " subject"),
		HtmlContent: goutil.String("<p>" + name + "</p>"),
	}, res); err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}
	return res.Template
}

func TestCreateTemplateShowsUpInList(t *testing.T) {
	s := newStore()
	h := newTemplateHandler(s)

	created := createTemplate(t, h, "Welcome")
	if created.GetID() == 0 || created.CreatedAt == nil || created.UpdatedAt == nil {
		t.Fatalf("created template = %+v, want id and timestamps", created)
	}

	res := new(GetTemplatesResponse)
	if err := h.GetTemplates(context.Background(), new(GetTemplatesRequest), res); err != nil {
		t.Fatalf("GetTemplates() error = %v", err)
	}
	if len(*res) != 1 || (*res)[0].GetName() != "Welcome" {
		t.Fatalf("templates = %v, want [Welcome]", *res)
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	s := newStore()
	h := newTemplateHandler(s)

	err := h.CreateTemplate(context.Background(), &CreateTemplateRequest{
		Name: goutil.String("no subject"),
	}, new(CreateTemplateResponse))
	if errutil.GetErrorType(err) != errutil.TypeValidation {
		t.Fatalf("error type = %s, want %s", errutil.GetErrorType(err), errutil.TypeValidation)
	}
	if s.calls != 0 {
		t.Fatalf("repo calls = %d, want 0", s.calls)
	}
}

func TestUpdateTemplate(t *testing.T) {
	s := newStore()
	h := newTemplateHandler(s)
	created := createTemplate(t, h, "Welcome")

	res := new(UpdateTemplateResponse)
	if err := h.UpdateTemplate(context.Background(), &UpdateTemplateRequest{
		TemplateID:  created.ID,
		Name:        goutil.String("Hello"),
		Subject:     goutil.String("Hello subject"),
		HtmlContent: goutil.String("<p>hello</p>"),
	}, res); err != nil {
		t.Fatalf("UpdateTemplate() error = %v", err)
	}

	if res.GetName() != "Hello" || res.GetHtmlContent() != "<p>hello</p>" {
		t.Fatalf("updated template = %+v", res.Template)
	}
	if res.UpdatedAt.Before(*created.UpdatedAt) {
		t.Fatalf("updated_at = %v, want >= %v", res.UpdatedAt, created.UpdatedAt)
	}
	if s.txCalls != 1 {
		t.Fatalf("tx calls = %d, want 1", s.txCalls)
	}
}

func TestUpdateTemplateNotFound(t *testing.T) {
	s := newStore()
	h := newTemplateHandler(s)

	err := h.UpdateTemplate(context.Background(), &UpdateTemplateRequest{
		TemplateID:  goutil.Uint64(99),
		Name:        goutil.String("a"),
		Subject:     goutil.String("b"),
		HtmlContent: goutil.String("c"),
	}, new(UpdateTemplateResponse))

	if !errors.Is(err, repo.ErrTemplateNotFound) {
		t.Fatalf("error = %v, want %v", err, repo.ErrTemplateNotFound)
	}
	if code, _ := errutil.ParseHttpError(err); code != 404 {
		t.Fatalf("code = %d, want 404", code)
	}
	if len(s.templates) != 0 {
		t.Fatalf("templates = %d, want 0", len(s.templates))
	}
}

func TestDeleteTemplateCascades(t *testing.T) {
	s := newStore()
	h := newTemplateHandler(s)
	keep := createTemplate(t, h, "Keep")
	drop := createTemplate(t, h, "Drop")

	sentRepo := fakeSentEmailRepo{s}
	keepID, _ := sentRepo.Create(context.Background(), &entity.SentEmail{TemplateID: keep.ID})
	dropID, _ := sentRepo.Create(context.Background(), &entity.SentEmail{TemplateID: drop.ID})

	engagementRepo := fakeEngagementRepo{s}
	_, _ = engagementRepo.CreateOpen(context.Background(), &entity.EmailOpen{EmailID: goutil.Uint64(keepID)})
	_, _ = engagementRepo.CreateOpen(context.Background(), &entity.EmailOpen{EmailID: goutil.Uint64(dropID)})
	_, _ = engagementRepo.CreateClick(context.Background(), &entity.EmailClick{EmailID: goutil.Uint64(dropID)})

	res := new(DeleteTemplateResponse)
	if err := h.DeleteTemplate(context.Background(), &DeleteTemplateRequest{TemplateID: drop.ID}, res); err != nil {
		t.Fatalf("DeleteTemplate() error = %v", err)
	}

	if *res.Message != "Template deleted successfully" || res.DeletedTemplate.GetName() != "Drop" {
		t.Fatalf("response = %s / %+v", *res.Message, res.DeletedTemplate)
	}
	if _, ok := s.templates[drop.GetID()]; ok {
		t.Fatal("template still present")
	}
	if _, ok := s.sent[dropID]; ok {
		t.Fatal("sent email still present")
	}
	if len(s.sent) != 1 || len(s.opens) != 1 || len(s.clicks) != 0 {
		t.Fatalf("sent/opens/clicks = %d/%d/%d, want 1/1/0", len(s.sent), len(s.opens), len(s.clicks))
	}
}

func TestDeleteTemplateNotFound(t *testing.T) {
	s := newStore()
	h := newTemplateHandler(s)

	err := h.DeleteTemplate(context.Background(), &DeleteTemplateRequest{TemplateID: goutil.Uint64(7)}, new(DeleteTemplateResponse))
	if errutil.GetErrorType(err) != errutil.TypeNotFound {
		t.Fatalf("error type = %s, want %s", errutil.GetErrorType(err), errutil.TypeNotFound)
	}
}
