package handler

import (
	"context"
	"sort"
	"time"

	"mailer/dep"
	"mailer/entity"
	"mailer/pkg/goutil"
	"mailer/pkg/mq"
	"mailer/repo"
)

// store is an in-memory stand-in for the four email tables.
type store struct {
	nextID    uint64
	templates map[uint64]*entity.Template
	sent      map[uint64]*entity.SentEmail
	opens     []*entity.EmailOpen
	clicks    []*entity.EmailClick
	eventIDs  map[string]bool

	txCalls int
	calls   int
}

func newStore() *store {
	return &store{
		templates: make(map[uint64]*entity.Template),
		sent:      make(map[uint64]*entity.SentEmail),
		eventIDs:  make(map[string]bool),
	}
}

func (s *store) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *store) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txCalls++
	return fn(ctx)
}

type fakeTemplateRepo struct{ *store }

func (r fakeTemplateRepo) Create(_ context.Context, t *entity.Template) (uint64, error) {
	r.calls++
	id := r.id()
	cp := *t
	cp.ID = goutil.Uint64(id)
	r.templates[id] = &cp
	return id, nil
}

func (r fakeTemplateRepo) CreateMany(ctx context.Context, ts []*entity.Template) error {
	for _, t := range ts {
		id, _ := r.Create(ctx, t)
		t.ID = goutil.Uint64(id)
	}
	return nil
}

func (r fakeTemplateRepo) GetByID(_ context.Context, id uint64) (*entity.Template, error) {
	r.calls++
	t, ok := r.templates[id]
	if !ok {
		return nil, repo.ErrTemplateNotFound
	}
	cp := *t
	return &cp, nil
}

func (r fakeTemplateRepo) GetMany(_ context.Context) ([]*entity.Template, error) {
	r.calls++
	ts := make([]*entity.Template, 0, len(r.templates))
	for _, t := range r.templates {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].GetID() > ts[j].GetID() })
	return ts, nil
}

func (r fakeTemplateRepo) Update(_ context.Context, t *entity.Template) error {
	r.calls++
	if _, ok := r.templates[t.GetID()]; !ok {
		return repo.ErrTemplateNotFound
	}
	cp := *t
	r.templates[t.GetID()] = &cp
	return nil
}

func (r fakeTemplateRepo) Delete(_ context.Context, id uint64) error {
	r.calls++
	if _, ok := r.templates[id]; !ok {
		return repo.ErrTemplateNotFound
	}
	delete(r.templates, id)
	return nil
}

func (r fakeTemplateRepo) DeleteAll(_ context.Context) error {
	r.templates = make(map[uint64]*entity.Template)
	return nil
}

func (r fakeTemplateRepo) Count(_ context.Context) (uint64, error) {
	r.calls++
	return uint64(len(r.templates)), nil
}

type fakeSentEmailRepo struct{ *store }

func (r fakeSentEmailRepo) Create(_ context.Context, se *entity.SentEmail) (uint64, error) {
	r.calls++
	id := r.id()
	cp := *se
	cp.ID = goutil.Uint64(id)
	r.sent[id] = &cp
	return id, nil
}

func (r fakeSentEmailRepo) CreateMany(ctx context.Context, ses []*entity.SentEmail, _ int) error {
	for _, se := range ses {
		id, _ := r.Create(ctx, se)
		se.ID = goutil.Uint64(id)
	}
	return nil
}

func (r fakeSentEmailRepo) GetIDByMessageID(_ context.Context, messageID string) (uint64, error) {
	r.calls++
	for id, se := range r.sent {
		if se.GetMessageID() == messageID {
			return id, nil
		}
	}
	return 0, repo.ErrSentEmailNotFound
}

func (r fakeSentEmailRepo) GetLog(_ context.Context, _ *entity.Pagination) ([]*entity.SentEmailLog, error) {
	r.calls++
	logs := make([]*entity.SentEmailLog, 0, len(r.sent))
	for _, se := range r.sent {
		logs = append(logs, &entity.SentEmailLog{
			ID:        se.ID,
			Recipient: se.Recipient,
			Opens:     se.Opens,
			Clicks:    se.Clicks,
		})
	}
	return logs, nil
}

func (r fakeSentEmailRepo) IncrementOpens(_ context.Context, id uint64, at time.Time) error {
	se, ok := r.sent[id]
	if !ok {
		return repo.ErrSentEmailNotFound
	}
	se.Opens = goutil.Uint64(se.GetOpens() + 1)
	se.LastActivityAt = goutil.Time(at)
	return nil
}

func (r fakeSentEmailRepo) IncrementClicks(_ context.Context, id uint64, at time.Time) error {
	se, ok := r.sent[id]
	if !ok {
		return repo.ErrSentEmailNotFound
	}
	se.Clicks = goutil.Uint64(se.GetClicks() + 1)
	se.LastActivityAt = goutil.Time(at)
	return nil
}

func (r fakeSentEmailRepo) DeleteByTemplateID(_ context.Context, templateID uint64) error {
	for id, se := range r.sent {
		if se.GetTemplateID() == templateID {
			delete(r.sent, id)
		}
	}
	return nil
}

func (r fakeSentEmailRepo) DeleteAll(_ context.Context) error {
	r.sent = make(map[uint64]*entity.SentEmail)
	return nil
}

type fakeEngagementRepo struct{ *store }

func (r fakeEngagementRepo) seen(eventID *string) bool {
	if eventID == nil {
		return false
	}
	if r.eventIDs[*eventID] {
		return true
	}
	r.eventIDs[*eventID] = true
	return false
}

func (r fakeEngagementRepo) CreateOpen(_ context.Context, open *entity.EmailOpen) (bool, error) {
	if r.seen(open.EventID) {
		return false, nil
	}
	open.ID = goutil.Uint64(r.id())
	r.opens = append(r.opens, open)
	return true, nil
}

func (r fakeEngagementRepo) CreateClick(_ context.Context, click *entity.EmailClick) (bool, error) {
	if r.seen(click.EventID) {
		return false, nil
	}
	click.ID = goutil.Uint64(r.id())
	r.clicks = append(r.clicks, click)
	return true, nil
}

func (r fakeEngagementRepo) CreateOpens(_ context.Context, opens []*entity.EmailOpen, _ int) error {
	r.opens = append(r.opens, opens...)
	return nil
}

func (r fakeEngagementRepo) CreateClicks(_ context.Context, clicks []*entity.EmailClick, _ int) error {
	r.clicks = append(r.clicks, clicks...)
	return nil
}

func (r fakeEngagementRepo) DeleteByTemplateID(_ context.Context, templateID uint64) error {
	opens := r.opens[:0]
	for _, o := range r.opens {
		if se, ok := r.sent[o.GetEmailID()]; !ok || se.GetTemplateID() != templateID {
			opens = append(opens, o)
		}
	}
	r.opens = opens

	clicks := r.clicks[:0]
	for _, c := range r.clicks {
		if se, ok := r.sent[c.GetEmailID()]; !ok || se.GetTemplateID() != templateID {
			clicks = append(clicks, c)
		}
	}
	r.clicks = clicks

	return nil
}

func (r fakeEngagementRepo) DeleteAll(_ context.Context) error {
	r.opens = nil
	r.clicks = nil
	return nil
}

type fakeAnalyticsRepo struct {
	summary  *entity.SendSummary
	recent   []*entity.RecentEmail
	agents   []*repo.UserAgentCount
	limitArg int
	err      error
}

func (r *fakeAnalyticsRepo) GetOpenBreakdown(_ context.Context) ([]*entity.OpenBreakdown, error) {
	return []*entity.OpenBreakdown{}, r.err
}

func (r *fakeAnalyticsRepo) GetClickBreakdown(_ context.Context) ([]*entity.ClickBreakdown, error) {
	return []*entity.ClickBreakdown{}, r.err
}

func (r *fakeAnalyticsRepo) GetSendSummary(_ context.Context) (*entity.SendSummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.summary, nil
}

func (r *fakeAnalyticsRepo) GetRecentEmails(_ context.Context, limit int) ([]*entity.RecentEmail, error) {
	r.limitArg = limit
	return r.recent, r.err
}

func (r *fakeAnalyticsRepo) GetActivities(_ context.Context, limit int) ([]*entity.Activity, error) {
	r.limitArg = limit
	return []*entity.Activity{}, r.err
}

func (r *fakeAnalyticsRepo) GetUserAgentCounts(_ context.Context) ([]*repo.UserAgentCount, error) {
	return r.agents, r.err
}

type fakeEmailService struct {
	configErr error
	sendErr   error
	messageID string
	inputs    []*dep.SendEmailInput
}

func (s *fakeEmailService) CheckConfig() error {
	return s.configErr
}

func (s *fakeEmailService) SendEmail(_ context.Context, input *dep.SendEmailInput) (string, error) {
	s.inputs = append(s.inputs, input)
	if s.sendErr != nil {
		return "", s.sendErr
	}
	return s.messageID, nil
}

func (s *fakeEmailService) Close(_ context.Context) error {
	return nil
}

type fakePublisher struct {
	msgs []*mq.Message
}

func (p *fakePublisher) SendMessage(msg *mq.Message) error {
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *fakePublisher) Close() error {
	return nil
}
