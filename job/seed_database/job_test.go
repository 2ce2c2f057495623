package seed_database

import (
	"context"
	"strings"
	"testing"
	"time"

	"mailer/config"
	"mailer/entity"
	"mailer/pkg/goutil"
)

type memDB struct {
	nextID    uint64
	templates []*entity.Template
	sent      []*entity.SentEmail
	opens     []*entity.EmailOpen
	clicks    []*entity.EmailClick
	txCalls   int
	cleared   bool
}

func (db *memDB) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.txCalls++
	return fn(ctx)
}

type templateStore struct{ *memDB }

func (r templateStore) Create(_ context.Context, t *entity.Template) (uint64, error) {
	r.nextID++
	t.ID = goutil.Uint64(r.nextID)
	r.memDB.templates = append(r.memDB.templates, t)
	return r.nextID, nil
}

func (r templateStore) CreateMany(ctx context.Context, ts []*entity.Template) error {
	for _, t := range ts {
		if _, err := r.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r templateStore) GetByID(_ context.Context, _ uint64) (*entity.Template, error) { return nil, nil }
func (r templateStore) GetMany(_ context.Context) ([]*entity.Template, error)        { return r.memDB.templates, nil }
func (r templateStore) Update(_ context.Context, _ *entity.Template) error          { return nil }
func (r templateStore) Delete(_ context.Context, _ uint64) error                    { return nil }

func (r templateStore) DeleteAll(_ context.Context) error {
	r.memDB.templates = nil
	r.cleared = true
	return nil
}

func (r templateStore) Count(_ context.Context) (uint64, error) {
	return uint64(len(r.memDB.templates)), nil
}

type sentEmailStore struct{ *memDB }

func (r sentEmailStore) Create(_ context.Context, se *entity.SentEmail) (uint64, error) {
	r.nextID++
	se.ID = goutil.Uint64(r.nextID)
	r.sent = append(r.sent, se)
	return r.nextID, nil
}

func (r sentEmailStore) CreateMany(ctx context.Context, ses []*entity.SentEmail, _ int) error {
	for _, se := range ses {
		if _, err := r.Create(ctx, se); err != nil {
			return err
		}
	}
	return nil
}

func (r sentEmailStore) GetIDByMessageID(_ context.Context, _ string) (uint64, error) { return 0, nil }
func (r sentEmailStore) GetLog(_ context.Context, _ *entity.Pagination) ([]*entity.SentEmailLog, error) {
	return nil, nil
}
func (r sentEmailStore) IncrementOpens(_ context.Context, _ uint64, _ time.Time) error  { return nil }
func (r sentEmailStore) IncrementClicks(_ context.Context, _ uint64, _ time.Time) error { return nil }
func (r sentEmailStore) DeleteByTemplateID(_ context.Context, _ uint64) error           { return nil }

func (r sentEmailStore) DeleteAll(_ context.Context) error {
	r.sent = nil
	return nil
}

type engagementStore struct{ *memDB }

func (r engagementStore) CreateOpen(_ context.Context, _ *entity.EmailOpen) (bool, error)   { return true, nil }
func (r engagementStore) CreateClick(_ context.Context, _ *entity.EmailClick) (bool, error) { return true, nil }

func (r engagementStore) CreateOpens(_ context.Context, opens []*entity.EmailOpen, _ int) error {
	r.opens = append(r.opens, opens...)
	return nil
}

func (r engagementStore) CreateClicks(_ context.Context, clicks []*entity.EmailClick, _ int) error {
	r.clicks = append(r.clicks, clicks...)
	return nil
}

func (r engagementStore) DeleteByTemplateID(_ context.Context, _ uint64) error { return nil }

func (r engagementStore) DeleteAll(_ context.Context) error {
	r.opens = nil
	r.clicks = nil
	return nil
}

func newSeedConfig() config.Seed {
	return config.Seed{
		Enabled:    true,
		Recipients: 50,
		Emails:     250,
		Days:       90,
		BatchSize:  100,
		RandSeed:   42,
	}
}

func runSeed(t *testing.T, db *memDB, cfg config.Seed, force bool) {
	t.Helper()

	job := New(cfg, force, db, templateStore{db}, sentEmailStore{db}, engagementStore{db})
	job.(*SeedDatabase).now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}

	ctx := context.Background()
	if err := job.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := job.CleanUp(ctx); err != nil {
		t.Fatalf("CleanUp() error = %v", err)
	}
}

func TestSeedDatabase(t *testing.T) {
	db := new(memDB)
	cfg := newSeedConfig()
	runSeed(t, db, cfg, false)

	if len(db.templates) != 5 {
		t.Fatalf("templates = %d, want 5", len(db.templates))
	}
	if len(db.sent) != cfg.Emails {
		t.Fatalf("sent emails = %d, want %d", len(db.sent), cfg.Emails)
	}
	if db.txCalls != 3 {
		t.Fatalf("tx calls = %d, want 3", db.txCalls)
	}

	var (
		opens      = make(map[uint64]uint64)
		clicks     = make(map[uint64]uint64)
		sentAt     = make(map[uint64]time.Time)
		recipients = make(map[string]struct{})
		messageIDs = make(map[string]struct{})
		now        = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		oldest     = now.AddDate(0, 0, -cfg.Days).Add(-24 * time.Hour)
	)
	for _, se := range db.sent {
		if se.GetSentAt().After(now) || se.GetSentAt().Before(oldest) {
			t.Fatalf("sent_at = %v, outside [%v, %v]", se.GetSentAt(), oldest, now)
		}
		if se.GetClicks() > se.GetOpens() || se.GetOpens() > 7 {
			t.Fatalf("opens/clicks = %d/%d", se.GetOpens(), se.GetClicks())
		}
		sentAt[se.GetID()] = se.GetSentAt()
		recipients[se.GetRecipient()] = struct{}{}
		messageIDs[se.GetMessageID()] = struct{}{}
	}
	if len(recipients) > cfg.Recipients {
		t.Fatalf("recipients = %d, want <= %d", len(recipients), cfg.Recipients)
	}
	if len(messageIDs) != cfg.Emails {
		t.Fatalf("unique message ids = %d, want %d", len(messageIDs), cfg.Emails)
	}

	for _, o := range db.opens {
		opens[o.GetEmailID()]++
		d := o.GetOpenedAt().Sub(sentAt[o.GetEmailID()])
		if d < 0 || d >= 24*time.Hour {
			t.Fatalf("open %v after send, want within 24h", d)
		}
	}
	for _, c := range db.clicks {
		clicks[c.GetEmailID()]++
		if !strings.HasPrefix(c.GetClickedURL(), "http://example.com/") {
			t.Fatalf("clicked url = %s", c.GetClickedURL())
		}
	}

	for _, se := range db.sent {
		if opens[se.GetID()] != se.GetOpens() || clicks[se.GetID()] != se.GetClicks() {
			t.Fatalf("email %d counters %d/%d, detail rows %d/%d",
				se.GetID(), se.GetOpens(), se.GetClicks(), opens[se.GetID()], clicks[se.GetID()])
		}
	}
}

func TestSeedDatabaseSkipsWhenTemplatesExist(t *testing.T) {
	db := new(memDB)
	db.templates = []*entity.Template{{Name: goutil.String("existing")}}

	runSeed(t, db, newSeedConfig(), false)

	if len(db.templates) != 1 || len(db.sent) != 0 {
		t.Fatalf("templates/sent = %d/%d, want 1/0", len(db.templates), len(db.sent))
	}
}

func TestSeedDatabaseForceClears(t *testing.T) {
	db := new(memDB)
	db.templates = []*entity.Template{{Name: goutil.String("existing")}}

	cfg := newSeedConfig()
	cfg.Emails = 10
	runSeed(t, db, cfg, true)

	if !db.cleared {
		t.Fatal("tables not cleared")
	}
	if len(db.templates) != 5 || len(db.sent) != 10 {
		t.Fatalf("templates/sent = %d/%d, want 5/10", len(db.templates), len(db.sent))
	}
}

func TestGenerateRecipientsUnique(t *testing.T) {
	job := New(newSeedConfig(), false, nil, nil, nil, nil).(*SeedDatabase)
	if err := job.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	recipients := job.generateRecipients(500)
	seen := make(map[string]bool)
	for _, r := range recipients {
		if seen[r] {
			t.Fatalf("duplicate recipient %s", r)
		}
		seen[r] = true
	}
	if len(recipients) != 500 {
		t.Fatalf("recipients = %d, want 500", len(recipients))
	}
}
