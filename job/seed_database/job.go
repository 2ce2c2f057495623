package seed_database

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"mailer/config"
	"mailer/entity"
	"mailer/pkg/goutil"
	"mailer/pkg/service"
	"mailer/repo"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	maxOpensPerEmail = 7
	eventWindow      = 24 * time.Hour
)

var ErrTooManyRecipients = errors.New("recipient count exceeds the generator capacity")

type SeedDatabase struct {
	cfg   config.Seed
	force bool

	txService      repo.TxService
	templateRepo   repo.TemplateRepo
	sentEmailRepo  repo.SentEmailRepo
	engagementRepo repo.EngagementRepo

	rand *rand.Rand
	now  func() time.Time
}

// New returns a job that fills the email tables with demo data.
// Unless force is set, it does nothing when templates already exist.
func New(cfg config.Seed, force bool, txService repo.TxService, templateRepo repo.TemplateRepo,
	sentEmailRepo repo.SentEmailRepo, engagementRepo repo.EngagementRepo) service.Job {
	return &SeedDatabase{
		cfg:            cfg,
		force:          force,
		txService:      txService,
		templateRepo:   templateRepo,
		sentEmailRepo:  sentEmailRepo,
		engagementRepo: engagementRepo,
		now:            time.Now,
	}
}

func (j *SeedDatabase) Init(_ context.Context) error {
	seed := j.cfg.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	j.rand = rand.New(rand.NewSource(seed))

	if j.cfg.Recipients > len(firstNames)*len(lastNames)*len(domains)*1000 {
		return ErrTooManyRecipients
	}

	return nil
}

func (j *SeedDatabase) Run(ctx context.Context) error {
	if j.force {
		if err := j.clear(ctx); err != nil {
			log.Ctx(ctx).Error().Msgf("clear tables failed: %v", err)
			return err
		}
	} else {
		count, err := j.templateRepo.Count(ctx)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("count templates failed: %v", err)
			return err
		}
		if count > 0 {
			log.Ctx(ctx).Info().Msgf("database already has %d templates, skip seeding", count)
			return nil
		}
	}

	var (
		templates  = seedTemplates()
		recipients []string
		g          = new(errgroup.Group)
	)

	g.Go(func() error {
		return j.templateRepo.CreateMany(ctx, templates)
	})

	g.Go(func() error {
		recipients = j.generateRecipients(j.cfg.Recipients)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Ctx(ctx).Error().Msgf("insert templates failed: %v", err)
		return err
	}

	log.Ctx(ctx).Info().Msgf("generated %d unique recipients", len(recipients))

	now := j.now()

	var opens, clicks int
	for i := 0; i < j.cfg.Emails; i += j.cfg.BatchSize {
		size := j.cfg.BatchSize
		if i+size > j.cfg.Emails {
			size = j.cfg.Emails - i
		}

		o, c, err := j.seedBatch(ctx, now, size, templates, recipients)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("seed batch failed: %v, offset: %d", err, i)
			return err
		}
		opens += o
		clicks += c

		log.Ctx(ctx).Debug().Msgf("processed %d/%d emails", i+size, j.cfg.Emails)
	}

	log.Ctx(ctx).Info().Msgf("seed completed, templates: %d, emails: %d, opens: %d, clicks: %d",
		len(templates), j.cfg.Emails, opens, clicks)

	return nil
}

func (j *SeedDatabase) CleanUp(_ context.Context) error {
	return nil
}

func (j *SeedDatabase) clear(ctx context.Context) error {
	return j.txService.RunTx(ctx, func(ctx context.Context) error {
		if err := j.engagementRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := j.sentEmailRepo.DeleteAll(ctx); err != nil {
			return err
		}
		return j.templateRepo.DeleteAll(ctx)
	})
}

// seedBatch writes size sends with their opens and clicks in one transaction.
// The counters of every send equal the number of its detail rows.
func (j *SeedDatabase) seedBatch(ctx context.Context, now time.Time, size int,
	templates []*entity.Template, recipients []string) (int, int, error) {
	type plan struct {
		opens, clicks int
	}

	var (
		sentEmails = make([]*entity.SentEmail, size)
		plans      = make([]plan, size)
	)
	for k := 0; k < size; k++ {
		sentAt := now.
			AddDate(0, 0, -j.rand.Intn(j.cfg.Days)).
			Add(-time.Duration(j.rand.Intn(24)) * time.Hour).
			Add(-time.Duration(j.rand.Intn(60)) * time.Minute)

		opens := j.rand.Intn(maxOpensPerEmail + 1)
		clicks := j.rand.Intn(opens + 1)
		plans[k] = plan{opens: opens, clicks: clicks}

		sentEmails[k] = &entity.SentEmail{
			TemplateID: templates[j.rand.Intn(len(templates))].ID,
			Recipient:  goutil.String(recipients[j.rand.Intn(len(recipients))]),
			SentAt:     goutil.Time(sentAt),
			Status:     goutil.String(string(entity.SentEmailStatusSent)),
			Opens:      goutil.Uint64(uint64(opens)),
			Clicks:     goutil.Uint64(uint64(clicks)),
			MessageID:  goutil.String(uuid.NewString()),
		}
		if opens > 0 {
			sentEmails[k].LastActivityAt = goutil.Time(sentAt)
		}
	}

	var totalOpens, totalClicks int
	err := j.txService.RunTx(ctx, func(ctx context.Context) error {
		if err := j.sentEmailRepo.CreateMany(ctx, sentEmails, len(sentEmails)); err != nil {
			return err
		}

		var (
			opens  = make([]*entity.EmailOpen, 0)
			clicks = make([]*entity.EmailClick, 0)
		)
		for k, se := range sentEmails {
			for n := 0; n < plans[k].opens; n++ {
				opens = append(opens, &entity.EmailOpen{
					EmailID:   se.ID,
					OpenedAt:  goutil.Time(j.eventTime(se.GetSentAt())),
					UserAgent: goutil.String(userAgents[j.rand.Intn(len(userAgents))]),
					IPAddress: goutil.String(j.randomIP()),
				})
			}
			for n := 0; n < plans[k].clicks; n++ {
				clicks = append(clicks, &entity.EmailClick{
					EmailID:    se.ID,
					ClickedURL: goutil.String(clickURLs[j.rand.Intn(len(clickURLs))]),
					ClickedAt:  goutil.Time(j.eventTime(se.GetSentAt())),
					UserAgent:  goutil.String(userAgents[j.rand.Intn(len(userAgents))]),
					IPAddress:  goutil.String(j.randomIP()),
				})
			}
		}

		if err := j.engagementRepo.CreateOpens(ctx, opens, j.cfg.BatchSize); err != nil {
			return err
		}
		if err := j.engagementRepo.CreateClicks(ctx, clicks, j.cfg.BatchSize); err != nil {
			return err
		}

		totalOpens, totalClicks = len(opens), len(clicks)
		return nil
	})

	return totalOpens, totalClicks, err
}

func (j *SeedDatabase) eventTime(sentAt time.Time) time.Time {
	return sentAt.Add(time.Duration(j.rand.Int63n(int64(eventWindow/time.Minute))) * time.Minute)
}

func (j *SeedDatabase) randomIP() string {
	return fmt.Sprintf("192.168.%d.%d", j.rand.Intn(255), j.rand.Intn(255))
}

func (j *SeedDatabase) generateRecipients(count int) []string {
	var (
		seen       = make(map[string]struct{}, count)
		recipients = make([]string, 0, count)
	)
	for len(recipients) < count {
		email := fmt.Sprintf("%s.%s%d@%s",
			firstNames[j.rand.Intn(len(firstNames))],
			lastNames[j.rand.Intn(len(lastNames))],
			j.rand.Intn(1000),
			domains[j.rand.Intn(len(domains))])
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		recipients = append(recipients, email)
	}
	return recipients
}
