package handler

import (
	"context"
	"sort"

	"mailer/entity"
	"mailer/pkg/goutil"
	"mailer/repo"

	"github.com/mssola/user_agent"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	recentEmailsLimit = 5
	activitiesLimit   = 10

	deviceDesktop = "desktop"
	deviceMobile  = "mobile"
	deviceTablet  = "tablet"
	deviceBot     = "bot"
	unknown       = "unknown"
)

type AnalyticsHandler interface {
	GetOpenAnalytics(ctx context.Context, req *GetOpenAnalyticsRequest, res *GetOpenAnalyticsResponse) error
	GetClickAnalytics(ctx context.Context, req *GetClickAnalyticsRequest, res *GetClickAnalyticsResponse) error
	GetDeviceAnalytics(ctx context.Context, req *GetDeviceAnalyticsRequest, res *GetDeviceAnalyticsResponse) error
	GetSentEmails(ctx context.Context, req *GetSentEmailsRequest, res *GetSentEmailsResponse) error
	GetStats(ctx context.Context, req *GetStatsRequest, res *GetStatsResponse) error
	GetActivities(ctx context.Context, req *GetActivitiesRequest, res *GetActivitiesResponse) error
}

type analyticsHandler struct {
	analyticsRepo repo.AnalyticsRepo
	sentEmailRepo repo.SentEmailRepo
	templateRepo  repo.TemplateRepo
}

func NewAnalyticsHandler(analyticsRepo repo.AnalyticsRepo, sentEmailRepo repo.SentEmailRepo,
	templateRepo repo.TemplateRepo) AnalyticsHandler {
	return &analyticsHandler{
		analyticsRepo: analyticsRepo,
		sentEmailRepo: sentEmailRepo,
		templateRepo:  templateRepo,
	}
}

type GetOpenAnalyticsRequest struct{}

type GetOpenAnalyticsResponse []*entity.OpenBreakdown

func (h *analyticsHandler) GetOpenAnalytics(ctx context.Context, _ *GetOpenAnalyticsRequest, res *GetOpenAnalyticsResponse) error {
	breakdown, err := h.analyticsRepo.GetOpenBreakdown(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("get open analytics failed: %v", err)
		return err
	}

	*res = breakdown

	return nil
}

type GetClickAnalyticsRequest struct{}

type GetClickAnalyticsResponse []*entity.ClickBreakdown

func (h *analyticsHandler) GetClickAnalytics(ctx context.Context, _ *GetClickAnalyticsRequest, res *GetClickAnalyticsResponse) error {
	breakdown, err := h.analyticsRepo.GetClickBreakdown(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("get click analytics failed: %v", err)
		return err
	}

	*res = breakdown

	return nil
}

type GetDeviceAnalyticsRequest struct{}

type GetDeviceAnalyticsResponse []*entity.DeviceBreakdown

// GetDeviceAnalytics groups opens by the device class, browser and OS of their user agents.
func (h *analyticsHandler) GetDeviceAnalytics(ctx context.Context, _ *GetDeviceAnalyticsRequest, res *GetDeviceAnalyticsResponse) error {
	counts, err := h.analyticsRepo.GetUserAgentCounts(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("get device analytics failed: %v", err)
		return err
	}

	*res = groupByDevice(counts)

	return nil
}

func groupByDevice(counts []*repo.UserAgentCount) []*entity.DeviceBreakdown {
	type deviceKey struct {
		device, browser, os string
	}

	var (
		keys   = make([]deviceKey, 0)
		totals = make(map[deviceKey]uint64)
	)
	for _, c := range counts {
		device, browser, os := parseUserAgent(c.GetUserAgent())
		k := deviceKey{device, browser, os}
		if _, ok := totals[k]; !ok {
			keys = append(keys, k)
		}
		totals[k] += c.OpenCount
	}

	breakdown := make([]*entity.DeviceBreakdown, len(keys))
	for i, k := range keys {
		breakdown[i] = &entity.DeviceBreakdown{
			Device:    goutil.String(k.device),
			Browser:   goutil.String(k.browser),
			OS:        goutil.String(k.os),
			OpenCount: goutil.Uint64(totals[k]),
		}
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		a, b := breakdown[i], breakdown[j]
		if a.GetOpenCount() != b.GetOpenCount() {
			return a.GetOpenCount() > b.GetOpenCount()
		}
		if *a.Device != *b.Device {
			return *a.Device < *b.Device
		}
		if *a.Browser != *b.Browser {
			return *a.Browser < *b.Browser
		}
		return *a.OS < *b.OS
	})

	return breakdown
}

func parseUserAgent(s string) (device, browser, os string) {
	if s == "" {
		return unknown, unknown, unknown
	}

	ua := user_agent.New(s)

	switch {
	case ua.Bot():
		device = deviceBot
	case ua.Platform() == "iPad":
		device = deviceTablet
	case ua.Mobile():
		device = deviceMobile
	default:
		device = deviceDesktop
	}

	browser, _ = ua.Browser()
	if browser == "" {
		browser = unknown
	}

	os = ua.OSInfo().Name
	if os == "" {
		os = unknown
	}

	return device, browser, os
}

type GetSentEmailsRequest struct {
	Page  *uint32 `schema:"page" json:"page,omitempty" validate:"omitempty,gte=1"`
	Limit *uint32 `schema:"limit" json:"limit,omitempty" validate:"omitempty,gte=1,lte=1000"`
}

type GetSentEmailsResponse []*entity.SentEmailLog

func (h *analyticsHandler) GetSentEmails(ctx context.Context, req *GetSentEmailsRequest, res *GetSentEmailsResponse) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	logs, err := h.sentEmailRepo.GetLog(ctx, &entity.Pagination{
		Page:  req.Page,
		Limit: req.Limit,
	})
	if err != nil {
		log.Ctx(ctx).Error().Msgf("get sent emails failed: %v", err)
		return err
	}

	*res = logs

	return nil
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	*entity.Stats
}

func (h *analyticsHandler) GetStats(ctx context.Context, _ *GetStatsRequest, res *GetStatsResponse) error {
	var (
		summary      *entity.SendSummary
		templates    uint64
		recentEmails []*entity.RecentEmail
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		summary, err = h.analyticsRepo.GetSendSummary(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		templates, err = h.templateRepo.Count(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		recentEmails, err = h.analyticsRepo.GetRecentEmails(gctx, recentEmailsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Ctx(ctx).Error().Msgf("get stats failed: %v", err)
		return err
	}

	res.Stats = &entity.Stats{
		TotalEmails:  goutil.Uint64(summary.TotalEmails),
		OpenRate:     goutil.Float64(goutil.Percent(summary.OpenedEmails, summary.TotalEmails)),
		ClickRate:    goutil.Float64(goutil.Percent(summary.ClickedEmails, summary.TotalEmails)),
		Templates:    goutil.Uint64(templates),
		RecentEmails: recentEmails,
	}

	return nil
}

type GetActivitiesRequest struct{}

type GetActivitiesResponse []*entity.Activity

func (h *analyticsHandler) GetActivities(ctx context.Context, _ *GetActivitiesRequest, res *GetActivitiesResponse) error {
	activities, err := h.analyticsRepo.GetActivities(ctx, activitiesLimit)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("get activities failed: %v", err)
		return err
	}

	*res = activities

	return nil
}
