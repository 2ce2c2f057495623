package handler

import (
	"context"
	"time"

	"mailer/pkg/goutil"

	"github.com/rs/zerolog/log"
)

// DBClock reads the current time from the database.
type DBClock interface {
	Now(ctx context.Context) (time.Time, error)
}

type HealthHandler interface {
	HealthCheck(ctx context.Context, req *HealthCheckRequest, res *HealthCheckResponse) error
	TestDB(ctx context.Context, req *TestDBRequest, res *TestDBResponse) error
}

type healthHandler struct {
	dbClock DBClock
}

func NewHealthHandler(dbClock DBClock) HealthHandler {
	return &healthHandler{
		dbClock: dbClock,
	}
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct{}

func (h *healthHandler) HealthCheck(_ context.Context, _ *HealthCheckRequest, _ *HealthCheckResponse) error {
	return nil
}

type TestDBRequest struct{}

type TestDBResponse struct {
	Success   *bool      `json:"success"`
	Timestamp *time.Time `json:"timestamp"`
}

func (h *healthHandler) TestDB(ctx context.Context, _ *TestDBRequest, res *TestDBResponse) error {
	now, err := h.dbClock.Now(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("test db failed: %v", err)
		return err
	}

	res.Success = goutil.Bool(true)
	res.Timestamp = goutil.Time(now)

	return nil
}
