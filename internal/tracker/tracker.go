package tracker

import (
	"context"
	"time"

	"github.com/Fastpacer/jobcraft/internal/schema"

	"go.uber.org/zap"
)

// Tracker records one application per job that clears the score gate.
type Tracker struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func New(store Store, log *zap.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Track builds and persists a new application record. Status starts as
// discovered; the fit score is clamped to [0, 100] before the write.
func (t *Tracker) Track(ctx context.Context, job schema.Job, fitScore int, outreachMessage string) error {
	app := &schema.Application{
		JobID:           job.JobID,
		JobTitle:        job.Title,
		Company:         job.Company,
		FitScore:        schema.ClampScore(fitScore),
		Status:          schema.StatusDiscovered,
		OutreachMessage: outreachMessage,
		CreatedAt:       t.now(),
	}

	if err := t.store.Save(ctx, app); err != nil {
		return err
	}

	t.logger.Info("application tracked",
		zap.String("job_title", app.JobTitle),
		zap.String("company", app.Company),
		zap.Int("fit_score", app.FitScore),
	)

	return nil
}
