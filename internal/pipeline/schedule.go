package pipeline

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunLoop runs one cycle immediately and then repeats at the top of
// every hour in the publication's home timezone until the context is
// canceled. No cycle state survives between iterations beyond what is
// already on disk.
func (r *Runner) RunLoop(ctx context.Context) error {
	r.runAndReport(ctx)

	scheduler := cron.New(cron.WithLocation(r.source.Location))
	if _, err := scheduler.AddFunc("0 * * * *", func() {
		if ctx.Err() != nil {
			return
		}
		r.runAndReport(ctx)
	}); err != nil {
		return fmt.Errorf("schedule hourly cycle: %w", err)
	}

	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	return nil
}

// RunOnce executes a single cycle and logs the summary.
func (r *Runner) RunOnce(ctx context.Context) error {
	report, err := r.RunCycle(ctx)
	if err != nil {
		return err
	}
	r.logSummary(report)
	return nil
}

func (r *Runner) runAndReport(ctx context.Context) {
	report, err := r.RunCycle(ctx)
	if err != nil {
		r.logger.Error("cycle failed", zap.Error(err))
		return
	}
	r.logSummary(report)
}

func (r *Runner) logSummary(report CycleReport) {
	r.logger.Info("harvest summary",
		zap.String("at", r.clock.Now().In(r.source.Location).Format("2006-01-02T15:04:05-07:00")),
		zap.Int("saved", report.Saved),
		zap.Int("skipped", report.Skipped()),
	)
}
