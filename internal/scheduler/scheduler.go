package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/Zelus7/fantasy-dvp-builder/internal/service"
	"github.com/go-co-op/gocron/v2"
)

// Scheduler reruns the DvP build on a cron schedule. Failures of a
// scheduled build are logged, not fatal: the next tick tries again.
type Scheduler struct {
	s        gocron.Scheduler
	dvp      *service.DVPService
	cronExpr string
}

func NewScheduler(dvpService *service.DVPService, cronExpr string) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:        s,
		dvp:      dvpService,
		cronExpr: cronExpr,
	}, nil
}

func (s *Scheduler) Start() error {
	// Builds run for minutes; singleton mode drops ticks that land while a
	// build is still in flight instead of overlapping runs on one client.
	_, err := s.s.NewJob(
		gocron.CronJob(s.cronExpr, false),
		gocron.NewTask(s.runBuild),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create build job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) runBuild() {
	slog.Info("Scheduled DvP build starting")
	if err := s.dvp.Run(); err != nil {
		slog.Error("Scheduled DvP build failed", "error", err)
		return
	}
	slog.Info("Scheduled DvP build finished")
}
