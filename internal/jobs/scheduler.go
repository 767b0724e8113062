package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler enqueues the nightly sweep that reconciles image deletes left
// half-done between the object store and the database.
type Scheduler struct {
	cron  *cron.Cron
	queue *Queue
	log   zerolog.Logger
}

func NewScheduler(queue *Queue, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.enqueueSweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for in-flight jobs, up to five seconds.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) enqueueSweep() {
	if err := s.queue.EnqueueSweep(context.Background()); err != nil {
		s.log.Error().Err(err).Msg("enqueue sweep failed")
	}
}
