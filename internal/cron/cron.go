package cron

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	cronv3 "github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/customeros/reportmailer/interfaces"
	cron_config "github.com/customeros/reportmailer/internal/cron/config"
	"github.com/customeros/reportmailer/internal/enum"
	mailerrors "github.com/customeros/reportmailer/internal/errors"
	"github.com/customeros/reportmailer/internal/logger"
	"github.com/customeros/reportmailer/internal/models"
	"github.com/customeros/reportmailer/internal/tracing"
	"github.com/customeros/reportmailer/internal/utils"
)

// AppSourceScheduler marks contexts of scheduled runs
const AppSourceScheduler = "scheduler"

// Scheduler dispatches the report at the configured time and re-arms itself
// after every run. It holds at most one pending run time. Runs never
// overlap: the next wait starts only after the previous dispatch returned.
type Scheduler struct {
	cfg        *cron_config.Config
	log        logger.Logger
	dispatcher interfaces.EmailDispatcher

	now       func() time.Time
	waitUntil func(ctx context.Context, at time.Time) error

	mu         sync.Mutex
	state      enum.SchedulerState
	next       time.Time
	recurrence cronv3.Schedule
}

func NewScheduler(cfg *cron_config.Config, log logger.Logger, dispatcher interfaces.EmailDispatcher) *Scheduler {
	s := &Scheduler{
		cfg:        cfg,
		log:        log,
		dispatcher: dispatcher,
		now:        utils.Now,
	}
	s.waitUntil = s.sleepUntil
	return s
}

// Next returns the pending run time.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

func (s *Scheduler) State() enum.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run arms the scheduler at params.ScheduleAt and loops until ctx is
// cancelled or the recurrence has no further occurrence.
func (s *Scheduler) Run(ctx context.Context, params *models.ParameterSet) error {
	recurrence, err := ParseRecurrence(params.Recurrence, s.cfg.DefaultInterval)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.recurrence = recurrence
	s.next = params.ScheduleAt
	s.state = enum.SchedulerStateArmed
	s.mu.Unlock()
	s.log.Infof("New schedule: %s", utils.FormatScheduleTime(params.ScheduleAt))

	for {
		if err := s.waitUntil(ctx, s.Next()); err != nil {
			return err
		}
		if _, err := s.fire(ctx, params); err != nil {
			return err
		}
	}
}

// fire re-arms the scheduler before dispatching, so a failing or panicking
// dispatch cannot lose the next run.
func (s *Scheduler) fire(ctx context.Context, params *models.ParameterSet) (outcomes []models.DispatchOutcome, err error) {
	runId := utils.GenerateNanoIDWithPrefix("run", 12)
	ctx = utils.SetAppSourceInContext(ctx, AppSourceScheduler)
	ctx = utils.SetRunIdInContext(ctx, runId)

	span, ctx := tracing.StartTracerSpan(ctx, "Scheduler.fire")
	defer span.Finish()
	tracing.SetDefaultCronJobSpanTags(ctx, span)

	runLog := s.log.With(zap.String(tracing.SpanTagRunId, runId))

	firedAt, rearmErr := s.rearm()
	if rearmErr != nil {
		tracing.TraceErr(span, rearmErr)
		runLog.Errorf("Could not schedule the next run after %s: %v", utils.FormatScheduleTime(firedAt), rearmErr)
		err = rearmErr
	} else {
		runLog.Infof("New schedule for next run: %s", utils.FormatScheduleTime(s.Next()))
	}

	defer tracing.RecoverAndLogToJaeger(runLog)

	outcomes = s.dispatcher.SendAll(ctx, params)
	sent, failed := models.CountOutcomes(outcomes)
	span.LogKV("sent", sent, "failed", failed)
	runLog.Infof("Run scheduled for %s finished: %d sent, %d failed", utils.FormatScheduleTime(firedAt), sent, failed)
	return outcomes, err
}

// rearm installs the run following the current one and returns the fire time
// it replaced. Occurrences already in the past are skipped.
func (s *Scheduler) rearm() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	firedAt := s.next
	s.state = enum.SchedulerStateFiring

	now := s.now()
	next := s.recurrence.Next(firedAt)
	for !next.IsZero() && !next.After(now) {
		s.log.Warnf("Skipping missed run at %s", utils.FormatScheduleTime(next))
		next = s.recurrence.Next(next)
	}
	if next.IsZero() {
		return firedAt, errors.Wrap(mailerrors.ErrInvalidRecurrence, "no further occurrence")
	}

	s.next = next
	s.state = enum.SchedulerStateArmed
	return firedAt, nil
}

// sleepUntil blocks until at, sleeping at most cfg.MaxSleep at a time so
// clock steps and system suspend are noticed.
func (s *Scheduler) sleepUntil(ctx context.Context, at time.Time) error {
	for {
		wait := at.Sub(s.now())
		if wait <= 0 {
			return nil
		}
		if s.cfg.MaxSleep > 0 && wait > s.cfg.MaxSleep {
			wait = s.cfg.MaxSleep
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
