package cron

import (
	"time"

	"github.com/pkg/errors"
	cronv3 "github.com/robfig/cron/v3"

	mailerrors "github.com/customeros/reportmailer/internal/errors"
)

// ParseRecurrence returns the schedule computing the run after a fired one.
// An empty spec means a fixed interval from the previous run time, otherwise
// spec is a standard cron line or descriptor ("@daily", "@every 12h").
func ParseRecurrence(spec string, interval time.Duration) (cronv3.Schedule, error) {
	if spec == "" {
		return cronv3.Every(interval), nil
	}
	schedule, err := cronv3.ParseStandard(spec)
	if err != nil {
		return nil, errors.Wrapf(mailerrors.ErrInvalidRecurrence, "%q: %v", spec, err)
	}
	return schedule, nil
}
