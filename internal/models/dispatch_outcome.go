package models

import (
	"time"

	"github.com/customeros/reportmailer/internal/enum"
)

// DispatchOutcome is the result of sending the report to one recipient.
type DispatchOutcome struct {
	Recipient   string
	Status      enum.DispatchStatus
	MessageID   string
	AttemptedAt time.Time
	Err         error
}

func (o DispatchOutcome) Succeeded() bool {
	return o.Status == enum.DispatchStatusSent
}

// CountOutcomes returns the number of sent and failed outcomes.
func CountOutcomes(outcomes []DispatchOutcome) (sent, failed int) {
	for _, o := range outcomes {
		if o.Succeeded() {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed
}
