package enum

type SchedulerState string

const (
	// SchedulerStateArmed means exactly one pending run time is installed.
	SchedulerStateArmed SchedulerState = "armed"
	// SchedulerStateFiring means the pending run time was reached and the
	// next one is not installed yet.
	SchedulerStateFiring SchedulerState = "firing"
)

func (t SchedulerState) String() string {
	return string(t)
}
