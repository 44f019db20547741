package utils

import "time"

// ScheduleLayout is the layout of schedule values in the report configuration.
const ScheduleLayout = "2006-01-02 15:04:05"

func Now() time.Time {
	return time.Now()
}

func FormatScheduleTime(t time.Time) string {
	return t.Format(ScheduleLayout)
}
