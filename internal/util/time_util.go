package util

import (
	"etfgrid/internal/domain"
	"time"
)

const layout = "2006-01-02"

// MessageTimeLayout is the timestamp format used in notification text.
const MessageTimeLayout = "2006.01.02.15:04"

func DateKey(t time.Time) string {
	return t.Format(layout)
}

// InTradeSession is true when start <= time-of-day(now) <= end.
func InTradeSession(now time.Time, start, end domain.TimeOfDay) bool {
	tod := domain.TimeOfDayFrom(now)
	return !tod.Before(start) && !tod.After(end)
}

// ShouldDoDailyPush is true once the push time has passed and no push
// has been recorded for today's date yet.
func ShouldDoDailyPush(now time.Time, pushAt domain.TimeOfDay, lastPushDate *string) bool {
	if domain.TimeOfDayFrom(now).Before(pushAt) {
		return false
	}
	return lastPushDate == nil || *lastPushDate != DateKey(now)
}
