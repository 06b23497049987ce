package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DefaultLocation is the exchange time zone.
const DefaultLocation = "America/New_York"

// Session bounds in exchange local time.
const (
	openHour         = 9
	openMinute       = 30
	closeHour        = 16
	halfDayCloseHour = 13
)

// maxLookbackDays bounds the backwards search for a trading date.
const maxLookbackDays = 31

// Calendar computes trading days and session minutes.
type Calendar struct {
	loc      *time.Location
	holidays HolidaySource
}

// New creates a Calendar in loc. A nil holidays source means weekends are the only closures.
func New(loc *time.Location, holidays HolidaySource) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc, holidays: holidays}
}

// NewInLocation creates a Calendar for a named IANA time zone.
func NewInLocation(name string, holidays HolidaySource) (*Calendar, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %s: %w", name, err)
	}
	return New(loc, holidays), nil
}

// Location returns the exchange location.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Date returns midnight of t's calendar date in the exchange location.
func (c *Calendar) Date(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// IsTradingDay reports whether date is a weekday the exchange is open.
func (c *Calendar) IsTradingDay(date time.Time) bool {
	date = c.Date(date)
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if c.holidays != nil && c.holidays.IsHoliday(date) {
		return false
	}
	return true
}

// IsHalfTradingDay reports whether date is a trading day with a 13:00 close.
func (c *Calendar) IsHalfTradingDay(date time.Time) bool {
	date = c.Date(date)
	return c.IsTradingDay(date) && c.holidays != nil && c.holidays.IsHalfDay(date)
}

// Open returns the session open (09:30) on date.
func (c *Calendar) Open(date time.Time) time.Time {
	y, m, d := c.Date(date).Date()
	return time.Date(y, m, d, openHour, openMinute, 0, 0, c.loc)
}

// Close returns the session close on date: 16:00, or 13:00 on a half day.
func (c *Calendar) Close(date time.Time) time.Time {
	y, m, d := c.Date(date).Date()
	hour := closeHour
	if c.IsHalfTradingDay(date) {
		hour = halfDayCloseHour
	}
	return time.Date(y, m, d, hour, 0, 0, 0, c.loc)
}

// TradingMinutes returns every minute mark from open to close inclusive, ascending.
// A full day has 391 marks and a half day 211. Non-trading days return nil.
func (c *Calendar) TradingMinutes(date time.Time) []time.Time {
	if !c.IsTradingDay(date) {
		return nil
	}
	return minuteRange(c.Open(date), c.Close(date))
}

// LatestTradingDate returns the most recent trading date whose session has begun
// as of now, otherwise the trading date before it.
func (c *Calendar) LatestTradingDate(now time.Time) time.Time {
	d := c.Date(now)
	if c.IsTradingDay(d) && !now.Before(c.Open(d)) {
		return d
	}
	for i := 0; i < maxLookbackDays; i++ {
		d = c.Date(d.AddDate(0, 0, -1))
		if c.IsTradingDay(d) {
			return d
		}
	}
	return d
}

// IsMarketOpen reports whether now falls inside a regular session.
func (c *Calendar) IsMarketOpen(now time.Time) bool {
	if !c.IsTradingDay(now) {
		return false
	}
	return !now.Before(c.Open(now)) && now.Before(c.Close(now))
}

// Window returns the real-time backfill window [max(open, now-lookback), min(now, close)].
// The start is minute aligned. ok is false on non-trading days and when the window is
// empty or inverted.
func (c *Calendar) Window(now time.Time, lookback time.Duration) (start, end time.Time, ok bool) {
	now = now.In(c.loc)
	if !c.IsTradingDay(now) {
		return time.Time{}, time.Time{}, false
	}

	start = now.Truncate(time.Minute).Add(-lookback)
	if open := c.Open(now); start.Before(open) {
		start = open
	}
	if !now.After(start) {
		return time.Time{}, time.Time{}, false
	}

	end = now
	if closeAt := c.Close(now); end.After(closeAt) {
		end = closeAt
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// WindowMinutes returns the minute marks of Window(now, lookback), or nil when it is empty.
func (c *Calendar) WindowMinutes(now time.Time, lookback time.Duration) []time.Time {
	start, end, ok := c.Window(now, lookback)
	if !ok {
		return nil
	}
	return minuteRange(start, end)
}

func minuteRange(start, end time.Time) []time.Time {
	n := int(end.Sub(start)/time.Minute) + 1
	minutes := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		minutes = append(minutes, start.Add(time.Duration(i)*time.Minute))
	}
	return minutes
}
