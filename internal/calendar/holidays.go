package calendar

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// HolidaySource reports exchange holidays and early-close days.
type HolidaySource interface {
	IsHoliday(date time.Time) bool
	IsHalfDay(date time.Time) bool
}

// StaticHolidays is a HolidaySource backed by fixed date lists.
type StaticHolidays struct {
	holidays map[string]struct{}
	halfDays map[string]struct{}
}

// NewStaticHolidays parses YYYY-MM-DD lists of full holidays and half days.
func NewStaticHolidays(holidays, halfDays []string) (*StaticHolidays, error) {
	h := &StaticHolidays{
		holidays: make(map[string]struct{}, len(holidays)),
		halfDays: make(map[string]struct{}, len(halfDays)),
	}
	for _, s := range holidays {
		if _, err := time.Parse(dateLayout, s); err != nil {
			return nil, fmt.Errorf("parse holiday %q: %w", s, err)
		}
		h.holidays[s] = struct{}{}
	}
	for _, s := range halfDays {
		if _, err := time.Parse(dateLayout, s); err != nil {
			return nil, fmt.Errorf("parse half day %q: %w", s, err)
		}
		h.halfDays[s] = struct{}{}
	}
	return h, nil
}

// IsHoliday reports whether the exchange is closed all day on date.
func (h *StaticHolidays) IsHoliday(date time.Time) bool {
	_, ok := h.holidays[date.Format(dateLayout)]
	return ok
}

// IsHalfDay reports whether the exchange closes at 13:00 on date.
func (h *StaticHolidays) IsHalfDay(date time.Time) bool {
	_, ok := h.halfDays[date.Format(dateLayout)]
	return ok
}
