package calendar

import (
	"github.com/rickgao/marketdata/internal/config"
)

// FromConfig builds a Calendar from the configured time zone and closure lists.
func FromConfig(cfg config.CalendarConfig) (*Calendar, error) {
	holidays, err := NewStaticHolidays(cfg.Holidays, cfg.HalfDays)
	if err != nil {
		return nil, err
	}
	name := cfg.Timezone
	if name == "" {
		name = DefaultLocation
	}
	return NewInLocation(name, holidays)
}
