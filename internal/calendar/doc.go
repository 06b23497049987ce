// Package calendar answers trading-session questions for US equity and option markets:
// which dates trade, which close early, and which minute marks a session contains.
//
// Holidays and half days come from a HolidaySource. Everything else (weekends, session
// bounds, the real-time window) is computed here in the exchange location.
package calendar
