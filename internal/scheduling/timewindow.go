// Package scheduling holds the wall-clock arithmetic used to price
// interpretation appointments: billable hours, zone resolution and
// same-day / too-soon checks.
package scheduling

import (
	"fmt"
	"strings"
	"time"

	"interpretation-workers/internal/common/logger"
	"interpretation-workers/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// MinimumLeadTime is how far ahead a same-day appointment must start.
	MinimumLeadTime = 60 * time.Minute
)

type SchedulingCode string

const (
	CodePastDate SchedulingCode = "PAST_DATE"
	CodeTooSoon  SchedulingCode = "TOO_SOON"
)

// SchedulingError is a user-correctable rejection of an appointment window.
type SchedulingError struct {
	Code      SchedulingCode
	Date      string
	StartTime string
	TimeZone  string
}

func (e *SchedulingError) Error() string {
	switch e.Code {
	case CodePastDate:
		return fmt.Sprintf("appointment date %s is in the past (%s)", e.Date, e.TimeZone)
	case CodeTooSoon:
		return fmt.Sprintf("appointment at %s %s must start at least %d minutes from now (%s)",
			e.Date, e.StartTime, int(MinimumLeadTime.Minutes()), e.TimeZone)
	}
	return fmt.Sprintf("scheduling error %s", e.Code)
}

// Calculator is safe for concurrent use; it holds no mutable state.
type Calculator struct {
	now    func() time.Time
	logger logger.Logger
}

type Option func(*Calculator)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

func WithLogger(log logger.Logger) Option {
	return func(c *Calculator) { c.logger = log }
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		now:    time.Now,
		logger: logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComputeHours returns the billable hours between two HH:mm times. Any
// remainder minutes round up to a full hour. Non-positive or unparseable
// spans are 0.
func (c *Calculator) ComputeHours(startTime, endTime string) int {
	start, ok := minutesOfDay(startTime)
	if !ok {
		return 0
	}
	end, ok := minutesOfDay(endTime)
	if !ok {
		return 0
	}

	minutes := end - start
	if minutes <= 0 {
		return 0
	}

	hours := minutes / 60
	if minutes%60 != 0 {
		hours++
	}
	return hours
}

// ResolveTimeZone picks the zone used to interpret appointment windows.
// On-site jobs use the state table; remote jobs use the caller's zone.
func (c *Calculator) ResolveTimeZone(mode models.ServiceMode, state, explicitZone string) string {
	if mode.IsOnSite() {
		if tz, ok := StateTimeZone(strings.ToUpper(strings.TrimSpace(state))); ok {
			return tz
		}
	}
	if zone := strings.TrimSpace(explicitZone); zone != "" {
		return zone
	}
	return DefaultTimeZone
}

// ValidateAppointmentTime rejects dates before today and same-day starts
// inside the lead time. An unknown zone never blocks a booking.
func (c *Calculator) ValidateAppointmentTime(date, startTime, zone string) error {
	now, err := c.nowIn(zone)
	if err != nil {
		// fail open: zone problems must not reject a legitimate booking
		c.logger.Debug("time zone unavailable, skipping appointment validation", map[string]interface{}{
			"timeZone": zone,
			"error":    err.Error(),
		})
		return nil
	}

	today := now.Format(dateLayout)
	if date < today {
		return &SchedulingError{Code: CodePastDate, Date: date, StartTime: startTime, TimeZone: zone}
	}
	if date != today {
		return nil
	}

	start, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+startTime, now.Location())
	if err != nil {
		return nil
	}
	if start.Sub(now) < MinimumLeadTime {
		return &SchedulingError{Code: CodeTooSoon, Date: date, StartTime: startTime, TimeZone: zone}
	}
	return nil
}

// IsSameDay reports whether date is today in zone. Zone errors yield false.
func (c *Calculator) IsSameDay(date, zone string) bool {
	now, err := c.nowIn(zone)
	if err != nil {
		// fail open: no rush fee when "today" cannot be determined
		c.logger.Debug("time zone unavailable, same-day check skipped", map[string]interface{}{
			"timeZone": zone,
			"error":    err.Error(),
		})
		return false
	}
	return date == now.Format(dateLayout)
}

func (c *Calculator) nowIn(zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, err
	}
	return c.now().In(loc), nil
}

func minutesOfDay(hhmm string) (int, bool) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(hhmm))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ValidClock reports whether s is an HH:mm time of day.
func ValidClock(s string) bool {
	_, ok := minutesOfDay(s)
	return ok
}
