package timezone

import (
	"strings"
	"time"

	"cowork/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const dateLayout = time.DateOnly

var (
	appLocation = time.UTC

	ErrInvalidDate = errors.New("invalid calendar date")
)

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		return
	}

	appLocation = loc
	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(appLocation)
}

func Location() *time.Location {
	return appLocation
}

func Format(t time.Time, layout string) string {
	return t.In(appLocation).Format(layout)
}

// Today is the current calendar day of the application timezone, as midnight UTC.
func Today() time.Time {
	return DateOf(Now())
}

// DateOf drops the clock and zone of t, keeping the calendar day it falls on.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthOf returns the first calendar day of the month t falls on.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts only zero padded YYYY-MM-DD values that name a real day.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) != len(dateLayout) {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "%q", value)
	}

	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "%q", value)
	}

	return date, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Nights counts the days between two calendar dates, rounding partial days up.
func Nights(start, end time.Time) int64 {
	diff := end.Sub(start)
	days := int64(diff / (24 * time.Hour))

	if diff%(24*time.Hour) > 0 {
		days++
	}

	return days
}
