package wizard

import (
	"strconv"
	"strings"
)

// parseClock parses an "HH:MM" time-of-day into minutes since midnight.
func parseClock(value string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// Duration returns the hours between two times of day. A missing or
// malformed time, or an end at/before the start, yields a non-positive
// value; that blocks stage advancement but is never an error.
func Duration(startTime, endTime string) float64 {
	start, ok := parseClock(startTime)
	if !ok {
		return 0
	}
	end, ok := parseClock(endTime)
	if !ok {
		return 0
	}
	return float64(end-start) / 60
}

// TotalPrice is duration times the field's hourly rate. Non-positive
// durations price at zero.
func TotalPrice(duration, pricePerHour float64) float64 {
	if duration <= 0 {
		return 0
	}
	return duration * pricePerHour
}
