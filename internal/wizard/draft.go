package wizard

import (
	"regexp"
	"strings"
)

// Draft is the in-memory booking under construction. It exists only while
// the wizard is open; the server is the sole system of record for the
// resulting booking.
type Draft struct {
	BookingDate   string // YYYY-MM-DD
	StartTime     string // HH:MM
	EndTime       string // HH:MM
	Duration      float64
	TotalPrice    float64
	Notes         string
	CustomerPhone string
	CustomerName  string
}

// recalc rederives duration and total price from the current times.
// Idempotent: repeated recomputation on identical input never drifts.
func (d *Draft) recalc(pricePerHour float64) {
	d.Duration = Duration(d.StartTime, d.EndTime)
	d.TotalPrice = TotalPrice(d.Duration, pricePerHour)
}

var phonePattern = regexp.MustCompile(`^0[0-9]{9}$`)

// normalizePhone strips all whitespace from a phone entry.
func normalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

// validPhone accepts a leading zero followed by exactly nine more digits.
func validPhone(phone string) bool {
	return phonePattern.MatchString(normalizePhone(phone))
}
