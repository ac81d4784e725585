package console

import (
	"strings"

	"github.com/minhthien1995/booking-football-cms/internal/fieldapi"
)

// BookingFilter narrows an already-fetched booking list. Empty criteria
// match everything.
type BookingFilter struct {
	Status        string // pending, confirmed, completed, cancelled
	PaymentStatus string // unpaid, paid, refunded
	Search        string // matched against customer name, email and field name
}

// Apply returns the bookings matching every set criterion.
func (f BookingFilter) Apply(bookings []fieldapi.Booking) []fieldapi.Booking {
	out := make([]fieldapi.Booking, 0, len(bookings))
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	for _, b := range bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
			continue
		}
		if needle != "" && !bookingMatches(b, needle) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func bookingMatches(b fieldapi.Booking, needle string) bool {
	if b.User != nil {
		if strings.Contains(strings.ToLower(b.User.FullName), needle) {
			return true
		}
		if strings.Contains(strings.ToLower(b.User.Email), needle) {
			return true
		}
	}
	if b.Field != nil && strings.Contains(strings.ToLower(b.Field.Name), needle) {
		return true
	}
	return false
}

// FieldFilter narrows an already-fetched field list.
type FieldFilter struct {
	Search     string // matched against name and location
	FieldType  string // 5vs5, 7vs7, 11vs11
	ActiveOnly bool
}

// Apply returns the fields matching every set criterion.
func (f FieldFilter) Apply(fields []fieldapi.Field) []fieldapi.Field {
	out := make([]fieldapi.Field, 0, len(fields))
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	for _, fd := range fields {
		if f.ActiveOnly && !fd.IsActive {
			continue
		}
		if f.FieldType != "" && fd.FieldType != f.FieldType {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(fd.Name), needle) &&
			!strings.Contains(strings.ToLower(fd.Location), needle) {
			continue
		}
		out = append(out, fd)
	}
	return out
}
