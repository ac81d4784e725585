// Package console composes the operator screens: it fetches lists through
// the platform client, filters them locally, and renders text tables. All
// filtering and search happen over already-fetched slices; the server is
// never asked to filter.
package console

import (
	"fmt"
	"strings"
)

// View identifies one console screen. The set is closed; dispatch over it is
// always an exhaustive switch.
type View int

const (
	ViewDashboard View = iota
	ViewBookings
	ViewFields
	ViewRoles
	ViewAdmins
	ViewReports
)

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewBookings:
		return "bookings"
	case ViewFields:
		return "fields"
	case ViewRoles:
		return "roles"
	case ViewAdmins:
		return "admins"
	case ViewReports:
		return "reports"
	default:
		return "unknown"
	}
}

// AllViews lists every screen in display order.
func AllViews() []View {
	return []View{ViewDashboard, ViewBookings, ViewFields, ViewRoles, ViewAdmins, ViewReports}
}

// ParseView maps operator input to a view. Matching is case-insensitive.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dashboard", "home":
		return ViewDashboard, nil
	case "bookings":
		return ViewBookings, nil
	case "fields":
		return ViewFields, nil
	case "roles":
		return ViewRoles, nil
	case "admins":
		return ViewAdmins, nil
	case "reports":
		return ViewReports, nil
	default:
		return ViewDashboard, fmt.Errorf("console: unknown view %q", s)
	}
}
