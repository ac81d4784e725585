package console

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/minhthien1995/booking-football-cms/internal/fieldapi"
	"github.com/minhthien1995/booking-football-cms/internal/notifications"
	"github.com/minhthien1995/booking-football-cms/pkg/logging"
)

// API is the slice of the platform client the console screens use.
// *fieldapi.Client satisfies it.
type API interface {
	Stats(ctx context.Context) (*fieldapi.Stats, error)
	ListBookings(ctx context.Context) ([]fieldapi.Booking, error)
	ListFields(ctx context.Context) ([]fieldapi.Field, error)
	ListRoles(ctx context.Context) ([]fieldapi.Role, error)
	ListAdmins(ctx context.Context) ([]fieldapi.Admin, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) (*fieldapi.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, paymentStatus string) (*fieldapi.Booking, error)
	CancelBooking(ctx context.Context, id int64) (*fieldapi.Booking, error)
	CreateField(ctx context.Context, in fieldapi.FieldInput) (*fieldapi.Field, error)
	UpdateField(ctx context.Context, id int64, in fieldapi.FieldInput) (*fieldapi.Field, error)
	DeleteField(ctx context.Context, id int64) error
}

var _ API = (*fieldapi.Client)(nil)

// Console renders screens to out and applies operator actions through the
// platform API. Fetched lists are cached per screen so filters run locally;
// mutations patch the cache from the API's returned entity instead of
// reloading the whole list.
type Console struct {
	api    API
	feed   *notifications.Feed
	out    io.Writer
	logger *logging.Logger

	bookings []fieldapi.Booking
	fields   []fieldapi.Field
}

// New builds a console writing to out. feed may be nil when realtime is off.
func New(api API, feed *notifications.Feed, out io.Writer, logger *logging.Logger) *Console {
	if logger == nil {
		logger = logging.Default()
	}
	return &Console{api: api, feed: feed, out: out, logger: logger}
}

// Render fetches and draws the given view. Filters apply only to the
// bookings and fields screens; pass zero values elsewhere.
func (c *Console) Render(ctx context.Context, v View, bf BookingFilter, ff FieldFilter) error {
	switch v {
	case ViewDashboard:
		return c.renderDashboard(ctx)
	case ViewBookings:
		return c.renderBookings(ctx, bf)
	case ViewFields:
		return c.renderFields(ctx, ff)
	case ViewRoles:
		return c.renderRoles(ctx)
	case ViewAdmins:
		return c.renderAdmins(ctx)
	case ViewReports:
		return c.renderReports(ctx)
	default:
		return fmt.Errorf("console: no screen for view %d", v)
	}
}

func (c *Console) renderDashboard(ctx context.Context) error {
	stats, err := c.api.Stats(ctx)
	if err != nil {
		return fmt.Errorf("load dashboard: %w", err)
	}
	w := c.table()
	fmt.Fprintln(w, "METRIC\tVALUE")
	fmt.Fprintf(w, "Customers\t%d\n", stats.Users.Customers)
	fmt.Fprintf(w, "Admins\t%d\n", stats.Users.Admins+stats.Users.Superadmins)
	fmt.Fprintf(w, "Fields\t%d\n", stats.TotalFields)
	fmt.Fprintf(w, "Bookings\t%d\n", stats.TotalBookings)
	fmt.Fprintf(w, "Revenue\t%.0f\n", stats.TotalRevenue)
	if err := w.Flush(); err != nil {
		return err
	}
	if c.feed != nil && c.feed.UnreadCount() > 0 {
		fmt.Fprintf(c.out, "\n%d new notification(s)\n", c.feed.UnreadCount())
	}
	return nil
}

func (c *Console) renderBookings(ctx context.Context, f BookingFilter) error {
	bookings, err := c.api.ListBookings(ctx)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	c.bookings = bookings

	w := c.table()
	fmt.Fprintln(w, "ID\tDATE\tTIME\tFIELD\tCUSTOMER\tSTATUS\tPAYMENT\tTOTAL")
	for _, b := range f.Apply(bookings) {
		fmt.Fprintf(w, "%d\t%s\t%s-%s\t%s\t%s\t%s\t%s\t%.0f\n",
			b.ID, b.BookingDate, b.StartTime, b.EndTime,
			fieldName(b), customerName(b), b.Status, b.PaymentStatus, b.TotalPrice)
	}
	return w.Flush()
}

func (c *Console) renderFields(ctx context.Context, f FieldFilter) error {
	fields, err := c.api.ListFields(ctx)
	if err != nil {
		return fmt.Errorf("load fields: %w", err)
	}
	c.fields = fields

	w := c.table()
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tLOCATION\tPRICE/H\tACTIVE")
	for _, fd := range f.Apply(fields) {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.0f\t%t\n",
			fd.ID, fd.Name, fd.FieldType, fd.Location, fd.PricePerHour, fd.IsActive)
	}
	return w.Flush()
}

func (c *Console) renderRoles(ctx context.Context) error {
	roles, err := c.api.ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	w := c.table()
	fmt.Fprintln(w, "ID\tNAME\tDISPLAY\tUSERS\tPERMISSIONS")
	for _, r := range roles {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", r.ID, r.Name, r.DisplayName, r.UserCount, len(r.Permissions))
	}
	return w.Flush()
}

func (c *Console) renderAdmins(ctx context.Context) error {
	admins, err := c.api.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("load admins: %w", err)
	}
	w := c.table()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	for _, a := range admins {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.FullName, a.Email, a.Role)
	}
	return w.Flush()
}

func (c *Console) renderReports(ctx context.Context) error {
	stats, err := c.api.Stats(ctx)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}
	w := c.table()
	fmt.Fprintln(w, "STATUS\tBOOKINGS")
	fmt.Fprintf(w, "pending\t%d\n", stats.BookingsByStatus.Pending)
	fmt.Fprintf(w, "confirmed\t%d\n", stats.BookingsByStatus.Confirmed)
	fmt.Fprintf(w, "completed\t%d\n", stats.BookingsByStatus.Completed)
	fmt.Fprintf(w, "cancelled\t%d\n", stats.BookingsByStatus.Cancelled)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\nTotal revenue: %.0f\n", stats.TotalRevenue)
	return nil
}

// UpdateBookingStatus applies a lifecycle change. On success the cached list
// is patched from the returned booking; on failure the cache is untouched so
// the screen keeps showing the last known good state.
func (c *Console) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	updated, err := c.api.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return err
	}
	c.patchBooking(*updated)
	return nil
}

// UpdatePaymentStatus changes a booking's payment state, patching the cache
// on success only.
func (c *Console) UpdatePaymentStatus(ctx context.Context, id int64, paymentStatus string) error {
	updated, err := c.api.UpdatePaymentStatus(ctx, id, paymentStatus)
	if err != nil {
		return err
	}
	c.patchBooking(*updated)
	return nil
}

// CancelBooking cancels a booking, patching the cache on success only.
func (c *Console) CancelBooking(ctx context.Context, id int64) error {
	updated, err := c.api.CancelBooking(ctx, id)
	if err != nil {
		return err
	}
	c.patchBooking(*updated)
	return nil
}

// CreateField adds a field to the catalog and the cache.
func (c *Console) CreateField(ctx context.Context, in fieldapi.FieldInput) (*fieldapi.Field, error) {
	created, err := c.api.CreateField(ctx, in)
	if err != nil {
		return nil, err
	}
	c.fields = append(c.fields, *created)
	return created, nil
}

// UpdateField changes a field, patching the cache on success only.
func (c *Console) UpdateField(ctx context.Context, id int64, in fieldapi.FieldInput) error {
	updated, err := c.api.UpdateField(ctx, id, in)
	if err != nil {
		return err
	}
	for i, fd := range c.fields {
		if fd.ID == updated.ID {
			c.fields[i] = *updated
			return nil
		}
	}
	c.fields = append(c.fields, *updated)
	return nil
}

// DeleteField removes a field, dropping it from the cache on success only.
func (c *Console) DeleteField(ctx context.Context, id int64) error {
	if err := c.api.DeleteField(ctx, id); err != nil {
		return err
	}
	for i, fd := range c.fields {
		if fd.ID == id {
			c.fields = append(c.fields[:i], c.fields[i+1:]...)
			return nil
		}
	}
	return nil
}

// AddBooking inserts a booking into the cached list, newest first. Used by
// the wizard's success callback and realtime refreshes.
func (c *Console) AddBooking(b fieldapi.Booking) {
	c.bookings = append([]fieldapi.Booking{b}, c.bookings...)
}

// Bookings returns the cached booking list from the last render.
func (c *Console) Bookings() []fieldapi.Booking {
	out := make([]fieldapi.Booking, len(c.bookings))
	copy(out, c.bookings)
	return out
}

// Fields returns the cached field list from the last render.
func (c *Console) Fields() []fieldapi.Field {
	out := make([]fieldapi.Field, len(c.fields))
	copy(out, c.fields)
	return out
}

func (c *Console) patchBooking(updated fieldapi.Booking) {
	for i, b := range c.bookings {
		if b.ID == updated.ID {
			// the list payload carries expansions the single-entity
			// response may omit
			if updated.User == nil {
				updated.User = b.User
			}
			if updated.Field == nil {
				updated.Field = b.Field
			}
			c.bookings[i] = updated
			return
		}
	}
	c.bookings = append([]fieldapi.Booking{updated}, c.bookings...)
}

func (c *Console) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

func fieldName(b fieldapi.Booking) string {
	if b.Field != nil {
		return b.Field.Name
	}
	return fmt.Sprintf("#%d", b.FieldID)
}

func customerName(b fieldapi.Booking) string {
	if b.User != nil {
		return b.User.FullName
	}
	return fmt.Sprintf("#%d", b.UserID)
}
