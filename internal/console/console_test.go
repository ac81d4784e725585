package console

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhthien1995/booking-football-cms/internal/fieldapi"
)

type fakeAPI struct {
	stats    fieldapi.Stats
	bookings []fieldapi.Booking
	fields   []fieldapi.Field
	roles    []fieldapi.Role
	admins   []fieldapi.Admin

	statusResult  *fieldapi.Booking
	statusErr     error
	paymentResult *fieldapi.Booking
	cancelResult  *fieldapi.Booking
}

func (f *fakeAPI) Stats(ctx context.Context) (*fieldapi.Stats, error) { return &f.stats, nil }
func (f *fakeAPI) ListBookings(ctx context.Context) ([]fieldapi.Booking, error) {
	return f.bookings, nil
}
func (f *fakeAPI) ListFields(ctx context.Context) ([]fieldapi.Field, error) { return f.fields, nil }
func (f *fakeAPI) ListRoles(ctx context.Context) ([]fieldapi.Role, error)   { return f.roles, nil }
func (f *fakeAPI) ListAdmins(ctx context.Context) ([]fieldapi.Admin, error) { return f.admins, nil }
func (f *fakeAPI) UpdateBookingStatus(ctx context.Context, id int64, status string) (*fieldapi.Booking, error) {
	return f.statusResult, f.statusErr
}
func (f *fakeAPI) UpdatePaymentStatus(ctx context.Context, id int64, paymentStatus string) (*fieldapi.Booking, error) {
	return f.paymentResult, nil
}
func (f *fakeAPI) CancelBooking(ctx context.Context, id int64) (*fieldapi.Booking, error) {
	return f.cancelResult, nil
}
func (f *fakeAPI) CreateField(ctx context.Context, in fieldapi.FieldInput) (*fieldapi.Field, error) {
	return &fieldapi.Field{ID: 99}, nil
}
func (f *fakeAPI) UpdateField(ctx context.Context, id int64, in fieldapi.FieldInput) (*fieldapi.Field, error) {
	return &fieldapi.Field{ID: id}, nil
}
func (f *fakeAPI) DeleteField(ctx context.Context, id int64) error { return nil }

func sampleBookings() []fieldapi.Booking {
	return []fieldapi.Booking{
		{
			ID: 1, BookingDate: "2026-09-01", StartTime: "18:00", EndTime: "20:00",
			Status: "confirmed", PaymentStatus: "paid", TotalPrice: 600000,
			User:  &fieldapi.Customer{FullName: "Nguyen Van A", Email: "a@example.com"},
			Field: &fieldapi.Field{Name: "San A"},
		},
		{
			ID: 2, BookingDate: "2026-09-02", StartTime: "08:00", EndTime: "09:00",
			Status: "pending", PaymentStatus: "unpaid", TotalPrice: 300000,
			User:  &fieldapi.Customer{FullName: "Tran Van B", Email: "b@example.com"},
			Field: &fieldapi.Field{Name: "San B"},
		},
		{
			ID: 3, BookingDate: "2026-09-03", StartTime: "19:00", EndTime: "21:00",
			Status: "pending", PaymentStatus: "paid", TotalPrice: 1000000,
			User:  &fieldapi.Customer{FullName: "Le Thi C", Email: "c@example.com"},
			Field: &fieldapi.Field{Name: "San A"},
		},
	}
}

func TestParseView(t *testing.T) {
	for _, v := range AllViews() {
		got, err := ParseView(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	got, err := ParseView("  Bookings ")
	require.NoError(t, err)
	assert.Equal(t, ViewBookings, got)

	_, err = ParseView("inventory")
	require.Error(t, err)
}

func TestBookingFilter(t *testing.T) {
	bookings := sampleBookings()

	tests := []struct {
		name    string
		filter  BookingFilter
		wantIDs []int64
	}{
		{"no criteria", BookingFilter{}, []int64{1, 2, 3}},
		{"by status", BookingFilter{Status: "pending"}, []int64{2, 3}},
		{"by payment", BookingFilter{PaymentStatus: "paid"}, []int64{1, 3}},
		{"status and payment", BookingFilter{Status: "pending", PaymentStatus: "paid"}, []int64{3}},
		{"search customer", BookingFilter{Search: "tran"}, []int64{2}},
		{"search email", BookingFilter{Search: "c@example"}, []int64{3}},
		{"search field", BookingFilter{Search: "san a"}, []int64{1, 3}},
		{"search no match", BookingFilter{Search: "zzz"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(bookings)
			ids := make([]int64, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFieldFilter(t *testing.T) {
	fields := []fieldapi.Field{
		{ID: 1, Name: "San A", FieldType: "5vs5", Location: "District 1", IsActive: true},
		{ID: 2, Name: "San B", FieldType: "7vs7", Location: "District 3", IsActive: false},
		{ID: 3, Name: "Stadium C", FieldType: "11vs11", Location: "District 1", IsActive: true},
	}

	got := FieldFilter{ActiveOnly: true}.Apply(fields)
	require.Len(t, got, 2)

	got = FieldFilter{FieldType: "7vs7"}.Apply(fields)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got = FieldFilter{Search: "district 1"}.Apply(fields)
	require.Len(t, got, 2)

	got = FieldFilter{Search: "stadium", ActiveOnly: true}.Apply(fields)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestRenderBookingsTable(t *testing.T) {
	api := &fakeAPI{bookings: sampleBookings()}
	var buf bytes.Buffer
	c := New(api, nil, &buf, nil)

	require.NoError(t, c.Render(context.Background(), ViewBookings, BookingFilter{Status: "pending"}, FieldFilter{}))
	out := buf.String()
	assert.Contains(t, out, "Tran Van B")
	assert.Contains(t, out, "Le Thi C")
	assert.NotContains(t, out, "Nguyen Van A")

	// the cache keeps the full fetched list, not the filtered view
	assert.Len(t, c.Bookings(), 3)
}

func TestRenderDashboard(t *testing.T) {
	api := &fakeAPI{stats: fieldapi.Stats{
		Users:         fieldapi.UserStats{Customers: 120, Admins: 3, Superadmins: 1},
		TotalFields:   8,
		TotalBookings: 450,
		TotalRevenue:  250000000,
	}}
	var buf bytes.Buffer
	c := New(api, nil, &buf, nil)

	require.NoError(t, c.Render(context.Background(), ViewDashboard, BookingFilter{}, FieldFilter{}))
	out := buf.String()
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "450")
	assert.Contains(t, out, "250000000")
}

func TestStatusUpdatePatchesCacheOnSuccess(t *testing.T) {
	api := &fakeAPI{
		bookings:     sampleBookings(),
		statusResult: &fieldapi.Booking{ID: 2, Status: "confirmed", PaymentStatus: "unpaid"},
	}
	var buf bytes.Buffer
	c := New(api, nil, &buf, nil)
	require.NoError(t, c.Render(context.Background(), ViewBookings, BookingFilter{}, FieldFilter{}))

	require.NoError(t, c.UpdateBookingStatus(context.Background(), 2, "confirmed"))

	var patched *fieldapi.Booking
	for _, b := range c.Bookings() {
		if b.ID == 2 {
			b := b
			patched = &b
		}
	}
	require.NotNil(t, patched)
	assert.Equal(t, "confirmed", patched.Status)
	// expansions from the list payload survive the patch
	require.NotNil(t, patched.User)
	assert.Equal(t, "Tran Van B", patched.User.FullName)
}

func TestStatusUpdateKeepsCacheOnFailure(t *testing.T) {
	api := &fakeAPI{
		bookings:  sampleBookings(),
		statusErr: errors.New("boom"),
	}
	var buf bytes.Buffer
	c := New(api, nil, &buf, nil)
	require.NoError(t, c.Render(context.Background(), ViewBookings, BookingFilter{}, FieldFilter{}))

	err := c.UpdateBookingStatus(context.Background(), 2, "confirmed")
	require.Error(t, err)

	for _, b := range c.Bookings() {
		if b.ID == 2 {
			assert.Equal(t, "pending", b.Status, "failed mutation must not touch the cache")
		}
	}
}

func TestFieldCRUDPatchesCache(t *testing.T) {
	api := &fakeAPI{fields: []fieldapi.Field{
		{ID: 1, Name: "San A", IsActive: true},
		{ID: 2, Name: "San B", IsActive: true},
	}}
	var buf bytes.Buffer
	c := New(api, nil, &buf, nil)
	require.NoError(t, c.Render(context.Background(), ViewFields, BookingFilter{}, FieldFilter{}))

	created, err := c.CreateField(context.Background(), fieldapi.FieldInput{Name: "San C"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)
	assert.Len(t, c.Fields(), 3)

	require.NoError(t, c.DeleteField(context.Background(), 1))
	got := c.Fields()
	require.Len(t, got, 2)
	for _, fd := range got {
		assert.NotEqual(t, int64(1), fd.ID)
	}
}

func TestAddBookingPrepends(t *testing.T) {
	api := &fakeAPI{bookings: sampleBookings()}
	var buf bytes.Buffer
	c := New(api, nil, &buf, nil)
	require.NoError(t, c.Render(context.Background(), ViewBookings, BookingFilter{}, FieldFilter{}))

	c.AddBooking(fieldapi.Booking{ID: 42})
	got := c.Bookings()
	require.Len(t, got, 4)
	assert.Equal(t, int64(42), got[0].ID)
}
