// Package fieldapi contains the typed client for the remote field-booking
// platform API. The server is the sole system of record: conflict detection,
// pricing enforcement and authorization all happen on its side, and this
// package only shapes requests and interprets responses.
package fieldapi

import "encoding/json"

// Admin is the authenticated console operator.
type Admin struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginResult carries the bearer token and operator profile returned by login.
type LoginResult struct {
	Token string `json:"token"`
	User  Admin  `json:"user"`
}

// Customer is a platform customer account.
type Customer struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone"`
}

// CustomerResolution is the outcome of find-or-create by phone.
type CustomerResolution struct {
	CustomerID    int64 `json:"customerId"`
	IsNewCustomer bool  `json:"isNewCustomer"`
}

// Field is a bookable pitch with an hourly rate.
type Field struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	FieldType    string  `json:"fieldType"`
	Location     string  `json:"location"`
	PricePerHour float64 `json:"pricePerHour"`
	IsActive     bool    `json:"isActive"`
}

// FieldInput is the create/update payload for a field.
type FieldInput struct {
	Name         string  `json:"name"`
	FieldType    string  `json:"fieldType"`
	Location     string  `json:"location"`
	PricePerHour float64 `json:"pricePerHour"`
	IsActive     bool    `json:"isActive"`
}

// Booking is a reserved time range on a field.
type Booking struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	FieldID       int64     `json:"fieldId"`
	BookingDate   string    `json:"bookingDate"` // YYYY-MM-DD
	StartTime     string    `json:"startTime"`   // HH:MM
	EndTime       string    `json:"endTime"`     // HH:MM
	Duration      float64   `json:"duration"`    // hours
	TotalPrice    float64   `json:"totalPrice"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`        // pending, confirmed, completed, cancelled
	PaymentStatus string    `json:"paymentStatus"` // unpaid, paid, refunded
	User          *Customer `json:"user,omitempty"`
	Field         *Field    `json:"field,omitempty"`
}

// CreateBookingRequest is the payload for POST /bookings.
type CreateBookingRequest struct {
	UserID      int64   `json:"userId"`
	FieldID     int64   `json:"fieldId"`
	BookingDate string  `json:"bookingDate"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Duration    float64 `json:"duration"`
	TotalPrice  float64 `json:"totalPrice"`
	Notes       string  `json:"notes,omitempty"`
}

// Role is a named permission bundle.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
	UserCount   int64        `json:"userCount,omitempty"`
}

// RoleInput is the create/update payload for a role.
type RoleInput struct {
	Name          string  `json:"name"`
	DisplayName   string  `json:"displayName"`
	Description   string  `json:"description,omitempty"`
	PermissionIDs []int64 `json:"permissionIds,omitempty"`
}

// Permission is a single grantable capability.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AdminInput is the create/update payload for an admin user.
type AdminInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// UserStats breaks platform accounts down by role.
type UserStats struct {
	Total       int64 `json:"total"`
	Superadmins int64 `json:"superadmins"`
	Admins      int64 `json:"admins"`
	Customers   int64 `json:"customers"`
}

// BookingStatusStats counts bookings per lifecycle status.
type BookingStatusStats struct {
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

// Stats is the dashboard aggregate from GET /superadmin/stats.
type Stats struct {
	Users            UserStats          `json:"users"`
	TotalFields      int64              `json:"totalFields"`
	TotalBookings    int64              `json:"totalBookings"`
	TotalRevenue     float64            `json:"totalRevenue"`
	BookingsByStatus BookingStatusStats `json:"bookingsByStatus"`
}

// envelope is the platform's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}
