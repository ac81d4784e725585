package fieldapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minhthien1995/booking-football-cms/internal/observability/metrics"
	"github.com/minhthien1995/booking-football-cms/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// ErrNotAdmin is returned by Login when the account exists but does not hold
// an admin or superadmin role. The console refuses such sessions outright.
var ErrNotAdmin = errors.New("fieldapi: account has no admin access")

// TokenSource supplies the bearer token attached to authenticated calls.
// It is injected explicitly; the client never reads ambient global state.
type TokenSource interface {
	Token() string
}

// Client is the REST client for the field-booking platform API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logging.Logger
	metrics    *metrics.APIMetrics
}

// NewClient constructs a platform API client. tokens may be nil until the
// operator has logged in; metrics may be nil to disable instrumentation.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, m *metrics.APIMetrics, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
		metrics:    m,
	}
}

// SetTokenSource swaps the token source once a session exists.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// Login authenticates the operator and returns the token plus profile.
// Accounts without an admin or superadmin role are rejected client-side,
// mirroring the console's access rule.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	if res.User.Role != "admin" && res.User.Role != "superadmin" {
		return nil, ErrNotAdmin
	}
	return &res, nil
}

// Profile fetches the authenticated operator's profile.
func (c *Client) Profile(ctx context.Context) (*Admin, error) {
	var res Admin
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Stats fetches the dashboard aggregate.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var res Stats
	if err := c.doJSON(ctx, http.MethodGet, "/superadmin/stats", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRoles returns all roles.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var res []Role
	if err := c.doJSON(ctx, http.MethodGet, "/roles", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetRole returns one role with its permissions.
func (c *Client) GetRole(ctx context.Context, id int64) (*Role, error) {
	var res Role
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/roles/%d", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateRole creates a role.
func (c *Client) CreateRole(ctx context.Context, in RoleInput) (*Role, error) {
	var res Role
	if err := c.doJSON(ctx, http.MethodPost, "/roles", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateRole updates a role.
func (c *Client) UpdateRole(ctx context.Context, id int64, in RoleInput) (*Role, error) {
	var res Role
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/roles/%d", id), in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteRole deletes a role.
func (c *Client) DeleteRole(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/roles/%d", id), nil, nil)
}

// AssignRole attaches a role to a user.
func (c *Client) AssignRole(ctx context.Context, userID, roleID int64) error {
	body := map[string]int64{"userId": userID, "roleId": roleID}
	return c.doJSON(ctx, http.MethodPost, "/roles/assign", body, nil)
}

// UnassignRole detaches the user's role.
func (c *Client) UnassignRole(ctx context.Context, userID int64) error {
	body := map[string]int64{"userId": userID}
	return c.doJSON(ctx, http.MethodPost, "/roles/unassign", body, nil)
}

// CloneRole duplicates a role under a new name.
func (c *Client) CloneRole(ctx context.Context, id int64, newName, newDisplayName string) (*Role, error) {
	var res Role
	body := map[string]string{"newName": newName, "newDisplayName": newDisplayName}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/roles/%d/clone", id), body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListPermissions returns every grantable permission.
func (c *Client) ListPermissions(ctx context.Context) ([]Permission, error) {
	var res []Permission
	if err := c.doJSON(ctx, http.MethodGet, "/permissions", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// UserPermissions returns the effective permissions for one user.
func (c *Client) UserPermissions(ctx context.Context, userID int64) ([]Permission, error) {
	var res []Permission
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/permissions/user/%d", userID), nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListAdmins returns all admin accounts.
func (c *Client) ListAdmins(ctx context.Context) ([]Admin, error) {
	var res []Admin
	if err := c.doJSON(ctx, http.MethodGet, "/superadmin/admins", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// CreateAdmin creates an admin account.
func (c *Client) CreateAdmin(ctx context.Context, in AdminInput) (*Admin, error) {
	var res Admin
	if err := c.doJSON(ctx, http.MethodPost, "/superadmin/admins", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateAdmin updates an admin account.
func (c *Client) UpdateAdmin(ctx context.Context, id int64, in AdminInput) (*Admin, error) {
	var res Admin
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/superadmin/admins/%d", id), in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteAdmin deletes an admin account.
func (c *Client) DeleteAdmin(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/superadmin/admins/%d", id), nil, nil)
}

// ListCustomers returns all customer accounts.
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var res []Customer
	if err := c.doJSON(ctx, http.MethodGet, "/superadmin/customers", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// FindOrCreateCustomer resolves a customer account by phone, creating one
// when no account matches. The server guarantees idempotency: resolving the
// same phone twice never creates duplicate accounts.
func (c *Client) FindOrCreateCustomer(ctx context.Context, phone, fullName string) (*CustomerResolution, error) {
	var res CustomerResolution
	body := map[string]string{"phone": phone, "fullName": fullName}
	if err := c.doJSON(ctx, http.MethodPost, "/customers/find-or-create", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListFields returns the field catalog.
func (c *Client) ListFields(ctx context.Context) ([]Field, error) {
	var res []Field
	if err := c.doJSON(ctx, http.MethodGet, "/fields", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetField returns one field.
func (c *Client) GetField(ctx context.Context, id int64) (*Field, error) {
	var res Field
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/fields/%d", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateField creates a field.
func (c *Client) CreateField(ctx context.Context, in FieldInput) (*Field, error) {
	var res Field
	if err := c.doJSON(ctx, http.MethodPost, "/fields", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateField updates a field.
func (c *Client) UpdateField(ctx context.Context, id int64, in FieldInput) (*Field, error) {
	var res Field
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/fields/%d", id), in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteField deletes a field.
func (c *Client) DeleteField(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/fields/%d", id), nil, nil)
}

// ListBookings returns all bookings.
func (c *Client) ListBookings(ctx context.Context) ([]Booking, error) {
	var res []Booking
	if err := c.doJSON(ctx, http.MethodGet, "/bookings", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetBooking returns one booking.
func (c *Client) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	var res Booking
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateBooking submits a booking request. A slot taken by an existing
// booking surfaces as *ConflictError, field-level rejections as
// *ValidationError, anything else as *APIError.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	var res Booking
	if err := c.doJSON(ctx, http.MethodPost, "/bookings", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateBookingStatus moves a booking through its lifecycle.
func (c *Client) UpdateBookingStatus(ctx context.Context, id int64, status string) (*Booking, error) {
	var res Booking
	body := map[string]string{"status": status}
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/status", id), body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdatePaymentStatus changes a booking's payment state.
func (c *Client) UpdatePaymentStatus(ctx context.Context, id int64, paymentStatus string) (*Booking, error) {
	var res Booking
	body := map[string]string{"paymentStatus": paymentStatus}
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/payment", id), body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CancelBooking cancels a booking.
func (c *Client) CancelBooking(ctx context.Context, id int64) (*Booking, error) {
	var res Booking
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(path, "transport_error")
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveRequest(path, "read_error")
		return fmt.Errorf("read response: %w", err)
	}

	c.metrics.ObserveRequest(path, fmt.Sprintf("%d", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if err := json.Unmarshal(respBody, &eb); err != nil {
			msg := string(respBody)
			if len(msg) > 300 {
				msg = msg[:300]
			}
			c.logger.Warn("platform API non-2xx response", "status", resp.StatusCode, "path", path, "body", msg)
			return &APIError{StatusCode: resp.StatusCode, Message: defaultErrorMessage}
		}
		c.logger.Warn("platform API rejected request", "status", resp.StatusCode, "path", path, "message", eb.Message)
		return eb.asTypedError(resp.StatusCode)
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// BaseURL reports the configured platform endpoint, mainly for logging.
func (c *Client) BaseURL() string {
	return c.baseURL
}
