package fieldapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, staticToken("test-token"), nil, nil), srv
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 300,
		"message": "",
		"data":    data,
	})
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode login body: %v", err)
		}
		if body["email"] != "admin@example.com" {
			t.Errorf("email = %q", body["email"])
		}
		writeEnvelope(w, http.StatusOK, LoginResult{
			Token: "jwt-token",
			User:  Admin{ID: 1, FullName: "Admin", Email: "admin@example.com", Role: "admin"},
		})
	})

	res, err := client.Login(context.Background(), "admin@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "jwt-token" {
		t.Errorf("token = %q", res.Token)
	}
	if res.User.Role != "admin" {
		t.Errorf("role = %q", res.User.Role)
	}
}

func TestLoginRejectsNonAdminRole(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, LoginResult{
			Token: "jwt-token",
			User:  Admin{ID: 5, FullName: "Customer", Role: "customer"},
		})
	})

	_, err := client.Login(context.Background(), "user@example.com", "secret")
	if !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotContentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		gotContentType = r.Header.Get("Content-Type")
		writeEnvelope(w, http.StatusOK, CustomerResolution{CustomerID: 1})
	})

	if _, err := client.FindOrCreateCustomer(context.Background(), "0901234567", "Nguyen Van A"); err != nil {
		t.Fatalf("FindOrCreateCustomer: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-Id missing")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
}

func TestFindOrCreateCustomer(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers/find-or-create" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["phone"] != "0901234567" || body["fullName"] != "Nguyen Van A" {
			t.Errorf("body = %v", body)
		}
		writeEnvelope(w, http.StatusCreated, CustomerResolution{CustomerID: 77, IsNewCustomer: true})
	})

	res, err := client.FindOrCreateCustomer(context.Background(), "0901234567", "Nguyen Van A")
	if err != nil {
		t.Fatalf("FindOrCreateCustomer: %v", err)
	}
	if res.CustomerID != 77 || !res.IsNewCustomer {
		t.Errorf("resolution = %+v", res)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{
			"success": false,
			"message": "field is already booked for this time slot",
			"conflict": {
				"bookingDate": "2026-09-01",
				"startTime": "18:00",
				"endTime": "20:00",
				"customerName": "Tran Van B",
				"bookingId": 42
			}
		}`))
	})

	_, err := client.CreateBooking(context.Background(), CreateBookingRequest{FieldID: 7})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *ConflictError, got %v", err)
	}
	if conflict.Conflict.BookingID != 42 {
		t.Errorf("conflicting booking id = %d", conflict.Conflict.BookingID)
	}
	if conflict.Conflict.CustomerName != "Tran Van B" {
		t.Errorf("customer = %q", conflict.Conflict.CustomerName)
	}
	if conflict.Message != "field is already booked for this time slot" {
		t.Errorf("message = %q", conflict.Message)
	}
}

func TestCreateBookingValidationErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{
			"success": false,
			"message": "validation failed",
			"errors": [
				{"message": "bookingDate is required"},
				{"message": "endTime must be after startTime"}
			]
		}`))
	})

	_, err := client.CreateBooking(context.Background(), CreateBookingRequest{})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if got := validation.Combined(); got != "bookingDate is required; endTime must be after startTime" {
		t.Errorf("Combined() = %q", got)
	}
}

func TestGenericAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "message": "database unavailable"}`))
	})

	_, err := client.ListBookings(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "database unavailable" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream timeout</html>"))
	})

	_, err := client.ListFields(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != defaultErrorMessage {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestEmptyErrorMessageGetsDefault(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success": false}`))
	})

	_, err := client.Stats(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != defaultErrorMessage {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestEnvelopeDecoding(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []Field{
			{ID: 1, Name: "San A", FieldType: "5vs5", PricePerHour: 300000, IsActive: true},
			{ID: 2, Name: "San B", FieldType: "7vs7", PricePerHour: 500000, IsActive: false},
		})
	})

	fields, err := client.ListFields(context.Background())
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("got %d fields", len(fields))
	}
	if fields[0].PricePerHour != 300000 {
		t.Errorf("price = %v", fields[0].PricePerHour)
	}
	if fields[1].FieldType != "7vs7" {
		t.Errorf("type = %q", fields[1].FieldType)
	}
}

func TestDeleteWithEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/roles/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteRole(context.Background(), 3); err != nil {
		t.Fatalf("DeleteRole: %v", err)
	}
}

func TestBookingStatusUpdate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/bookings/9/status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "confirmed" {
			t.Errorf("status = %q", body["status"])
		}
		writeEnvelope(w, http.StatusOK, Booking{ID: 9, Status: "confirmed"})
	})

	b, err := client.UpdateBookingStatus(context.Background(), 9, "confirmed")
	if err != nil {
		t.Fatalf("UpdateBookingStatus: %v", err)
	}
	if b.Status != "confirmed" {
		t.Errorf("status = %q", b.Status)
	}
}

func TestTransportErrorWrapped(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, nil, nil, nil)
	_, err := client.ListBookings(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failures must not look like API errors: %v", err)
	}
}
