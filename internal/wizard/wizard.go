// Package wizard implements the three-stage booking creation flow: time
// selection, customer identification, then review and submit. All stage
// transitions are pure local state; the only side effects happen in Submit,
// which resolves the customer and creates the booking through the platform
// API in sequence.
package wizard

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/minhthien1995/booking-football-cms/internal/fieldapi"
	"github.com/minhthien1995/booking-football-cms/internal/observability/metrics"
	"github.com/minhthien1995/booking-football-cms/pkg/logging"
)

var wizardTracer = otel.Tracer("fieldcms.internal.wizard")

// Stage is the wizard's position in the flow. Stages are ordered and
// navigable forward only through Advance's validation gates.
type Stage int

const (
	StageTimeSelection Stage = iota
	StageCustomerInfo
	StageReview
	StageClosed
)

func (s Stage) String() string {
	switch s {
	case StageTimeSelection:
		return "time_selection"
	case StageCustomerInfo:
		return "customer_info"
	case StageReview:
		return "review"
	case StageClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Validation and flow errors. All of them are recoverable: the operator
// fixes the input or waits, nothing aborts the console.
var (
	ErrIncompleteInput = errors.New("wizard: date, start time and end time are required")
	ErrInvalidRange    = errors.New("wizard: end time must be after start time")
	ErrMissingContact  = errors.New("wizard: customer phone and name are required")
	ErrInvalidPhone    = errors.New("wizard: phone must be a leading zero followed by nine digits")
	ErrClosed          = errors.New("wizard: closed")
	ErrNotAtReview     = errors.New("wizard: submit is only available at the review stage")
	ErrAtFirstStage    = errors.New("wizard: already at the first stage")
	ErrAtLastStage     = errors.New("wizard: review is the last stage, submit or go back")
	ErrSubmitInFlight  = errors.New("wizard: a submission is already in flight")
)

// BookingGateway is the slice of the platform API the wizard needs.
// *fieldapi.Client satisfies it.
type BookingGateway interface {
	FindOrCreateCustomer(ctx context.Context, phone, fullName string) (*fieldapi.CustomerResolution, error)
	CreateBooking(ctx context.Context, req fieldapi.CreateBookingRequest) (*fieldapi.Booking, error)
}

// Wizard drives one booking creation for one field. It is created when the
// operator opens the flow and discarded on cancel or success.
type Wizard struct {
	id        string
	field     fieldapi.Field
	gateway   BookingGateway
	onSuccess func(fieldapi.Booking)
	logger    *logging.Logger
	metrics   *metrics.WizardMetrics

	mu       sync.Mutex
	stage    Stage
	draft    Draft
	inFlight bool
}

// New opens a wizard for the given field with an empty draft. onSuccess is
// invoked after a successful submission so the parent view can refresh its
// booking list; it may be nil.
func New(field fieldapi.Field, gateway BookingGateway, onSuccess func(fieldapi.Booking), m *metrics.WizardMetrics, logger *logging.Logger) *Wizard {
	if logger == nil {
		logger = logging.Default()
	}
	return &Wizard{
		id:        uuid.NewString(),
		field:     field,
		gateway:   gateway,
		onSuccess: onSuccess,
		logger:    logger,
		metrics:   m,
		stage:     StageTimeSelection,
	}
}

// ID identifies this wizard instance in logs.
func (w *Wizard) ID() string { return w.id }

// Field returns the field this wizard books.
func (w *Wizard) Field() fieldapi.Field { return w.field }

// Stage returns the current stage.
func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// SetSchedule records date and time range and rederives duration and total
// price. Only available at the time-selection stage.
func (w *Wizard) SetSchedule(bookingDate, startTime, endTime string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageClosed {
		return ErrClosed
	}
	if w.stage != StageTimeSelection {
		return &StageError{Want: StageTimeSelection, Got: w.stage}
	}
	w.draft.BookingDate = bookingDate
	w.draft.StartTime = startTime
	w.draft.EndTime = endTime
	w.draft.recalc(w.field.PricePerHour)
	return nil
}

// SetCustomer records the customer contact. Only available at the
// customer-info stage.
func (w *Wizard) SetCustomer(phone, fullName string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageClosed {
		return ErrClosed
	}
	if w.stage != StageCustomerInfo {
		return &StageError{Want: StageCustomerInfo, Got: w.stage}
	}
	w.draft.CustomerPhone = phone
	w.draft.CustomerName = fullName
	return nil
}

// SetNotes records optional notes. Only available at the review stage.
func (w *Wizard) SetNotes(notes string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageClosed {
		return ErrClosed
	}
	if w.stage != StageReview {
		return &StageError{Want: StageReview, Got: w.stage}
	}
	w.draft.Notes = notes
	return nil
}

// StageError reports input arriving at the wrong stage.
type StageError struct {
	Want, Got Stage
}

func (e *StageError) Error() string {
	return "wizard: input for stage " + e.Want.String() + " while at " + e.Got.String()
}

// Advance moves to the next stage after the current stage's validation gate
// passes. No gate, no progress; stages cannot be skipped.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.stage {
	case StageTimeSelection:
		if w.draft.BookingDate == "" || w.draft.StartTime == "" || w.draft.EndTime == "" {
			return ErrIncompleteInput
		}
		if w.draft.Duration <= 0 {
			return ErrInvalidRange
		}
		w.stage = StageCustomerInfo
		return nil
	case StageCustomerInfo:
		if normalizePhone(w.draft.CustomerPhone) == "" || w.draft.CustomerName == "" {
			return ErrMissingContact
		}
		if !validPhone(w.draft.CustomerPhone) {
			return ErrInvalidPhone
		}
		w.stage = StageReview
		return nil
	case StageReview:
		return ErrAtLastStage
	default:
		return ErrClosed
	}
}

// Back returns to the previous stage. Input already entered is kept.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.stage {
	case StageTimeSelection:
		return ErrAtFirstStage
	case StageCustomerInfo:
		w.stage = StageTimeSelection
		return nil
	case StageReview:
		w.stage = StageCustomerInfo
		return nil
	default:
		return ErrClosed
	}
}

// Cancel closes the wizard and discards the draft. A submission already in
// flight is not aborted; its late result is discarded when it lands.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stage = StageClosed
}

// Submit runs the two-call orchestration: resolve-or-create the customer,
// then create the booking. The calls are sequential, never concurrent, and
// a second submit is rejected while one is outstanding. Non-success results
// are reported through the Outcome, not the error; the error is reserved
// for misuse (wrong stage, closed, already in flight).
func (w *Wizard) Submit(ctx context.Context) (Outcome, error) {
	w.mu.Lock()
	if w.stage == StageClosed {
		w.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if w.stage != StageReview {
		w.mu.Unlock()
		return Outcome{}, ErrNotAtReview
	}
	if w.inFlight {
		w.mu.Unlock()
		return Outcome{}, ErrSubmitInFlight
	}
	w.inFlight = true
	draft := w.draft
	field := w.field
	w.mu.Unlock()

	outcome := w.submit(ctx, draft, field)

	w.mu.Lock()
	w.inFlight = false
	if w.stage == StageClosed {
		// The operator cancelled while the request pair was outstanding.
		// The late result is discarded.
		w.mu.Unlock()
		w.logger.Info("discarding submission result for closed wizard", "wizard_id", w.id, "outcome", outcome.Kind.String())
		return Outcome{}, ErrClosed
	}
	if outcome.Kind == OutcomeSuccess {
		w.stage = StageClosed
	}
	w.mu.Unlock()

	w.metrics.ObserveSubmission(outcome.Kind.String())
	if outcome.Kind == OutcomeSuccess && w.onSuccess != nil {
		w.onSuccess(fieldapi.Booking{
			ID:          outcome.BookingID,
			FieldID:     field.ID,
			BookingDate: draft.BookingDate,
			StartTime:   draft.StartTime,
			EndTime:     draft.EndTime,
			Duration:    draft.Duration,
			TotalPrice:  draft.TotalPrice,
			Notes:       draft.Notes,
		})
	}
	return outcome, nil
}

func (w *Wizard) submit(ctx context.Context, draft Draft, field fieldapi.Field) Outcome {
	ctx, span := wizardTracer.Start(ctx, "wizard.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("fieldcms.wizard_id", w.id),
		attribute.Int64("fieldcms.field_id", field.ID),
	)

	phone := normalizePhone(draft.CustomerPhone)

	resolution, err := w.gateway.FindOrCreateCustomer(ctx, phone, draft.CustomerName)
	if err != nil {
		// No booking call is attempted when customer resolution fails.
		span.RecordError(err)
		w.logger.Warn("customer resolution failed", "wizard_id", w.id, "error", err)
		return Outcome{Kind: OutcomeGenericFailure, Message: failureMessage(err)}
	}

	booking, err := w.gateway.CreateBooking(ctx, fieldapi.CreateBookingRequest{
		UserID:      resolution.CustomerID,
		FieldID:     field.ID,
		BookingDate: draft.BookingDate,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		Duration:    draft.Duration,
		TotalPrice:  draft.TotalPrice,
		Notes:       draft.Notes,
	})
	if err != nil {
		span.RecordError(err)

		var conflict *fieldapi.ConflictError
		if errors.As(err, &conflict) {
			// Surfaced verbatim; the server's overlap check is authoritative
			// and the wizard never retries or auto-resolves.
			w.logger.Info("booking conflict reported", "wizard_id", w.id, "conflicting_booking_id", conflict.Conflict.BookingID)
			detail := conflict.Conflict
			return Outcome{Kind: OutcomeConflict, Conflict: &detail, Message: conflict.Message}
		}

		var validation *fieldapi.ValidationError
		if errors.As(err, &validation) {
			return Outcome{Kind: OutcomeValidationErrors, Message: validation.Combined()}
		}

		w.logger.Warn("booking creation failed", "wizard_id", w.id, "error", err)
		return Outcome{Kind: OutcomeGenericFailure, Message: failureMessage(err)}
	}

	w.logger.Info("booking created", "wizard_id", w.id, "booking_id", booking.ID, "new_customer", resolution.IsNewCustomer)
	return Outcome{Kind: OutcomeSuccess, BookingID: booking.ID, IsNewCustomer: resolution.IsNewCustomer}
}

// failureMessage prefers the server-provided message, with a default when
// the failure never reached the server or carried no message.
func failureMessage(err error) string {
	var apiErr *fieldapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "booking service unavailable, please try again"
}
