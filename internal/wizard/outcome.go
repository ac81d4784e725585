package wizard

import (
	"fmt"

	"github.com/minhthien1995/booking-football-cms/internal/fieldapi"
)

// OutcomeKind tags the result of a wizard submission.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeConflict
	OutcomeValidationErrors
	OutcomeGenericFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeConflict:
		return "conflict"
	case OutcomeValidationErrors:
		return "validation_errors"
	case OutcomeGenericFailure:
		return "generic_failure"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of Submit. Exactly the fields matching Kind
// are populated; every non-success outcome leaves the wizard open at the
// review stage so the operator can adjust and resubmit.
type Outcome struct {
	Kind OutcomeKind

	// Success
	BookingID     int64
	IsNewCustomer bool

	// Conflict
	Conflict *fieldapi.ConflictDetail

	// ValidationErrors and GenericFailure
	Message string
}

// ConfirmationMessage is the operator-facing line for a successful booking,
// phrased differently when the customer account was just created.
func (o Outcome) ConfirmationMessage() string {
	if o.Kind != OutcomeSuccess {
		return ""
	}
	if o.IsNewCustomer {
		return fmt.Sprintf("Booking #%d confirmed. A new customer account was created for this phone number.", o.BookingID)
	}
	return fmt.Sprintf("Booking #%d confirmed for the existing customer account.", o.BookingID)
}

// ConflictMessage describes the blocking booking for the operator.
func (o Outcome) ConflictMessage() string {
	if o.Kind != OutcomeConflict || o.Conflict == nil {
		return ""
	}
	c := o.Conflict
	return fmt.Sprintf("Slot already taken by booking #%d: %s %s-%s (%s). Pick a different time.",
		c.BookingID, c.BookingDate, c.StartTime, c.EndTime, c.CustomerName)
}
