package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// Resolution failures. All are recoverable: the caller asks the
	// user for a corrected selection.
	ErrIncompleteSelection = errors.New("incomplete selection")
	ErrUnknownOptionValue  = errors.New("unknown option value")
	ErrNoMatchingVariant   = errors.New("no matching variant")

	// Availability failures. Recoverable by flagging the line.
	ErrOutOfStock   = errors.New("out of stock")
	ErrDiscontinued = errors.New("discontinued")

	// ErrNoRegionMatched means no custom shipping region covers the
	// destination at the cart's weight. Not fatal; the caller surfaces
	// "shipping unavailable" rather than charging zero.
	ErrNoRegionMatched = errors.New("no shipping region matched")
)

// ValidationError rejects caller-supplied input before any state
// changes. Handlers map it to a client error regardless of the message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError.
func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// ResolutionError carries the product and offending option value so the
// caller can render a specific message.
type ResolutionError struct {
	ProductID     string
	OptionCode    string
	OptionValueID string
	Err           error
}

func (e *ResolutionError) Error() string {
	switch {
	case e.OptionValueID != "":
		return fmt.Sprintf("product %s: %v: option value %s", e.ProductID, e.Err, e.OptionValueID)
	case e.OptionCode != "":
		return fmt.Sprintf("product %s: %v: option %s", e.ProductID, e.Err, e.OptionCode)
	default:
		return fmt.Sprintf("product %s: %v", e.ProductID, e.Err)
	}
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// AvailabilityError identifies the unit that cannot be purchased.
type AvailabilityError struct {
	UnitID string
	SKU    string
	Err    error
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("unit %s (sku %s): %v", e.UnitID, e.SKU, e.Err)
}

func (e *AvailabilityError) Unwrap() error { return e.Err }
