package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// ErrNormalization matches every *NormalizationError via errors.Is
var ErrNormalization = goerr.New("invalid intake attributes")

// NormalizationError reports a recognized attribute whose value could not be
// converted to its canonical type.
type NormalizationError struct {
	Field  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("invalid attribute %q: %s", e.Field, e.Reason)
}

// Is reports true for ErrNormalization
func (e *NormalizationError) Is(target error) bool {
	return target == ErrNormalization
}

// Context keys for error values
const (
	AttributeKey  = "attribute"
	ActualTypeKey = "actual_type"
)
