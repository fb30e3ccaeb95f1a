package bootstrap

import (
	"errors"
	"fmt"
)

// ErrMissingID is returned when order-based deduction leaves a slot without
// an identity.
var ErrMissingID = errors.New("slot identity could not be deduced")

// WrongLengthError is returned when the deduplicated slot count differs from
// the catalog size.
type WrongLengthError struct {
	Observed int
	Expected int
}

func (e *WrongLengthError) Error() string {
	return fmt.Sprintf("wrong slot count: observed %d, expected %d", e.Observed, e.Expected)
}
