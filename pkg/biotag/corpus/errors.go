package corpus

import (
	"fmt"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
)

// InvalidSpanError reports an annotation that cannot be placed in a tree.
type InvalidSpanError struct {
	Start  int
	End    int
	Reason string
}

func (e *InvalidSpanError) Error() string {
	return fmt.Sprintf("invalid span (%d,%d): %s", e.Start, e.End, e.Reason)
}

func (e *InvalidSpanError) Unwrap() error {
	return internalerr.ErrInvalidInput
}
