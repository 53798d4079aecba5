package resources

import (
	"fmt"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
)

// NotInitializedError reports a pool operation issued before Initialize.
type NotInitializedError struct {
	Op    string
	State State
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s: context is %s", e.Op, e.State)
}

func (e *NotInitializedError) Unwrap() error {
	return internalerr.ErrNotInitialized
}

// ResourceAcquisitionError wraps a failure to construct or launch a pooled
// resource.
type ResourceAcquisitionError struct {
	Kind string
	Err  error
}

func (e *ResourceAcquisitionError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.Kind, e.Err)
}

func (e *ResourceAcquisitionError) Unwrap() []error {
	return []error{internalerr.ErrResourceUnavailable, e.Err}
}
