package pipeline

import (
	"fmt"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
)

// UnsatisfiedRequirementError reports a module whose input no earlier module
// provides.
type UnsatisfiedRequirementError struct {
	Module  string
	Missing ResourceKind
}

func (e *UnsatisfiedRequirementError) Error() string {
	return fmt.Sprintf("module %s requires %s, which no earlier module provides", e.Module, e.Missing)
}

func (e *UnsatisfiedRequirementError) Unwrap() error { return internalerr.ErrInvalidConfig }

// DuplicateProviderError reports a second provider of a single-provider kind.
type DuplicateProviderError struct {
	Module string
	Kind   ResourceKind
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("module %s provides %s, which is already provided", e.Module, e.Kind)
}

func (e *DuplicateProviderError) Unwrap() error { return internalerr.ErrInvalidConfig }

// MissingContractError reports a module without a usable Requires/Provides
// declaration.
type MissingContractError struct {
	Module string
	Reason string
}

func (e *MissingContractError) Error() string {
	return fmt.Sprintf("module %s: %s", e.Module, e.Reason)
}

func (e *MissingContractError) Unwrap() error { return internalerr.ErrInvalidConfig }

// UnknownModuleError reports a registry lookup of an unregistered name.
type UnknownModuleError struct {
	Name string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module %q", e.Name)
}

func (e *UnknownModuleError) Unwrap() error { return internalerr.ErrNotFound }
