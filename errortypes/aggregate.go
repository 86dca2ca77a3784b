package errortypes

import (
	"fmt"
	"strings"
)

// AggregateErrors collects the problems found while validating configuration or building the
// configured networks, so startup reports all of them at once instead of the first one.
type AggregateErrors struct {
	Message string
	Errors  []error
}

func NewAggregateErrors(msg string, errs []error) AggregateErrors {
	return AggregateErrors{
		Message: msg,
		Errors:  errs,
	}
}

// Error lists every collected error on its own numbered line. It is empty when nothing was
// collected.
func (e AggregateErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s (1 error):\n  1: %v\n", e.Message, e.Errors[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d errors):\n", e.Message, len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d: %v\n", i+1, err)
	}
	return b.String()
}

// Unwrap exposes the collected errors to errors.Is, errors.As and ReadCode.
func (e AggregateErrors) Unwrap() []error {
	return e.Errors
}
