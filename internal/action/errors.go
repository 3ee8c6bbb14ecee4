package action

import (
	"fmt"
	"strings"

	"fieldmap/internal/convert"
)

// ResolutionError is returned when no action is registered under a name.
type ResolutionError struct {
	Name        string
	Hint        convert.FieldType
	Suggestions []string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("action %q is not registered", e.Name)
	if len(e.Suggestions) > 0 {
		msg += ", did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}

	return msg
}

// InvocationError wraps a failure while coercing parameters or values for,
// or running, an action.
type InvocationError struct {
	Name string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("action %q failed: %v", e.Name, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
