package engine

import (
	"fieldmap/internal/action"
	"fieldmap/internal/diagnostic"
)

func diagnosticFor(err *action.ResolutionError, path string) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Status:      diagnostic.StatusError,
		Code:        "action_unresolved",
		Message:     err.Error(),
		Path:        path,
		Suggestions: err.Suggestions,
	}
}
