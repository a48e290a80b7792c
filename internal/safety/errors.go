package safety

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error codes surfaced to the model in tool results.
const (
	CodeOutsideSandbox  = "ERR_PATH_OUTSIDE_SANDBOX"
	CodeDeniedRead      = "ERR_DENIED_READ"
	CodeNotADir         = "ERR_NOT_A_DIR"
	CodeInvalidArgument = "ERR_INVALID_ARGUMENT"
	CodeNoContext       = "ERR_NO_CONTEXT"
)

// ToolError is a machine-readable error body for surfacing back to the agent as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool_result payloads small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Errorf builds a ToolError with a formatted message.
func Errorf(code, format string, args ...any) ToolError {
	return ToolError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the ToolError code carried by err, or "".
func CodeOf(err error) string {
	var te ToolError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
