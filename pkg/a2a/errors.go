package a2a

import "fmt"

// Standard JSON-RPC and A2A error codes.
const (
	CodeParseError           = -32700
	CodeInvalidRequest       = -32600
	CodeMethodNotFound       = -32601
	CodeInvalidParams        = -32602
	CodeInternalError        = -32603
	CodeUnsupportedOperation = -32004
)

// JSONRPCError represents a standard JSON-RPC error object.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface for JSONRPCError
func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// NewJSONParseError reports an unparsable payload.
func NewJSONParseError(data any) *JSONRPCError {
	return &JSONRPCError{Code: CodeParseError, Message: "Invalid JSON payload", Data: data}
}

// NewInvalidRequestError reports a request that is not valid JSON-RPC.
func NewInvalidRequestError(data any) *JSONRPCError {
	return &JSONRPCError{Code: CodeInvalidRequest, Message: "Request payload validation error", Data: data}
}

// NewMethodNotFoundError reports an unknown method.
func NewMethodNotFoundError(method string) *JSONRPCError {
	return &JSONRPCError{Code: CodeMethodNotFound, Message: "Method not found", Data: method}
}

// NewInvalidParamsError reports params that do not match the method.
func NewInvalidParamsError(data any) *JSONRPCError {
	return &JSONRPCError{Code: CodeInvalidParams, Message: "Invalid parameters", Data: data}
}

// NewInternalError reports an unexpected server failure.
func NewInternalError(data any) *JSONRPCError {
	return &JSONRPCError{Code: CodeInternalError, Message: "Internal error", Data: data}
}

// NewUnsupportedOperationError reports a method the agent does not offer.
func NewUnsupportedOperationError(method string) *JSONRPCError {
	return &JSONRPCError{Code: CodeUnsupportedOperation, Message: "This operation is not supported", Data: method}
}

// HTTPError is returned by the client when the server answers with a
// non-200 status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}
