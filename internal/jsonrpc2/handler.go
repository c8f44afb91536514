package jsonrpc2

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
)

// Method names served by the adapter.
const (
	MethodSendMessage = "message/send"
	MethodSendTask    = "tasks/send"
	MethodAgentCard   = "agent/card"
)

// unsupportedMethods are A2A methods a synchronous agent does not offer.
var unsupportedMethods = map[string]bool{
	"message/stream":             true,
	"tasks/get":                  true,
	"tasks/cancel":               true,
	"tasks/sendSubscribe":        true,
	"tasks/resubscribe":          true,
	"tasks/pushNotification/set": true,
	"tasks/pushNotification/get": true,
}

// A2ARequest is a union type of all possible A2A JSON-RPC requests
type A2ARequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// TaskHandler defines the operations the adapter dispatches to.
type TaskHandler interface {
	SendMessage(ctx context.Context, params *a2a.TaskSendParams) (*a2a.TaskMessage, error)
	SendTask(ctx context.Context, params *a2a.TaskSendParams) (*a2a.Task, error)
	AgentCard(ctx context.Context) (*a2a.AgentCard, error)
}

// Server represents a JSON-RPC 2.0 server for A2A protocol
type Server struct {
	handler TaskHandler
	logger  *zap.Logger
}

// NewServer creates a new A2A JSON-RPC 2.0 server with the given task handler
func NewServer(handler TaskHandler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handler: handler,
		logger:  logger.With(zap.String("component", "jsonrpc")),
	}
}

// IsJSONRPC reports whether body looks like a JSON-RPC request or batch
// rather than a bare message envelope.
func IsJSONRPC(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return true
	}

	var probe struct {
		JSONRPC *string `json:"jsonrpc"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return false
	}
	return probe.JSONRPC != nil
}

// ServeHTTP implements the http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	s.ServeJSON(r.Context(), w, body)
}

// ServeJSON processes an already read request body. JSON-RPC errors are
// still answered with 200 OK.
func (s *Server) ServeJSON(ctx context.Context, w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		s.handleBatchRequest(ctx, w, trimmed)
		return
	}
	s.handleSingleRequest(ctx, w, trimmed)
}

// handleSingleRequest processes a single JSON-RPC request
func (s *Server) handleSingleRequest(ctx context.Context, w http.ResponseWriter, body []byte) {
	var req A2ARequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, createErrorResponse(nil, a2a.NewJSONParseError(err.Error())))
		return
	}

	if req.JSONRPC != a2a.JSONRPCVersion {
		writeJSON(w, createErrorResponse(req.ID, a2a.NewInvalidRequestError("jsonrpc must be '2.0'")))
		return
	}

	if resp := s.processRequest(ctx, req); resp != nil {
		writeJSON(w, resp)
	}
}

// handleBatchRequest processes a batch of JSON-RPC requests
func (s *Server) handleBatchRequest(ctx context.Context, w http.ResponseWriter, body []byte) {
	var requests []A2ARequest
	if err := json.Unmarshal(body, &requests); err != nil {
		writeJSON(w, createErrorResponse(nil, a2a.NewJSONParseError(err.Error())))
		return
	}

	if len(requests) == 0 {
		writeJSON(w, createErrorResponse(nil, a2a.NewInvalidRequestError("Batch request cannot be empty")))
		return
	}

	responses := make([]*a2a.JSONRPCResponse, 0, len(requests))
	for _, req := range requests {
		if req.JSONRPC != a2a.JSONRPCVersion {
			responses = append(responses, createErrorResponse(req.ID, a2a.NewInvalidRequestError("jsonrpc must be '2.0'")))
			continue
		}

		if resp := s.processRequest(ctx, req); resp != nil {
			responses = append(responses, resp)
		}
	}

	// A batch of notifications gets no body at all.
	if len(responses) > 0 {
		writeJSON(w, responses)
	}
}

// processRequest handles a single JSON-RPC request. Notifications (no ID)
// are executed but produce no response.
func (s *Server) processRequest(ctx context.Context, req A2ARequest) *a2a.JSONRPCResponse {
	result, err := s.dispatch(ctx, req)

	if req.ID == nil {
		if err != nil {
			s.logger.Warn("notification failed", zap.String("method", req.Method), zap.Error(err))
		} else {
			s.logger.Debug("notification processed", zap.String("method", req.Method))
		}
		return nil
	}

	if err != nil {
		return createErrorResponse(req.ID, s.toJSONRPCError(req.Method, err))
	}

	return &a2a.JSONRPCResponse{
		JSONRPC: a2a.JSONRPCVersion,
		ID:      req.ID,
		Result:  result,
	}
}

func (s *Server) dispatch(ctx context.Context, req A2ARequest) (any, error) {
	switch req.Method {
	case MethodSendMessage:
		params, err := decodeSendParams(req.Params)
		if err != nil {
			return nil, err
		}
		return s.handler.SendMessage(ctx, params)

	case MethodSendTask:
		params, err := decodeSendParams(req.Params)
		if err != nil {
			return nil, err
		}
		return s.handler.SendTask(ctx, params)

	case MethodAgentCard:
		return s.handler.AgentCard(ctx)

	default:
		if unsupportedMethods[req.Method] {
			return nil, a2a.NewUnsupportedOperationError(req.Method)
		}
		return nil, a2a.NewMethodNotFoundError(req.Method)
	}
}

func decodeSendParams(raw json.RawMessage) (*a2a.TaskSendParams, error) {
	if len(raw) == 0 {
		return nil, a2a.NewInvalidParamsError("params are required")
	}

	var params a2a.TaskSendParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, a2a.NewInvalidParamsError(err.Error())
	}
	if len(params.Message.Parts) == 0 {
		return nil, a2a.NewInvalidParamsError("message must contain at least one part")
	}
	return &params, nil
}

// toJSONRPCError keeps typed protocol errors and hides everything else
// behind a generic internal error.
func (s *Server) toJSONRPCError(method string, err error) *a2a.JSONRPCError {
	var rpcErr *a2a.JSONRPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	s.logger.Error("request failed", zap.String("method", method), zap.Error(err))
	return a2a.NewInternalError(nil)
}

func createErrorResponse(id any, err *a2a.JSONRPCError) *a2a.JSONRPCResponse {
	return &a2a.JSONRPCResponse{
		JSONRPC: a2a.JSONRPCVersion,
		ID:      id,
		Error:   err,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}
