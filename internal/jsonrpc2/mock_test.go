package jsonrpc2

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
)

// MockTaskHandler is a mock implementation of the TaskHandler interface for testing
type MockTaskHandler struct {
	mu          sync.Mutex
	calls       map[string]int
	errToReturn map[string]error
}

// NewMockTaskHandler creates a new instance of MockTaskHandler
func NewMockTaskHandler() *MockTaskHandler {
	return &MockTaskHandler{
		calls:       make(map[string]int),
		errToReturn: make(map[string]error),
	}
}

// SetErrorToReturn configures the mock to fail for a specific method
func (h *MockTaskHandler) SetErrorToReturn(method string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errToReturn[method] = err
}

// Calls returns how often method was dispatched.
func (h *MockTaskHandler) Calls(method string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[method]
}

func (h *MockTaskHandler) record(method string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls[method]++
	return h.errToReturn[method]
}

func (h *MockTaskHandler) reply(params *a2a.TaskSendParams) *a2a.TaskMessage {
	text, _ := a2a.ExtractTextFromParts(params.Message.Parts)
	echo := "Echo: " + text
	return &a2a.TaskMessage{
		Role:      "agent",
		Parts:     []a2a.Part{{Type: "text", Text: &echo}},
		ContextID: params.Message.ContextID,
	}
}

// SendMessage implements TaskHandler.SendMessage
func (h *MockTaskHandler) SendMessage(_ context.Context, params *a2a.TaskSendParams) (*a2a.TaskMessage, error) {
	if err := h.record(MethodSendMessage); err != nil {
		return nil, err
	}
	return h.reply(params), nil
}

// SendTask implements TaskHandler.SendTask
func (h *MockTaskHandler) SendTask(_ context.Context, params *a2a.TaskSendParams) (*a2a.Task, error) {
	if err := h.record(MethodSendTask); err != nil {
		return nil, err
	}
	return &a2a.Task{
		ID:        params.ID,
		SessionID: params.SessionID,
		Status: a2a.TaskStatus{
			State:   a2a.TaskStateCompleted,
			Message: h.reply(params),
		},
	}, nil
}

// AgentCard implements TaskHandler.AgentCard
func (h *MockTaskHandler) AgentCard(_ context.Context) (*a2a.AgentCard, error) {
	if err := h.record(MethodAgentCard); err != nil {
		return nil, err
	}
	return &a2a.AgentCard{Name: "MockAgent", URL: "http://localhost/a2a", Version: "1.0.0"}, nil
}

var errBackend = errors.New("backend exploded")

func stringPtr(s string) *string {
	return &s
}

// makeRequest builds a JSON-RPC request body
func makeRequest(method string, params any, id any) ([]byte, error) {
	req := a2a.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}
	return json.Marshal(req)
}

func textParams(id, text string) a2a.TaskSendParams {
	return a2a.TaskSendParams{
		ID: id,
		Message: a2a.TaskMessage{
			Role:      "user",
			Parts:     []a2a.Part{{Type: "text", Text: stringPtr(text)}},
			ContextID: "ctx-1",
		},
	}
}
