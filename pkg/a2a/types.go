package a2a

import (
	"encoding/json"
	"fmt"
	"time"
)

// Part represents a component of a TaskMessage.
// It's a union type (text, file, data) discriminated by Type.
type Part struct {
	Type     string         `json:"type"` // "text", "file", or "data"
	Text     *string        `json:"text,omitempty"`
	File     map[string]any `json:"file,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// UnmarshalJSON implements custom unmarshaling for Part to ensure data consistency
func (p *Part) UnmarshalJSON(data []byte) error {
	type PartAlias Part
	var temp PartAlias
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	switch temp.Type {
	case "text":
		if temp.Text == nil {
			return fmt.Errorf("text part missing 'text' field")
		}
	case "file":
		if temp.File == nil {
			return fmt.Errorf("file part missing 'file' field")
		}
	case "data":
		if temp.Data == nil {
			return fmt.Errorf("data part missing 'data' field")
		}
	default:
		return fmt.Errorf("unknown part type: %s", temp.Type)
	}

	*p = Part(temp)
	return nil
}

// TaskMessage is the parts-based message shape used by the JSON-RPC methods.
type TaskMessage struct {
	Role      string         `json:"role"` // "user" or "agent"
	Parts     []Part         `json:"parts"`
	MessageID string         `json:"messageId,omitempty"`
	ContextID string         `json:"contextId,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TaskSendParams provides parameters for tasks/send and message/send.
type TaskSendParams struct {
	ID        string         `json:"id,omitempty"`
	SessionID string         `json:"sessionId,omitempty"`
	Message   TaskMessage    `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TaskState represents the possible states of a task.
type TaskState string

const (
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
)

// TaskStatus represents the current status of a task.
type TaskStatus struct {
	State     TaskState    `json:"state"`
	Message   *TaskMessage `json:"message,omitempty"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`
}

// Task is the result of a tasks/send call. Tasks complete synchronously.
type Task struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId,omitempty"`
	Status    TaskStatus     `json:"status"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
