package a2a

import (
	"testing"

	"github.com/agent-protocol/a2a-agents/pkg/ptr"
)

func TestConvertTaskMessageToMessage(t *testing.T) {
	tm := &TaskMessage{
		Role:      "user",
		MessageID: "test123",
		ContextID: "conv-1",
		Parts: []Part{
			{Type: "data", Data: map[string]any{"k": "v"}},
			{Type: "text", Text: ptr.Ptr("5,2")},
		},
	}

	msg := ConvertTaskMessageToMessage(tm)
	if msg == nil {
		t.Fatal("Expected message, got nil")
	}

	if msg.Role != RoleUser {
		t.Errorf("Expected role 'user', got '%s'", msg.Role)
	}

	text, ok := msg.Content.AsText()
	if !ok || text != "5,2" {
		t.Errorf("Expected text '5,2', got %q (text=%v)", text, ok)
	}

	if msg.MessageID != "test123" {
		t.Errorf("Expected message ID 'test123', got '%s'", msg.MessageID)
	}

	if msg.ConversationID != "conv-1" {
		t.Errorf("Expected conversation ID 'conv-1', got '%s'", msg.ConversationID)
	}
}

func TestConvertTaskMessageToMessageWithoutText(t *testing.T) {
	tm := &TaskMessage{
		Role:  "user",
		Parts: []Part{{Type: "data", Data: map[string]any{"a": 1.0}}},
	}

	msg := ConvertTaskMessageToMessage(tm)

	if _, ok := msg.Content.AsText(); ok {
		t.Fatal("Expected non-text content")
	}

	if msg.Content.Type != "data" {
		t.Errorf("Expected content type 'data', got '%s'", msg.Content.Type)
	}
}

func TestConvertTaskMessageToMessageNoParts(t *testing.T) {
	msg := ConvertTaskMessageToMessage(&TaskMessage{Role: "user"})

	if _, ok := msg.Content.AsText(); ok {
		t.Fatal("Expected non-text content for an empty message")
	}
}

func TestConvertMessageToTaskMessage(t *testing.T) {
	msg := &Message{
		Role:           RoleAgent,
		Content:        TextContent("Echo: hi"),
		MessageID:      "msg456",
		ConversationID: "conv-9",
	}

	tm := ConvertMessageToTaskMessage(msg)

	if tm.Role != "agent" {
		t.Errorf("Expected role 'agent', got '%s'", tm.Role)
	}

	if len(tm.Parts) != 1 {
		t.Fatalf("Expected 1 part, got %d", len(tm.Parts))
	}

	if tm.Parts[0].Type != "text" || tm.Parts[0].Text == nil || *tm.Parts[0].Text != "Echo: hi" {
		t.Errorf("Unexpected part: %+v", tm.Parts[0])
	}

	if tm.MessageID != "msg456" || tm.ContextID != "conv-9" {
		t.Errorf("IDs not carried over: %+v", tm)
	}
}

func TestConvertContentToPartNonText(t *testing.T) {
	c := OtherContent(ContentTypeFunctionCall, map[string]any{"name": "add"})

	part := ConvertContentToPart(c)

	if part.Type != "data" {
		t.Fatalf("Expected data part, got '%s'", part.Type)
	}

	if part.Data["name"] != "add" {
		t.Errorf("Expected data name 'add', got %v", part.Data["name"])
	}

	if part.Metadata["content_type"] != "function_call" {
		t.Errorf("Expected content_type metadata, got %v", part.Metadata)
	}
}

func TestConvertNilMessages(t *testing.T) {
	if ConvertTaskMessageToMessage(nil) != nil {
		t.Error("Expected nil for nil task message")
	}
	if ConvertMessageToTaskMessage(nil) != nil {
		t.Error("Expected nil for nil message")
	}
}
