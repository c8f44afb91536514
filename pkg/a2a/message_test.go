package a2a

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_DecodeText(t *testing.T) {
	raw := `{"content":{"type":"text","text":"5,2"},"role":"user","message_id":"m1","conversation_id":"c1"}`

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	text, ok := msg.Content.AsText()
	assert.True(t, ok)
	assert.Equal(t, "5,2", text)
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "m1", msg.MessageID)
	assert.Equal(t, "c1", msg.ConversationID)
	assert.Empty(t, msg.ParentMessageID)
}

func TestMessage_DecodeOtherKeepsFields(t *testing.T) {
	raw := `{"content":{"type":"function_call","name":"add","parameters":[1,2]},"role":"user"}`

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	_, ok := msg.Content.AsText()
	assert.False(t, ok)
	assert.Equal(t, ContentTypeFunctionCall, msg.Content.Type)
	assert.Equal(t, "add", msg.Content.Fields["name"])

	out, err := json.Marshal(msg.Content)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"function_call","name":"add","parameters":[1,2]}`, string(out))
}

func TestMessage_DecodeRejectsBadContent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing type", `{"content":{"text":"hi"}}`},
		{"text without text", `{"content":{"type":"text"}}`},
		{"text not a string", `{"content":{"type":"text","text":5}}`},
		{"content not an object", `{"content":"hi"}`},
		{"content missing", `{"role":"user"}`},
		{"content null", `{"content":null,"role":"user"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg Message
			assert.Error(t, json.Unmarshal([]byte(tt.raw), &msg))
		})
	}
}

func TestMessage_EncodeOmitsAbsentIDs(t *testing.T) {
	msg := &Message{Content: TextContent("hi"), Role: RoleAgent}

	out, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":{"type":"text","text":"hi"},"role":"agent"}`, string(out))
}

func TestNewReply(t *testing.T) {
	req := &Message{
		Content:        TextContent("5,2"),
		Role:           RoleUser,
		MessageID:      "req-1",
		ConversationID: "conv-1",
	}

	reply := NewReply(req, "ok")

	assert.Equal(t, RoleAgent, reply.Role)
	assert.Equal(t, "req-1", reply.ParentMessageID)
	assert.Equal(t, "conv-1", reply.ConversationID)
	assert.NotEmpty(t, reply.MessageID)
	assert.NotEqual(t, req.MessageID, reply.MessageID)

	text, ok := reply.Content.AsText()
	assert.True(t, ok)
	assert.Equal(t, "ok", text)
}

func TestNewReply_NilRequest(t *testing.T) {
	reply := NewReply(nil, "oops")

	assert.Empty(t, reply.ParentMessageID)
	assert.Empty(t, reply.ConversationID)
	assert.Equal(t, RoleAgent, reply.Role)
}

func TestAgentCard_Validate(t *testing.T) {
	card := &AgentCard{Name: "AddAgent", URL: "http://localhost:5000/a2a", Version: "1.0.0"}
	assert.NoError(t, card.Validate())

	card.URL = ""
	assert.Error(t, card.Validate())
}
