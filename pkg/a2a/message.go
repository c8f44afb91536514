package a2a

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// ContentType is the discriminator of a message content.
type ContentType string

const (
	ContentTypeText             ContentType = "text"
	ContentTypeFunctionCall     ContentType = "function_call"
	ContentTypeFunctionResponse ContentType = "function_response"
	ContentTypeError            ContentType = "error"
)

// Content is the payload of a Message. It is a union: either text, or some
// other content kind whose fields are kept as-is in Fields.
type Content struct {
	Type   ContentType
	Text   string
	Fields map[string]any
}

// TextContent returns a text content.
func TextContent(text string) Content {
	return Content{Type: ContentTypeText, Text: text}
}

// OtherContent returns a non-text content of the given type.
func OtherContent(t ContentType, fields map[string]any) Content {
	return Content{Type: t, Fields: fields}
}

// AsText returns the text and true when the content is text.
func (c Content) AsText() (string, bool) {
	if c.Type != ContentTypeText {
		return "", false
	}
	return c.Text, true
}

// MarshalJSON flattens Fields next to the type tag.
func (c Content) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Fields)+2)
	for k, v := range c.Fields {
		out[k] = v
	}
	out["type"] = c.Type
	if c.Type == ContentTypeText {
		out["text"] = c.Text
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements custom unmarshaling for Content to validate the
// union tag.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t, _ := raw["type"].(string)
	if t == "" {
		return fmt.Errorf("content missing 'type' field")
	}
	delete(raw, "type")

	*c = Content{Type: ContentType(t)}
	if c.Type == ContentTypeText {
		text, ok := raw["text"].(string)
		if !ok {
			return fmt.Errorf("text content missing 'text' field")
		}
		c.Text = text
		return nil
	}

	if len(raw) > 0 {
		c.Fields = raw
	}
	return nil
}

// Message is the envelope exchanged between agents.
type Message struct {
	Content         Content `json:"content"`
	Role            Role    `json:"role"`
	MessageID       string  `json:"message_id,omitempty"`
	ParentMessageID string  `json:"parent_message_id,omitempty"`
	ConversationID  string  `json:"conversation_id,omitempty"`
}

// UnmarshalJSON rejects envelopes without content.
func (m *Message) UnmarshalJSON(data []byte) error {
	type messageAlias Message
	var raw struct {
		messageAlias
		Content *Content `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Content == nil {
		return fmt.Errorf("message missing 'content' field")
	}

	*m = Message(raw.messageAlias)
	m.Content = *raw.Content
	return nil
}

// NewMessage creates a message with a fresh message ID.
func NewMessage(role Role, content Content) *Message {
	return &Message{
		Content:   content,
		Role:      role,
		MessageID: NewMessageID(),
	}
}

// NewTextMessage creates a user text message.
func NewTextMessage(text string) *Message {
	return NewMessage(RoleUser, TextContent(text))
}

// NewReply creates an agent text reply threaded onto req. A nil req yields
// empty correlation IDs.
func NewReply(req *Message, text string) *Message {
	reply := NewMessage(RoleAgent, TextContent(text))
	if req != nil {
		reply.ParentMessageID = req.MessageID
		reply.ConversationID = req.ConversationID
	}
	return reply
}

// NewMessageID returns a random message identifier.
func NewMessageID() string {
	return uuid.New().String()
}
