// Package a2a provides the agent-to-agent message envelope, the agent card,
// the JSON-RPC wire types and an HTTP client for talking to remote agents.
//
// Two message shapes exist on the wire. Message is the native envelope
// (single content, message/parent/conversation IDs). TaskMessage is the
// parts-based shape carried by the JSON-RPC methods. The converters in this
// file map between them:
//
//	// JSON-RPC params to native envelope
//	msg := a2a.ConvertTaskMessageToMessage(&params.Message)
//
//	// native reply back to parts
//	out := a2a.ConvertMessageToTaskMessage(reply)
package a2a

import (
	"github.com/agent-protocol/a2a-agents/pkg/ptr"
)

// ConvertTaskMessageToMessage converts a parts-based message to the native
// envelope. The first text part becomes text content; a message without
// text parts becomes non-text content carrying the first part.
func ConvertTaskMessageToMessage(tm *TaskMessage) *Message {
	if tm == nil {
		return nil
	}

	msg := &Message{
		Role:           Role(tm.Role),
		MessageID:      tm.MessageID,
		ConversationID: tm.ContextID,
	}

	if text, ok := ExtractTextFromParts(tm.Parts); ok {
		msg.Content = TextContent(text)
		return msg
	}

	msg.Content = ConvertPartToContent(firstPart(tm.Parts))
	return msg
}

// ConvertMessageToTaskMessage converts a native message to the parts-based
// shape.
func ConvertMessageToTaskMessage(msg *Message) *TaskMessage {
	if msg == nil {
		return nil
	}

	return &TaskMessage{
		Role:      string(msg.Role),
		Parts:     []Part{ConvertContentToPart(msg.Content)},
		MessageID: msg.MessageID,
		ContextID: msg.ConversationID,
	}
}

// ConvertPartToContent converts a single part to content. File and data
// parts map to non-text content of the same name.
func ConvertPartToContent(p *Part) Content {
	if p == nil {
		return OtherContent("empty", nil)
	}

	switch p.Type {
	case "text":
		if p.Text != nil {
			return TextContent(*p.Text)
		}
		return TextContent("")
	case "file":
		return OtherContent(ContentType("file"), map[string]any{"file": p.File})
	case "data":
		return OtherContent(ContentType("data"), map[string]any{"data": p.Data})
	default:
		return OtherContent(ContentType(p.Type), nil)
	}
}

// ConvertContentToPart converts content to a part. Non-text content is
// carried as a data part tagged with its content type.
func ConvertContentToPart(c Content) Part {
	if text, ok := c.AsText(); ok {
		return Part{Type: "text", Text: ptr.Ptr(text)}
	}

	data := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		data[k] = v
	}
	return Part{
		Type:     "data",
		Data:     data,
		Metadata: map[string]any{"content_type": string(c.Type)},
	}
}

// ExtractTextFromParts returns the text of the first text part.
func ExtractTextFromParts(parts []Part) (string, bool) {
	for _, part := range parts {
		if part.Type == "text" && part.Text != nil {
			return *part.Text, true
		}
	}
	return "", false
}

func firstPart(parts []Part) *Part {
	if len(parts) == 0 {
		return nil
	}
	return &parts[0]
}
