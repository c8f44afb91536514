// Package agents provides the message handlers served by the A2A server:
// arithmetic agents that add or subtract two comma-separated numbers and an
// echo agent.
package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
	"github.com/agent-protocol/a2a-agents/pkg/ptr"
)

// Reply texts shared by all agents.
const (
	NonTextInputReply  = "Error: Input must be a text message."
	InternalErrorReply = "An internal server error occurred."
)

// Agent handles one inbound message and returns exactly one reply.
// Implementations are safe for concurrent use.
type Agent interface {
	// Name returns the agent's unique identifier.
	Name() string
	// Description returns a description of the agent's purpose.
	Description() string
	// Skills lists what the agent advertises on its card.
	Skills() []a2a.AgentSkill
	// HandleMessage never returns nil.
	HandleMessage(ctx context.Context, msg *a2a.Message) *a2a.Message
}

// BaseAgentImpl holds the fields common to every agent. It can be embedded
// in concrete agent types.
type BaseAgentImpl struct {
	name        string
	description string
	logger      *zap.Logger
}

// NewBaseAgent creates a new base agent implementation. A nil logger
// discards output.
func NewBaseAgent(name, description string, logger *zap.Logger) *BaseAgentImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseAgentImpl{
		name:        name,
		description: description,
		logger:      logger.With(zap.String("agent", name)),
	}
}

// Name returns the agent's unique identifier.
func (a *BaseAgentImpl) Name() string {
	return a.name
}

// Description returns a description of the agent's purpose.
func (a *BaseAgentImpl) Description() string {
	return a.description
}

// Logger returns the agent-scoped logger.
func (a *BaseAgentImpl) Logger() *zap.Logger {
	return a.logger
}

// NewAgentCard builds the card advertised for agent at url.
func NewAgentCard(agent Agent, url, version string) *a2a.AgentCard {
	return &a2a.AgentCard{
		Name:               agent.Name(),
		Description:        ptr.Ptr(agent.Description()),
		URL:                url,
		Version:            version,
		Capabilities:       a2a.AgentCapabilities{},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		Skills:             agent.Skills(),
	}
}

// messageFields are the zap fields logged for every inbound message.
func messageFields(msg *a2a.Message) []zap.Field {
	if msg == nil {
		return []zap.Field{zap.Bool("nil_message", true)}
	}
	return []zap.Field{
		zap.String("message_id", msg.MessageID),
		zap.String("conversation_id", msg.ConversationID),
		zap.String("content_type", string(msg.Content.Type)),
	}
}

// inputText returns the text of msg, or false for a nil or non-text message.
func inputText(msg *a2a.Message) (string, bool) {
	if msg == nil {
		return "", false
	}
	return msg.Content.AsText()
}
