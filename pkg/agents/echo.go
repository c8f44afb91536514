package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
	"github.com/agent-protocol/a2a-agents/pkg/ptr"
)

// EchoPrefix starts every echo reply.
const EchoPrefix = "Echo: "

// EchoAgent echoes back text messages with a prefix.
type EchoAgent struct {
	*BaseAgentImpl
}

// NewEchoAgent creates an echo agent.
func NewEchoAgent(logger *zap.Logger) *EchoAgent {
	return &EchoAgent{
		BaseAgentImpl: NewBaseAgent("EchoAgent", "Echoes back text messages with a prefix.", logger),
	}
}

// Skills lists the echo skill.
func (a *EchoAgent) Skills() []a2a.AgentSkill {
	return []a2a.AgentSkill{{
		ID:          "echo",
		Name:        "echo",
		Description: ptr.Ptr(a.Description()),
		Examples:    []string{"hello"},
	}}
}

// HandleMessage replies with the text prefixed by EchoPrefix, or with
// NonTextInputReply for anything else.
func (a *EchoAgent) HandleMessage(_ context.Context, msg *a2a.Message) *a2a.Message {
	a.Logger().Debug("Received message", messageFields(msg)...)

	text, ok := inputText(msg)
	if !ok {
		return a2a.NewReply(msg, NonTextInputReply)
	}
	return a2a.NewReply(msg, EchoPrefix+text)
}
