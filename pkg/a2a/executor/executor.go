// Package executor bridges the JSON-RPC task methods onto a single
// message handler.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
	"github.com/agent-protocol/a2a-agents/pkg/agents"
	"github.com/agent-protocol/a2a-agents/pkg/ptr"
)

// MessageHandler produces exactly one reply for a message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *a2a.Message) *a2a.Message
}

// MessageHandlerFunc adapts a function to MessageHandler.
type MessageHandlerFunc func(ctx context.Context, msg *a2a.Message) *a2a.Message

// HandleMessage calls f(ctx, msg).
func (f MessageHandlerFunc) HandleMessage(ctx context.Context, msg *a2a.Message) *a2a.Message {
	return f(ctx, msg)
}

// Config contains configuration for the AgentExecutor.
type Config struct {
	// Timeout bounds a single handler call. Zero disables it.
	Timeout time.Duration
	// MaxConcurrentRequests limits in-flight handler calls. Zero disables it.
	MaxConcurrentRequests int64
}

// DefaultConfig returns default configuration for AgentExecutor.
func DefaultConfig() *Config {
	return &Config{
		Timeout:               30 * time.Second,
		MaxConcurrentRequests: 64,
	}
}

// AgentExecutor serves message/send, tasks/send and agent/card by
// converting parts-based messages to the native envelope and back.
type AgentExecutor struct {
	handler MessageHandler
	card    *a2a.AgentCard
	config  *Config
	sem     *semaphore.Weighted
	logger  *zap.Logger
}

// New creates an AgentExecutor. A nil config uses DefaultConfig.
func New(handler MessageHandler, card *a2a.AgentCard, config *Config, logger *zap.Logger) *AgentExecutor {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &AgentExecutor{
		handler: handler,
		card:    card,
		config:  config,
		logger:  logger.With(zap.String("component", "executor")),
	}
	if config.MaxConcurrentRequests > 0 {
		e.sem = semaphore.NewWeighted(config.MaxConcurrentRequests)
	}
	return e
}

// SendMessage runs the handler and returns the reply in parts form.
func (e *AgentExecutor) SendMessage(ctx context.Context, params *a2a.TaskSendParams) (*a2a.TaskMessage, error) {
	reply, err := e.execute(ctx, params)
	if err != nil {
		return nil, err
	}
	return a2a.ConvertMessageToTaskMessage(reply), nil
}

// SendTask runs the handler and wraps the reply in a finished task. A
// generic internal error reply marks the task failed.
func (e *AgentExecutor) SendTask(ctx context.Context, params *a2a.TaskSendParams) (*a2a.Task, error) {
	reply, err := e.execute(ctx, params)
	if err != nil {
		return nil, err
	}

	taskID := params.ID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	state := a2a.TaskStateCompleted
	if text, ok := reply.Content.AsText(); ok && text == agents.InternalErrorReply {
		state = a2a.TaskStateFailed
	}

	return &a2a.Task{
		ID:        taskID,
		SessionID: params.SessionID,
		Status: a2a.TaskStatus{
			State:     state,
			Message:   a2a.ConvertMessageToTaskMessage(reply),
			Timestamp: ptr.Ptr(time.Now().UTC()),
		},
		Metadata: params.Metadata,
	}, nil
}

// AgentCard returns the card the executor was built with.
func (e *AgentExecutor) AgentCard(_ context.Context) (*a2a.AgentCard, error) {
	if e.card == nil {
		return nil, a2a.NewUnsupportedOperationError("agent/card")
	}
	return e.card, nil
}

func (e *AgentExecutor) execute(ctx context.Context, params *a2a.TaskSendParams) (*a2a.Message, error) {
	if e.sem != nil {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("waiting for a free slot: %w", err)
		}
		defer e.sem.Release(1)
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	msg := a2a.ConvertTaskMessageToMessage(&params.Message)
	if msg.Role == "" {
		msg.Role = a2a.RoleUser
	}
	if msg.MessageID == "" {
		msg.MessageID = a2a.NewMessageID()
	}
	if msg.ConversationID == "" {
		msg.ConversationID = params.SessionID
	}

	e.logger.Debug("executing request",
		zap.String("task_id", params.ID),
		zap.String("message_id", msg.MessageID),
	)

	reply := e.handler.HandleMessage(ctx, msg)
	if reply == nil {
		return nil, fmt.Errorf("handler returned no reply")
	}
	return reply, nil
}
