package executor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
	"github.com/agent-protocol/a2a-agents/pkg/agents"
)

func textParams(id, text string) *a2a.TaskSendParams {
	return &a2a.TaskSendParams{
		ID:        id,
		SessionID: "session-1",
		Message: a2a.TaskMessage{
			Role:  "user",
			Parts: []a2a.Part{{Type: "text", Text: &text}},
		},
	}
}

func TestAgentExecutor_SendMessageWithAddAgent(t *testing.T) {
	exec := New(agents.NewAddAgent(nil), nil, nil, nil)

	reply, err := exec.SendMessage(context.Background(), textParams("", "5,2"))
	require.NoError(t, err)

	text, ok := a2a.ExtractTextFromParts(reply.Parts)
	require.True(t, ok)
	assert.Equal(t, "The sum of 5.0 and 2.0 is: 7.0", text)
	assert.Equal(t, "agent", reply.Role)
	assert.Equal(t, "session-1", reply.ContextID)
}

func TestAgentExecutor_SendTask(t *testing.T) {
	exec := New(agents.NewEchoAgent(nil), nil, nil, nil)

	task, err := exec.SendTask(context.Background(), textParams("task-9", "ping"))
	require.NoError(t, err)

	assert.Equal(t, "task-9", task.ID)
	assert.Equal(t, "session-1", task.SessionID)
	assert.Equal(t, a2a.TaskStateCompleted, task.Status.State)
	require.NotNil(t, task.Status.Timestamp)

	text, _ := a2a.ExtractTextFromParts(task.Status.Message.Parts)
	assert.Equal(t, "Echo: ping", text)
}

func TestAgentExecutor_SendTaskGeneratesID(t *testing.T) {
	exec := New(agents.NewEchoAgent(nil), nil, nil, nil)

	task, err := exec.SendTask(context.Background(), textParams("", "x"))
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
}

func TestAgentExecutor_InternalErrorFailsTask(t *testing.T) {
	handler := MessageHandlerFunc(func(_ context.Context, msg *a2a.Message) *a2a.Message {
		return a2a.NewReply(msg, agents.InternalErrorReply)
	})
	exec := New(handler, nil, nil, nil)

	task, err := exec.SendTask(context.Background(), textParams("t", "5,2"))
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
}

func TestAgentExecutor_ValidationErrorCompletesTask(t *testing.T) {
	exec := New(agents.NewAddAgent(nil), nil, nil, nil)

	task, err := exec.SendTask(context.Background(), textParams("t", "5"))
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateCompleted, task.Status.State)

	text, _ := a2a.ExtractTextFromParts(task.Status.Message.Parts)
	assert.Contains(t, text, "Error processing input '5'")
}

func TestAgentExecutor_NonTextPart(t *testing.T) {
	exec := New(agents.NewAddAgent(nil), nil, nil, nil)

	params := &a2a.TaskSendParams{
		Message: a2a.TaskMessage{
			Role:  "user",
			Parts: []a2a.Part{{Type: "data", Data: map[string]any{"a": 1}}},
		},
	}
	reply, err := exec.SendMessage(context.Background(), params)
	require.NoError(t, err)

	text, _ := a2a.ExtractTextFromParts(reply.Parts)
	assert.Equal(t, agents.NonTextInputReply, text)
}

func TestAgentExecutor_FillsMessageDefaults(t *testing.T) {
	var seen *a2a.Message
	handler := MessageHandlerFunc(func(_ context.Context, msg *a2a.Message) *a2a.Message {
		seen = msg
		return a2a.NewReply(msg, "ok")
	})
	exec := New(handler, nil, nil, nil)

	params := textParams("", "hi")
	params.Message.Role = ""
	_, err := exec.SendMessage(context.Background(), params)
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, a2a.RoleUser, seen.Role)
	assert.NotEmpty(t, seen.MessageID)
	assert.Equal(t, "session-1", seen.ConversationID)
}

func TestAgentExecutor_NilReply(t *testing.T) {
	handler := MessageHandlerFunc(func(context.Context, *a2a.Message) *a2a.Message { return nil })
	exec := New(handler, nil, nil, nil)

	_, err := exec.SendMessage(context.Background(), textParams("", "hi"))
	assert.Error(t, err)
}

func TestAgentExecutor_Timeout(t *testing.T) {
	handler := MessageHandlerFunc(func(ctx context.Context, msg *a2a.Message) *a2a.Message {
		<-ctx.Done()
		return a2a.NewReply(msg, agents.InternalErrorReply)
	})
	exec := New(handler, nil, &Config{Timeout: 10 * time.Millisecond}, nil)

	task, err := exec.SendTask(context.Background(), textParams("t", "x"))
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
}

func TestAgentExecutor_ConcurrencyLimit(t *testing.T) {
	release := make(chan struct{})
	var inFlight, peak atomic.Int32

	handler := MessageHandlerFunc(func(_ context.Context, msg *a2a.Message) *a2a.Message {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		inFlight.Add(-1)
		return a2a.NewReply(msg, "ok")
	})
	exec := New(handler, nil, &Config{MaxConcurrentRequests: 1}, nil)

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := exec.SendMessage(context.Background(), textParams("", "x"))
			done <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	for i := 0; i < 2; i++ {
		require.NoError(t, <-done)
	}
	assert.Equal(t, int32(1), peak.Load())
}

func TestAgentExecutor_AcquireCancelled(t *testing.T) {
	block := make(chan struct{})
	handler := MessageHandlerFunc(func(_ context.Context, msg *a2a.Message) *a2a.Message {
		<-block
		return a2a.NewReply(msg, "ok")
	})
	exec := New(handler, nil, &Config{MaxConcurrentRequests: 1}, nil)
	defer close(block)

	go func() { _, _ = exec.SendMessage(context.Background(), textParams("", "x")) }()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := exec.SendMessage(ctx, textParams("", "y"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAgentExecutor_AgentCard(t *testing.T) {
	card := &a2a.AgentCard{Name: "AddAgent", URL: "http://localhost:5000/a2a", Version: "1.0.0"}

	got, err := New(agents.NewAddAgent(nil), card, nil, nil).AgentCard(context.Background())
	require.NoError(t, err)
	assert.Same(t, card, got)

	_, err = New(agents.NewAddAgent(nil), nil, nil, nil).AgentCard(context.Background())
	var rpcErr *a2a.JSONRPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, a2a.CodeUnsupportedOperation, rpcErr.Code)
}
