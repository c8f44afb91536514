package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
	"github.com/agent-protocol/a2a-agents/pkg/ptr"
)

// AgentCardResolutionError is returned when the remote agent card cannot be
// resolved.
type AgentCardResolutionError struct {
	message string
	cause   error
}

func (e *AgentCardResolutionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *AgentCardResolutionError) Unwrap() error {
	return e.cause
}

// RemoteAgentConfig holds configuration for RemoteAgent
type RemoteAgentConfig struct {
	// HTTP client timeout
	Timeout time.Duration
	// Custom HTTP client (optional)
	HTTPClient *http.Client
	// Additional headers for A2A requests
	Headers map[string]string
}

// DefaultRemoteAgentConfig returns default configuration
func DefaultRemoteAgentConfig() *RemoteAgentConfig {
	return &RemoteAgentConfig{
		Timeout: 30 * time.Second,
		Headers: make(map[string]string),
	}
}

// AgentCardSource represents different ways to specify an agent card
type AgentCardSource interface {
	// isAgentCardSource is a marker method
	isAgentCardSource()
}

// AgentCardDirect represents a direct agent card object. Messages go to
// the card's URL.
type AgentCardDirect struct {
	Card *a2a.AgentCard
}

func (AgentCardDirect) isAgentCardSource() {}

// AgentCardURL names the remote message endpoint. The card is fetched from
// the endpoint host's well-known path.
type AgentCardURL struct {
	URL string
}

func (AgentCardURL) isAgentCardSource() {}

// AgentCardFile represents an agent card specified by file path
type AgentCardFile struct {
	Path string
}

func (AgentCardFile) isAgentCardSource() {}

// RemoteAgent forwards every message to a remote A2A agent and relays its
// reply. The card is resolved lazily on the first message.
type RemoteAgent struct {
	*BaseAgentImpl
	source AgentCardSource
	config *RemoteAgentConfig

	mu     sync.Mutex
	card   *a2a.AgentCard
	client *a2a.Client
}

// NewRemoteAgent creates a new remote agent
func NewRemoteAgent(name string, source AgentCardSource, config *RemoteAgentConfig, logger *zap.Logger) (*RemoteAgent, error) {
	if name == "" {
		return nil, fmt.Errorf("remote agent name cannot be empty")
	}
	if source == nil {
		return nil, fmt.Errorf("agent card source cannot be nil")
	}
	if u, ok := source.(AgentCardURL); ok && u.URL == "" {
		return nil, fmt.Errorf("remote agent URL cannot be empty")
	}
	if config == nil {
		config = DefaultRemoteAgentConfig()
	}

	return &RemoteAgent{
		BaseAgentImpl: NewBaseAgent(name, "Forwards messages to a remote A2A agent.", logger),
		source:        source,
		config:        config,
	}, nil
}

// Skills returns a forwarding skill followed by the remote agent's skills
// once its card is resolved.
func (r *RemoteAgent) Skills() []a2a.AgentSkill {
	skills := []a2a.AgentSkill{{
		ID:          "forward",
		Name:        "forward",
		Description: ptr.Ptr(r.Description()),
	}}
	if card := r.AgentCard(); card != nil {
		skills = append(skills, card.Skills...)
	}
	return skills
}

// AgentCard returns the resolved remote card, or nil before resolution.
func (r *RemoteAgent) AgentCard() *a2a.AgentCard {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.card
}

// HandleMessage relays msg to the remote agent. Transport failures are
// logged and answered with InternalErrorReply.
func (r *RemoteAgent) HandleMessage(ctx context.Context, msg *a2a.Message) *a2a.Message {
	r.Logger().Debug("Received message", messageFields(msg)...)

	if msg == nil {
		return a2a.NewReply(nil, NonTextInputReply)
	}

	client, err := r.ensureResolved(ctx)
	if err != nil {
		r.Logger().Error("Failed to resolve remote agent", zap.Error(err))
		return a2a.NewReply(msg, InternalErrorReply)
	}

	forwarded := *msg
	remote, err := client.SendMessage(ctx, &forwarded)
	if err != nil {
		r.Logger().Error("Remote agent call failed", zap.String("endpoint", client.Endpoint()), zap.Error(err))
		return a2a.NewReply(msg, InternalErrorReply)
	}

	reply := a2a.NewMessage(a2a.RoleAgent, remote.Content)
	if remote.MessageID != "" {
		reply.MessageID = remote.MessageID
	}
	reply.ParentMessageID = msg.MessageID
	reply.ConversationID = msg.ConversationID
	return reply
}

// Close releases idle connections.
func (r *RemoteAgent) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// ensureResolved resolves the agent card and initializes the A2A client
func (r *RemoteAgent) ensureResolved(ctx context.Context) (*a2a.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	card, endpoint, err := r.resolveAgentCard(ctx)
	if err != nil {
		return nil, err
	}
	if err := card.Validate(); err != nil {
		return nil, &AgentCardResolutionError{message: "invalid agent card", cause: err}
	}

	client, err := r.newClient(endpoint)
	if err != nil {
		return nil, err
	}

	r.card = card
	r.client = client
	r.Logger().Info("Resolved remote agent",
		zap.String("remote", card.Name),
		zap.String("endpoint", endpoint),
	)
	return client, nil
}

// resolveAgentCard returns the card and the endpoint messages are sent to.
func (r *RemoteAgent) resolveAgentCard(ctx context.Context) (*a2a.AgentCard, string, error) {
	switch source := r.source.(type) {
	case AgentCardDirect:
		if source.Card == nil {
			return nil, "", &AgentCardResolutionError{message: "agent card is nil"}
		}
		return source.Card, source.Card.URL, nil

	case AgentCardURL:
		client, err := r.newClient(source.URL)
		if err != nil {
			return nil, "", err
		}
		card, err := client.GetAgentCard(ctx)
		if err != nil {
			return nil, "", &AgentCardResolutionError{message: "failed to fetch agent card from " + source.URL, cause: err}
		}
		return card, source.URL, nil

	case AgentCardFile:
		card, err := readAgentCardFile(source.Path)
		if err != nil {
			return nil, "", err
		}
		return card, card.URL, nil

	default:
		return nil, "", &AgentCardResolutionError{message: fmt.Sprintf("unsupported agent card source %T", r.source)}
	}
}

func readAgentCardFile(path string) (*a2a.AgentCard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AgentCardResolutionError{message: "failed to read agent card file", cause: err}
	}

	var card a2a.AgentCard
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, &AgentCardResolutionError{message: "failed to parse agent card file", cause: err}
	}
	return &card, nil
}

func (r *RemoteAgent) newClient(endpoint string) (*a2a.Client, error) {
	return a2a.NewClient(endpoint, &a2a.ClientConfig{
		Timeout:    r.config.Timeout,
		HTTPClient: r.config.HTTPClient,
		Headers:    r.config.Headers,
		Logger:     r.Logger(),
	})
}
