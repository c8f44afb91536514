package agents

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Options carries what the registered constructors may need.
type Options struct {
	Logger *zap.Logger
	// RemoteURL is the endpoint the remote kind forwards to.
	RemoteURL string
	// Remote configures the remote kind's client. Nil uses defaults.
	Remote *RemoteAgentConfig
}

var constructors = map[string]func(Options) (Agent, error){
	"add":      func(o Options) (Agent, error) { return NewAddAgent(o.Logger), nil },
	"subtract": func(o Options) (Agent, error) { return NewSubtractAgent(o.Logger), nil },
	"echo":     func(o Options) (Agent, error) { return NewEchoAgent(o.Logger), nil },
	"remote": func(o Options) (Agent, error) {
		return NewRemoteAgent("RemoteAgent", AgentCardURL{URL: o.RemoteURL}, o.Remote, o.Logger)
	},
}

// New creates the agent registered under kind.
func New(kind string, opts Options) (Agent, error) {
	ctor, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown agent kind %q (available: %v)", kind, Kinds())
	}
	return ctor(opts)
}

// Kinds lists the registered agent kinds in sorted order.
func Kinds() []string {
	kinds := make([]string, 0, len(constructors))
	for k := range constructors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
