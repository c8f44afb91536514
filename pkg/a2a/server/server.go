package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/agent-protocol/a2a-agents/internal/jsonrpc2"
	"github.com/agent-protocol/a2a-agents/internal/metrics"
	"github.com/agent-protocol/a2a-agents/pkg/a2a"
	"github.com/agent-protocol/a2a-agents/pkg/a2a/executor"
	"github.com/agent-protocol/a2a-agents/pkg/agents"
)

// Transport labels used in logs and metrics.
const (
	TransportHTTP      = "http"
	TransportJSONRPC   = "jsonrpc"
	TransportWebSocket = "ws"
)

const maxBodyBytes = 1 << 20

// Config contains configuration for the A2A server
type Config struct {
	Agent agents.Agent
	// AgentCard is derived from Agent when nil.
	AgentCard *a2a.AgentCard
	Host      string
	Port      int
	Version   string
	// AllowOrigins lists CORS origins; empty allows any origin.
	AllowOrigins    []string
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
	// Metrics is optional; /metrics is only served when set.
	Metrics *metrics.Collector
	// Executor configures the JSON-RPC task bridge. Nil uses defaults.
	Executor *executor.Config
}

// A2AServer wraps a single local agent as an A2A endpoint
type A2AServer struct {
	agent     agents.Agent
	agentCard *a2a.AgentCard
	config    Config
	logger    *zap.Logger
	metrics   *metrics.Collector
	rpc       *jsonrpc2.Server
	upgrader  websocket.Upgrader
	handler   http.Handler
}

// New creates a new A2A server
func New(config Config) (*A2AServer, error) {
	if config.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Version == "" {
		config.Version = "1.0.0"
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 5 * time.Second
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	card := config.AgentCard
	if card == nil {
		card = agents.NewAgentCard(config.Agent, fmt.Sprintf("http://%s/a2a", net.JoinHostPort(config.Host, fmt.Sprint(config.Port))), config.Version)
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	s := &A2AServer{
		agent:     config.Agent,
		agentCard: card,
		config:    config,
		logger:    config.Logger.With(zap.String("component", "a2a-server"), zap.String("agent", config.Agent.Name())),
		metrics:   config.Metrics,
	}
	exec := executor.New(executor.MessageHandlerFunc(func(ctx context.Context, msg *a2a.Message) *a2a.Message {
		return s.HandleMessage(ctx, msg, TransportJSONRPC)
	}), card, config.Executor, config.Logger)
	s.rpc = jsonrpc2.NewServer(exec, config.Logger)
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	s.handler = s.setupRoutes()
	return s, nil
}

// GetAgentCard returns the server's agent card
func (s *A2AServer) GetAgentCard() *a2a.AgentCard {
	return s.agentCard
}

// Addr returns host:port from the configuration.
func (s *A2AServer) Addr() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
}

// setupRoutes configures all HTTP routes
func (s *A2AServer) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "/", s.handleA2A)
	s.route(mux, "/a2a", s.handleA2A)
	s.route(mux, "/a2a/agent.json", s.handleAgentCard)
	s.route(mux, "/.well-known/agent.json", s.handleAgentCard)
	s.route(mux, "/a2a/ws", s.handleWebSocket)
	s.route(mux, "/health", s.handleHealth)

	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}

func (s *A2AServer) route(mux *http.ServeMux, path string, h http.HandlerFunc) {
	if s.metrics != nil {
		mux.Handle(path, s.metrics.Middleware(path, h))
		return
	}
	mux.Handle(path, h)
}

// ServeHTTP implements http.Handler for the A2A server
func (s *A2AServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start listens on the configured address until ctx is cancelled.
func (s *A2AServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *A2AServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("A2A server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("A2A server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handleA2A accepts a message envelope or a JSON-RPC request.
func (s *A2AServer) handleA2A(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/a2a" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleAgentCard(w, r)
		return
	case http.MethodPost:
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return
	}

	if jsonrpc2.IsJSONRPC(body) {
		s.rpc.ServeJSON(r.Context(), w, body)
		return
	}

	var msg a2a.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		s.logger.Warn("rejected malformed message", zap.Error(err))
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid message: %v", err))
		return
	}

	reply := s.HandleMessage(r.Context(), &msg, TransportHTTP)
	writeJSON(w, http.StatusOK, reply)
}

// HandleMessage runs the agent on msg exactly once. A panicking agent is
// answered with the generic internal error reply.
func (s *A2AServer) HandleMessage(ctx context.Context, msg *a2a.Message, transport string) (reply *a2a.Message) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("agent panicked", zap.Any("panic", r), zap.Stack("stack"))
			reply = a2a.NewReply(msg, agents.InternalErrorReply)
		}
		if reply == nil {
			s.logger.Error("agent returned no reply")
			reply = a2a.NewReply(msg, agents.InternalErrorReply)
		}
		if s.metrics != nil {
			s.metrics.RecordMessage(s.agent.Name(), transport, classifyReply(reply), time.Since(start))
		}
	}()

	return s.agent.HandleMessage(ctx, msg)
}

// classifyReply maps a reply onto a metrics outcome.
func classifyReply(reply *a2a.Message) string {
	text, ok := reply.Content.AsText()
	switch {
	case !ok:
		return metrics.OutcomeOK
	case text == agents.InternalErrorReply:
		return metrics.OutcomeInternalError
	case strings.HasPrefix(text, "Error"):
		return metrics.OutcomeValidationError
	default:
		return metrics.OutcomeOK
	}
}

// handleAgentCard serves the agent card
func (s *A2AServer) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.GetAgentCard())
}

func (s *A2AServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"agent":  s.agent.Name(),
	})
}

// handleWebSocket exchanges one reply frame per message frame.
func (s *A2AServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read ended", zap.Error(err))
			}
			return
		}

		var msg a2a.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			if werr := conn.WriteJSON(map[string]string{"error": fmt.Sprintf("invalid message: %v", err)}); werr != nil {
				return
			}
			continue
		}

		reply := s.HandleMessage(r.Context(), &msg, TransportWebSocket)
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

func (s *A2AServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.config.AllowOrigins) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
