package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/agent-protocol/a2a-agents/internal/config"
	"github.com/agent-protocol/a2a-agents/internal/metrics"
	"github.com/agent-protocol/a2a-agents/pkg/a2a/executor"
	"github.com/agent-protocol/a2a-agents/pkg/a2a/server"
	"github.com/agent-protocol/a2a-agents/pkg/agents"
)

// serveCommand creates the 'serve' command
func serveCommand(rt *appState) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serves one agent over A2A until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "agent",
				Aliases: []string{"a"},
				Usage:   fmt.Sprintf("Agent to serve (%s)", strings.Join(agents.Kinds(), ", ")),
			},
			&cli.StringFlag{
				Name:  "remote-url",
				Usage: "Endpoint the remote agent forwards to",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind the server to",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind the server to",
			},
			&cli.StringSliceFlag{
				Name:  "allow-origins",
				Usage: "Origins to allow for CORS",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Expose Prometheus metrics on /metrics",
			},
		},
		Action: func(c *cli.Context) error {
			return serveCommandAction(c, rt)
		},
	}
}

func serveCommandAction(c *cli.Context, rt *appState) error {
	cfg := rt.cfg

	if c.IsSet("agent") {
		cfg.Agent.Kind = c.String("agent")
	}
	if c.IsSet("remote-url") {
		cfg.Agent.RemoteURL = c.String("remote-url")
	}
	if c.IsSet("host") {
		cfg.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("allow-origins") {
		cfg.Server.AllowOrigins = c.StringSlice("allow-origins")
	}
	if c.IsSet("metrics") {
		cfg.Metrics.Enabled = c.Bool("metrics")
	}

	agent, err := agents.New(cfg.Agent.Kind, agents.Options{
		Logger:    rt.logger,
		RemoteURL: cfg.Agent.RemoteURL,
		Remote:    remoteAgentConfig(cfg),
	})
	if err != nil {
		return err
	}
	if closer, ok := agent.(io.Closer); ok {
		defer closer.Close()
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace, rt.logger)
	}

	srv, err := server.New(server.Config{
		Agent:           agent,
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Version:         cfg.Agent.Version,
		AllowOrigins:    cfg.Server.AllowOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          rt.logger,
		Metrics:         collector,
		Executor: &executor.Config{
			Timeout:               cfg.Server.RequestTimeout,
			MaxConcurrentRequests: cfg.Server.MaxConcurrentRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Starting %s server...\n", agent.Name())
	rt.logger.Info("serving agent",
		zap.String("agent", agent.Name()),
		zap.String("addr", srv.Addr()),
		zap.Bool("metrics", collector != nil),
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func remoteAgentConfig(cfg *config.Config) *agents.RemoteAgentConfig {
	remote := agents.DefaultRemoteAgentConfig()
	remote.Timeout = cfg.Client.Timeout
	if cfg.Client.APIKey != "" {
		remote.Headers["X-Api-Key"] = cfg.Client.APIKey
	}
	return remote
}
