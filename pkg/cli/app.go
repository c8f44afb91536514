package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/agent-protocol/a2a-agents/internal/config"
	"github.com/agent-protocol/a2a-agents/internal/logging"
)

// Version information - will be set during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// appState is filled by the app's Before hook and shared by all commands.
type appState struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewApp creates and configures the CLI application
func NewApp() *cli.App {
	rt := &appState{}

	app := &cli.App{
		Name:    "a2a",
		Usage:   "Agent-to-agent demo agents and client",
		Version: Version,
		Commands: []*cli.Command{
			serveCommand(rt),
			sendCommand(rt),
			demoCommand(rt),
			cardCommand(rt),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"A2A_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log encoding (json, console)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
		},
		Before: func(c *cli.Context) error {
			return rt.init(c)
		},
		After: func(c *cli.Context) error {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
			return nil
		},
	}

	// Custom help template
	cli.AppHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}

USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}
   {{if .Commands}}
COMMANDS:
{{range .Commands}}{{if not .HideHelp}}   {{join .Names ", "}}{{ "\t"}}{{.Usage}}{{ "\n" }}{{end}}{{end}}{{end}}{{if .VisibleFlags}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}{{end}}{{if .Version}}
VERSION:
   {{.Version}}
   {{end}}
`

	return app
}

func (rt *appState) init(c *cli.Context) error {
	cfg, err := config.NewLoader().WithConfigPath(c.String("config")).Load()
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.Bool("verbose") {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.logger = logger
	return nil
}
