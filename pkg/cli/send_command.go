package cli

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
)

// sendCommand creates the 'send' command
func sendCommand(rt *appState) *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Sends one text message to an agent and prints the reply",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Agent endpoint (defaults to demo.add_url)",
			},
			&cli.StringFlag{
				Name:     "text",
				Aliases:  []string{"t"},
				Usage:    "Message text",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			endpoint := rt.cfg.Demo.AddURL
			if c.IsSet("url") {
				endpoint = c.String("url")
			}

			client, err := newClient(rt, endpoint)
			if err != nil {
				return err
			}
			defer client.Close()

			reply, err := client.SendText(c.Context, c.String("text"))
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, replyText(reply))
			return nil
		},
	}
}

func newClient(rt *appState, endpoint string) (*a2a.Client, error) {
	cfg := a2a.DefaultClientConfig()
	cfg.Timeout = rt.cfg.Client.Timeout
	cfg.Logger = rt.logger
	if rt.cfg.Client.APIKey != "" {
		cfg.Headers = map[string]string{"X-Api-Key": rt.cfg.Client.APIKey}
	}
	return a2a.NewClient(endpoint, cfg)
}

// replyText returns the text of a reply, or its content as JSON when the
// reply is not text.
func replyText(msg *a2a.Message) string {
	if text, ok := msg.Content.AsText(); ok {
		return text
	}
	data, err := json.Marshal(msg.Content)
	if err != nil {
		return string(msg.Content.Type)
	}
	return string(data)
}
