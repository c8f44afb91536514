package cli

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
)

// cardCommand creates the 'card' command
func cardCommand(rt *appState) *cli.Command {
	return &cli.Command{
		Name:  "card",
		Usage: "Prints the agent card of a remote agent",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Agent endpoint (defaults to demo.add_url)",
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

			card, err := client.GetAgentCard(c.Context)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(card, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode agent card: %w", err)
			}
			fmt.Fprintln(c.App.Writer, string(data))
			return nil
		},
	}
}
