package cli

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type demoTarget struct {
	label    string
	endpoint string
}

// demoCommand creates the 'demo' command
func demoCommand(rt *appState) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Sends the same text to the add and subtract agents and prints both replies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "add-url",
				Usage: "Add agent endpoint",
			},
			&cli.StringFlag{
				Name:  "subtract-url",
				Usage: "Subtract agent endpoint",
			},
			&cli.StringFlag{
				Name:  "text",
				Usage: "Message text",
			},
		},
		Action: func(c *cli.Context) error {
			return demoCommandAction(c, rt)
		},
	}
}

func demoCommandAction(c *cli.Context, rt *appState) error {
	demo := rt.cfg.Demo
	if c.IsSet("add-url") {
		demo.AddURL = c.String("add-url")
	}
	if c.IsSet("subtract-url") {
		demo.SubtractURL = c.String("subtract-url")
	}
	if c.IsSet("text") {
		demo.Text = c.String("text")
	}

	targets := []demoTarget{
		{label: "Add Agent", endpoint: demo.AddURL},
		{label: "Subtract Agent", endpoint: demo.SubtractURL},
	}

	replies := make([]string, len(targets))
	failures := make([]error, len(targets))

	var g errgroup.Group
	for i, target := range targets {
		g.Go(func() error {
			reply, err := sendDemo(c, rt, target.endpoint, demo.Text)
			if err != nil {
				rt.logger.Warn("demo request failed", zap.String("endpoint", target.endpoint), zap.Error(err))
				failures[i] = err
				return err
			}
			replies[i] = reply
			return nil
		})
	}
	// Wait reports only the first failure. Each target keeps its own slot so
	// every reply and every failure is printed, in a fixed order.
	waitErr := g.Wait()

	var errs []error
	for i, target := range targets {
		if failures[i] != nil {
			fmt.Fprintf(c.App.ErrWriter, "%s failed: %v\n", target.label, failures[i])
			errs = append(errs, fmt.Errorf("%s: %w", target.label, failures[i]))
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s says: %s\n", target.label, replies[i])
	}
	if waitErr == nil {
		return nil
	}
	return errors.Join(errs...)
}

func sendDemo(c *cli.Context, rt *appState, endpoint, text string) (string, error) {
	client, err := newClient(rt, endpoint)
	if err != nil {
		return "", err
	}
	defer client.Close()

	reply, err := client.SendText(c.Context, text)
	if err != nil {
		return "", err
	}
	return replyText(reply), nil
}
