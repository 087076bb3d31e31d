package main

import (
	"github.com/joeydtaylor/steeze-protocol/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply the manifest and run the admin API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			app := c.newApp()
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

// newApp builds the server for the manifest chosen by --manifest, which
// already defaults from PROTOCOL_MANIFEST.
func (c *cli) newApp(extra ...fx.Option) *fx.App {
	return fx.New(append([]fx.Option{
		serverfx.Module(
			serverfx.WithManifest(c.manifest),
			serverfx.WithSchemes(c.schemes),
		),
	}, extra...)...)
}
