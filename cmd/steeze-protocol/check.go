package main

import (
	"fmt"

	"github.com/joeydtaylor/steeze-protocol/pkg/core"
	"github.com/spf13/cobra"
)

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the manifest without starting anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := core.LoadConfig(c.manifest)
			if err != nil {
				return fmt.Errorf("%s: %w", c.manifest, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d scheme batches, %d protocols, %d intercepts)\n",
				c.manifest, len(cfg.Schemes), len(cfg.Protocols), len(cfg.Intercepts))
			return err
		},
	}
}
