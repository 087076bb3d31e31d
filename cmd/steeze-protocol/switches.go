package main

import (
	"fmt"

	"github.com/joeydtaylor/steeze-protocol/pkg/codec"
	"github.com/joeydtaylor/steeze-protocol/pkg/core"
	"github.com/spf13/cobra"
)

func (c *cli) switchesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "switches",
		Short: "Print the startup switches a child process needs to inherit the manifest's scheme privileges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := core.LoadConfig(c.manifest)
			if err != nil {
				return err
			}
			for i, ss := range cfg.Schemes {
				if err := c.schemes.Declare(ss.Names, ss.Options()); err != nil {
					return fmt.Errorf("scheme %d: %w", i, err)
				}
			}
			args := c.schemes.Args()

			out := cmd.OutOrStdout()
			if asJSON {
				if args == nil {
					args = []string{}
				}
				b, err := codec.JSONIndent.Marshal(args)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			}
			for _, a := range args {
				if _, err := fmt.Fprintln(out, a); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as a JSON array")
	return cmd
}
