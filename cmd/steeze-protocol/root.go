package main

import (
	"os"

	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
	"github.com/spf13/cobra"
)

type cli struct {
	schemes  *scheme.Table
	manifest string
	switches map[string]*string
}

func newRootCmd(t *scheme.Table) *cobra.Command {
	_, root := newCLI(t)
	return root
}

func newCLI(t *scheme.Table) (*cli, *cobra.Command) {
	c := &cli{schemes: t, switches: map[string]*string{}}

	root := &cobra.Command{
		Use:   "steeze-protocol",
		Short: "Custom URL-scheme protocol registry",
		Long: `steeze-protocol installs the schemes, protocols and interceptors listed in a
TOML manifest and exposes them through a read-only admin API.

Scheme switches (--standard-schemes and friends) are how a parent passes its
scheme privileges to a child process; they are applied before the manifest.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return c.inherit() },
	}

	def := os.Getenv("PROTOCOL_MANIFEST")
	if def == "" {
		def = "manifest.toml"
	}
	root.PersistentFlags().StringVarP(&c.manifest, "manifest", "m", def, "manifest path (env PROTOCOL_MANIFEST)")
	for _, sw := range scheme.Switches {
		c.switches[sw] = root.PersistentFlags().String(sw, "", "comma-separated schemes inherited from a parent process")
	}

	root.AddCommand(c.serveCmd(), c.switchesCmd(), c.checkCmd())
	return c, root
}

func (c *cli) inherit() error {
	var args []string
	for _, sw := range scheme.Switches {
		if v := *c.switches[sw]; v != "" {
			args = append(args, "--"+sw+"="+v)
		}
	}
	if len(args) == 0 {
		return nil
	}
	return c.schemes.Inherit(args)
}
