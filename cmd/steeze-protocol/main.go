// steeze-protocol serves a custom URL-scheme registry described by a TOML
// manifest, with a read-only admin API.
package main

import (
	"fmt"
	"os"

	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
)

func main() {
	if err := newRootCmd(scheme.Default).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
