// pkg/core/load.go
package core

import (
	"fmt"
	"os"

	"github.com/joeydtaylor/steeze-protocol/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
)

func LoadConfig(path string) (manifest.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return manifest.Config{}, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes and validates a manifest, including that every named
// handler it references has been registered with a matching kind.
func ParseConfig(b []byte) (manifest.Config, error) {
	var cfg manifest.Config
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return manifest.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, err
	}
	if err := checkNamedHandlers(cfg); err != nil {
		return manifest.Config{}, err
	}
	return cfg, nil
}

func checkNamedHandlers(cfg manifest.Config) error {
	var err error
	check := func(section string, specs []manifest.ProtocolSpec) {
		for i, ps := range specs {
			if ps.Handler == "" {
				continue
			}
			if _, e := BuildHandler(ps); e != nil {
				err = multierr.Append(err, fmt.Errorf("%s %d (%s): %w", section, i, ps.Scheme, e))
			}
		}
	}
	check("protocol", cfg.Protocols)
	check("intercept", cfg.Intercepts)
	return err
}
