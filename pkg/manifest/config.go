package manifest

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config is the top-level manifest.
type Config struct {
	Server     Server         `toml:"server"`
	Schemes    []SchemeSpec   `toml:"scheme"`
	Protocols  []ProtocolSpec `toml:"protocol"`
	Intercepts []ProtocolSpec `toml:"intercept"`
}

// Server configures the admin surface and the routing table.
type Server struct {
	Service        string   `toml:"service"`
	Listen         string   `toml:"listen"`
	BuiltinSchemes []string `toml:"builtin_schemes"` // replaces the default built-in set when non-empty
}

// Validate normalizes every entry and reports all problems at once.
func (c *Config) Validate() error {
	var err error
	for i := range c.Schemes {
		if e := c.Schemes[i].normalize(); e != nil {
			err = multierr.Append(err, fmt.Errorf("scheme %d: %w", i, e))
		}
	}
	err = multierr.Append(err, validateProtocols("protocol", c.Protocols))
	err = multierr.Append(err, validateProtocols("intercept", c.Intercepts))
	return err
}

func validateProtocols(section string, specs []ProtocolSpec) error {
	var err error
	seen := make(map[string]int, len(specs))
	for i := range specs {
		if e := specs[i].normalize(); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s %d: %w", section, i, e))
			continue
		}
		if e := specs[i].validate(); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s %d (%s): %w", section, i, specs[i].Scheme, e))
			continue
		}
		if prev, dup := seen[specs[i].Scheme]; dup {
			err = multierr.Append(err, fmt.Errorf("%s %d: scheme %q already declared by %s %d", section, i, specs[i].Scheme, section, prev))
			continue
		}
		seen[specs[i].Scheme] = i
	}
	return err
}
