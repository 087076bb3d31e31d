package manifest

import (
	"errors"

	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
)

// SchemeSpec declares privileges for a batch of schemes. Unset flags default
// to true.
type SchemeSpec struct {
	Names               []string `toml:"names"`
	Standard            *bool    `toml:"standard"`
	Secure              *bool    `toml:"secure"`
	BypassCSP           *bool    `toml:"bypass_csp"`
	AllowServiceWorkers *bool    `toml:"allow_service_workers"`
	SupportFetchAPI     *bool    `toml:"support_fetch_api"`
	CORSEnabled         *bool    `toml:"cors_enabled"`
}

func (s *SchemeSpec) normalize() error {
	if len(s.Names) == 0 {
		return errors.New("names is required")
	}
	for i, n := range s.Names {
		norm, ok := scheme.Normalize(n)
		if !ok {
			return errors.New("invalid scheme name " + `"` + n + `"`)
		}
		s.Names[i] = norm
	}
	return nil
}

// Options fills unset flags from scheme.DefaultOptions.
func (s SchemeSpec) Options() scheme.Options {
	o := scheme.DefaultOptions()
	pick := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	pick(&o.Standard, s.Standard)
	pick(&o.Secure, s.Secure)
	pick(&o.BypassCSP, s.BypassCSP)
	pick(&o.AllowServiceWorkers, s.AllowServiceWorkers)
	pick(&o.SupportFetchAPI, s.SupportFetchAPI)
	pick(&o.CORSEnabled, s.CORSEnabled)
	return o
}
