// pkg/scheme/options.go
package scheme

// Options are the privileges granted to every scheme in one Declare call.
type Options struct {
	Standard            bool `toml:"standard" json:"standard"`
	Secure              bool `toml:"secure" json:"secure"`
	BypassCSP           bool `toml:"bypass_csp" json:"bypassCSP"`
	AllowServiceWorkers bool `toml:"allow_service_workers" json:"allowServiceWorkers"`
	SupportFetchAPI     bool `toml:"support_fetch_api" json:"supportFetchAPI"`
	CORSEnabled         bool `toml:"cors_enabled" json:"corsEnabled"`
}

// DefaultOptions grants everything.
func DefaultOptions() Options {
	return Options{
		Standard:            true,
		Secure:              true,
		BypassCSP:           true,
		AllowServiceWorkers: true,
		SupportFetchAPI:     true,
		CORSEnabled:         true,
	}
}

// Startup switch names carried to child processes, one per privilege.
const (
	SwitchStandard      = "standard-schemes"
	SwitchSecure        = "secure-schemes"
	SwitchBypassCSP     = "bypasscsp-schemes"
	SwitchCORS          = "cors-schemes"
	SwitchFetch         = "fetch-schemes"
	SwitchServiceWorker = "service-worker-schemes"
)

// Switches lists every switch in the order Args emits them.
var Switches = []string{
	SwitchStandard,
	SwitchSecure,
	SwitchBypassCSP,
	SwitchCORS,
	SwitchFetch,
	SwitchServiceWorker,
}

// optionsForSwitch is the single-privilege Options a child uses to re-declare one switch.
func optionsForSwitch(name string) (Options, bool) {
	switch name {
	case SwitchStandard:
		return Options{Standard: true}, true
	case SwitchSecure:
		return Options{Secure: true}, true
	case SwitchBypassCSP:
		return Options{BypassCSP: true}, true
	case SwitchCORS:
		return Options{CORSEnabled: true}, true
	case SwitchFetch:
		return Options{SupportFetchAPI: true}, true
	case SwitchServiceWorker:
		return Options{AllowServiceWorkers: true}, true
	}
	return Options{}, false
}
