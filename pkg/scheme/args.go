// pkg/scheme/args.go
package scheme

import (
	"strings"
)

// Args encodes every active switch as "--<switch>=<a,b,...>" so a spawned
// child can re-declare identical privileges. Privilege state is not shared
// across processes any other way.
func (t *Table) Args() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []string
	for _, sw := range Switches {
		set, ok := t.switches[sw]
		if !ok || len(set.order) == 0 {
			continue
		}
		out = append(out, "--"+sw+"="+strings.Join(set.order, ","))
	}
	return out
}

// ParseArgs extracts scheme switches from a process argument list. Unknown
// arguments are ignored; a repeated switch accumulates.
func ParseArgs(args []string) map[string][]string {
	out := map[string][]string{}
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			continue
		}
		a = strings.TrimLeft(a, "-")
		name, val, hasVal := strings.Cut(a, "=")
		if _, known := optionsForSwitch(name); !known {
			continue
		}
		if !hasVal {
			// "--standard-schemes app,foo"
			if i+1 >= len(args) {
				continue
			}
			i++
			val = args[i]
		}
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out[name] = append(out[name], s)
			}
		}
	}
	return out
}

// Inherit re-declares the privileges carried by args. Children call it during
// startup, before MarkReady.
func (t *Table) Inherit(args []string) error {
	parsed := ParseArgs(args)
	for _, sw := range Switches {
		schemes, ok := parsed[sw]
		if !ok {
			continue
		}
		opts, _ := optionsForSwitch(sw)
		if err := t.Declare(schemes, opts); err != nil {
			return err
		}
	}
	return nil
}
