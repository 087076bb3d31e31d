// pkg/scheme/table.go
package scheme

import (
	"sync"
	"sync/atomic"
)

// orderedSet keeps insertion order so switch values and listings are stable.
type orderedSet struct {
	order []string
	index map[string]struct{}
}

func (s *orderedSet) add(names ...string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	for _, n := range names {
		if _, ok := s.index[n]; ok {
			continue
		}
		s.index[n] = struct{}{}
		s.order = append(s.order, n)
	}
}

func (s *orderedSet) has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *orderedSet) list() []string {
	return append([]string(nil), s.order...)
}

// Table is the process-wide scheme privilege registry. It is written during
// startup and read by the URL-parsing layer for the rest of the process.
type Table struct {
	ready atomic.Bool

	mu            sync.RWMutex
	standard      orderedSet
	webSafe       orderedSet
	secure        orderedSet
	cspBypass     orderedSet
	cors          orderedSet
	fetch         orderedSet
	serviceWorker orderedSet
	switches      map[string]*orderedSet
}

func NewTable() *Table {
	return &Table{switches: make(map[string]*orderedSet)}
}

// Default is the table the package-level functions act on.
var Default = NewTable()

// Declare grants opts to every scheme in schemes. It fails without touching
// the table when called after MarkReady or when any name is invalid.
func (t *Table) Declare(schemes []string, opts Options) error {
	if t.ready.Load() {
		return ErrDeclaredAfterReady
	}
	names := make([]string, 0, len(schemes))
	for _, raw := range schemes {
		n, ok := Normalize(raw)
		if !ok {
			return invalidScheme(raw)
		}
		names = append(names, n)
	}
	if len(names) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// MarkReady may have raced the validation above.
	if t.ready.Load() {
		return ErrDeclaredAfterReady
	}

	var on []string
	for _, n := range names {
		if opts.Standard {
			t.standard.add(n)
			t.webSafe.add(n)
		}
		if opts.Secure {
			t.secure.add(n)
		}
		if opts.BypassCSP {
			t.cspBypass.add(n)
		}
		if opts.CORSEnabled {
			t.cors.add(n)
		}
		if opts.SupportFetchAPI {
			// recorded for children; nothing enforces it yet
			t.fetch.add(n)
		}
	}
	if opts.Standard {
		on = append(on, SwitchStandard)
	}
	if opts.Secure {
		on = append(on, SwitchSecure)
	}
	if opts.BypassCSP {
		on = append(on, SwitchBypassCSP)
	}
	if opts.CORSEnabled {
		on = append(on, SwitchCORS)
	}
	if opts.SupportFetchAPI {
		on = append(on, SwitchFetch)
	}
	// Service workers are granted to the whole batch, not per scheme.
	if opts.AllowServiceWorkers {
		t.serviceWorker.add(names...)
		on = append(on, SwitchServiceWorker)
	}

	for _, sw := range on {
		set, ok := t.switches[sw]
		if !ok {
			set = &orderedSet{}
			t.switches[sw] = set
		}
		set.add(names...)
	}
	return nil
}

// MarkReady freezes the table.
func (t *Table) MarkReady() { t.ready.Store(true) }

func (t *Table) IsReady() bool { return t.ready.Load() }

// StandardSchemes returns the custom standard schemes in declaration order.
func (t *Table) StandardSchemes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.standard.list()
}

func (t *Table) lookup(set *orderedSet, name string) bool {
	n, ok := Normalize(name)
	if !ok {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return set.has(n)
}

func (t *Table) IsStandard(name string) bool      { return t.lookup(&t.standard, name) }
func (t *Table) IsWebSafe(name string) bool       { return t.lookup(&t.webSafe, name) }
func (t *Table) IsSecure(name string) bool        { return t.lookup(&t.secure, name) }
func (t *Table) IsCSPBypassing(name string) bool  { return t.lookup(&t.cspBypass, name) }
func (t *Table) IsCORSEnabled(name string) bool   { return t.lookup(&t.cors, name) }
func (t *Table) IsFetchEnabled(name string) bool  { return t.lookup(&t.fetch, name) }
func (t *Table) IsServiceWorkerScheme(name string) bool {
	return t.lookup(&t.serviceWorker, name)
}

// Snapshot is a point-in-time copy of every privilege set.
type Snapshot struct {
	Ready         bool     `json:"ready"`
	Standard      []string `json:"standard"`
	WebSafe       []string `json:"webSafe"`
	Secure        []string `json:"secure"`
	BypassCSP     []string `json:"bypassCSP"`
	CORSEnabled   []string `json:"corsEnabled"`
	FetchAPI      []string `json:"supportFetchAPI"`
	ServiceWorker []string `json:"allowServiceWorkers"`
}

func (t *Table) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		Ready:         t.ready.Load(),
		Standard:      t.standard.list(),
		WebSafe:       t.webSafe.list(),
		Secure:        t.secure.list(),
		BypassCSP:     t.cspBypass.list(),
		CORSEnabled:   t.cors.list(),
		FetchAPI:      t.fetch.list(),
		ServiceWorker: t.serviceWorker.list(),
	}
}

// Package-level shorthands for Default.

func Declare(schemes []string, opts Options) error { return Default.Declare(schemes, opts) }
func MarkReady()                                   { Default.MarkReady() }
func StandardSchemes() []string                    { return Default.StandardSchemes() }
func Args() []string                               { return Default.Args() }
