// pkg/protocol/table.go
package protocol

import (
	"net/url"
	"sort"

	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
)

// DefaultBuiltIns are the schemes the network stack handles on its own.
var DefaultBuiltIns = []string{"about", "blob", "data", "file", "filesystem", "http", "https", "ws", "wss"}

// Source says which layer owns a scheme when a request arrives.
type Source int

const (
	SourceNone Source = iota
	SourceBuiltIn
	SourceRegistered
	SourceIntercepted
)

func (s Source) String() string {
	switch s {
	case SourceBuiltIn:
		return "builtin"
	case SourceRegistered:
		return "registered"
	case SourceIntercepted:
		return "intercepted"
	default:
		return "none"
	}
}

// Resolution is the answer to "who handles this scheme". Handler is nil for
// SourceBuiltIn and SourceNone.
type Resolution struct {
	Scheme  string
	Source  Source
	Handler Handler
}

// ReleaseFunc observes an entry leaving the table (replaced or removed).
type ReleaseFunc func(table, scheme string, h Handler)

// Table maps schemes to handlers and interceptors. It has no lock: only the
// routing context that owns it may call its methods.
type Table struct {
	handlers     map[string]Handler
	interceptors map[string]Handler
	builtIn      map[string]struct{}
	onRelease    ReleaseFunc
	observer     ReleaseFunc // set by the owning Router
}

type TableOption func(*Table)

// WithBuiltIns replaces the built-in scheme set.
func WithBuiltIns(schemes ...string) TableOption {
	return func(t *Table) {
		t.builtIn = make(map[string]struct{}, len(schemes))
		for _, s := range schemes {
			if n, ok := scheme.Normalize(s); ok {
				t.builtIn[n] = struct{}{}
			}
		}
	}
}

func WithReleaseHook(fn ReleaseFunc) TableOption {
	return func(t *Table) { t.onRelease = fn }
}

func NewTable(opts ...TableOption) *Table {
	t := &Table{
		handlers:     make(map[string]Handler),
		interceptors: make(map[string]Handler),
	}
	WithBuiltIns(DefaultBuiltIns...)(t)
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Table) release(table, s string, h Handler) {
	if t.observer != nil {
		t.observer(table, s, h)
	}
	if t.onRelease != nil {
		t.onRelease(table, s, h)
	}
}

// Register installs h for s, replacing any existing entry. It never reports
// Registered: registration is replace, not insert-or-fail.
func (t *Table) Register(s string, h Handler) Code {
	n, ok := scheme.Normalize(s)
	if !ok || IsNil(h) {
		return Fail
	}
	if old, ok := t.handlers[n]; ok {
		t.release("handler", n, old)
	}
	t.handlers[n] = h
	return OK
}

func (t *Table) Unregister(s string) Code {
	n, _ := scheme.Normalize(s)
	old, ok := t.handlers[n]
	if !ok {
		return NotRegistered
	}
	delete(t.handlers, n)
	t.release("handler", n, old)
	return OK
}

// Intercept installs h as the interceptor for s unless one already exists.
func (t *Table) Intercept(s string, h Handler) Code {
	n, ok := scheme.Normalize(s)
	if !ok || IsNil(h) {
		return Fail
	}
	if _, exists := t.interceptors[n]; exists {
		return Intercepted
	}
	t.interceptors[n] = h
	return OK
}

func (t *Table) Unintercept(s string) Code {
	n, _ := scheme.Normalize(s)
	old, ok := t.interceptors[n]
	if !ok {
		return NotIntercepted
	}
	delete(t.interceptors, n)
	t.release("interceptor", n, old)
	return OK
}

// IsHandled is true for registered and built-in schemes. Interceptors alone
// do not make a scheme handled.
func (t *Table) IsHandled(s string) bool {
	n, ok := scheme.Normalize(s)
	if !ok {
		return false
	}
	if _, ok := t.handlers[n]; ok {
		return true
	}
	_, ok = t.builtIn[n]
	return ok
}

// Resolve applies the precedence interceptor > registered > built-in.
func (t *Table) Resolve(s string) Resolution {
	n, ok := scheme.Normalize(s)
	if !ok {
		return Resolution{Scheme: s}
	}
	if h, ok := t.interceptors[n]; ok {
		return Resolution{Scheme: n, Source: SourceIntercepted, Handler: h}
	}
	if h, ok := t.handlers[n]; ok {
		return Resolution{Scheme: n, Source: SourceRegistered, Handler: h}
	}
	if _, ok := t.builtIn[n]; ok {
		return Resolution{Scheme: n, Source: SourceBuiltIn}
	}
	return Resolution{Scheme: n}
}

// Counts returns the number of installed handlers and interceptors.
func (t *Table) Counts() (handlers, interceptors int) {
	return len(t.handlers), len(t.interceptors)
}

// Schemes lists registered and intercepted schemes, sorted.
func (t *Table) Schemes() (registered, intercepted []string) {
	for s := range t.handlers {
		registered = append(registered, s)
	}
	for s := range t.interceptors {
		intercepted = append(intercepted, s)
	}
	sort.Strings(registered)
	sort.Strings(intercepted)
	return registered, intercepted
}

// SchemeOf returns the normalized scheme of rawURL.
func SchemeOf(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	return scheme.Normalize(u.Scheme)
}
