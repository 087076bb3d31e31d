// core/handlers.go
package core

import (
	"sync"

	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
)

var (
	handlersMu sync.RWMutex
	registry   = map[string]protocol.Handler{}
)

// Register makes a handler available under a name referenced in manifest.toml
// (the `handler` field of a [[protocol]] or [[intercept]] entry).
func Register(name string, h protocol.Handler) {
	if name == "" || protocol.IsNil(h) {
		panic("core: handler name and handler required")
	}
	handlersMu.Lock()
	defer handlersMu.Unlock()
	registry[name] = h
}

// Lookup retrieves a registered handler by name.
func Lookup(name string) (protocol.Handler, bool) {
	handlersMu.RLock()
	defer handlersMu.RUnlock()
	h, ok := registry[name]
	return h, ok
}
