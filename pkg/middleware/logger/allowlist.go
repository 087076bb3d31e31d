package logger

import (
	"strings"
	"sync"
)

var (
	quietMu    sync.RWMutex
	quietPaths = map[string]struct{}{
		"/ping":    {},
		"/metrics": {},
	}
)

// AddQuietPaths extends the set of paths that are not access-logged.
func AddQuietPaths(paths ...string) {
	quietMu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			quietPaths[p] = struct{}{}
		}
	}
	quietMu.Unlock()
}

func isQuiet(path string) bool {
	quietMu.RLock()
	_, ok := quietPaths[path]
	quietMu.RUnlock()
	return ok
}
