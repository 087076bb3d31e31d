package auth

import (
	"time"

	"go.uber.org/zap"
)

// Config holds the bearer-token settings for the admin surface.
type Config struct {
	Secret    []byte // HS256 key; empty disables enforcement
	Issuer    string
	Audience  string
	Leeway    time.Duration
	AdminRole string
	DevBypass bool
}

type Middleware struct {
	cfg Config
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return &Middleware{cfg: cfg, log: log.Named("auth")}
}

// Enabled reports whether requests must carry a valid token.
func (m *Middleware) Enabled() bool { return len(m.cfg.Secret) > 0 }
