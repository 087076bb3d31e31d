package auth

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideAuthentication wires env config.
func ProvideAuthentication(log *zap.Logger) *Middleware {
	leeway := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("ADMIN_JWT_LEEWAY_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			leeway = time.Duration(n) * time.Second
		}
	}

	m := New(Config{
		Secret:    []byte(os.Getenv("ADMIN_JWT_SECRET")),
		Issuer:    strings.TrimSpace(os.Getenv("ADMIN_JWT_ISSUER")),
		Audience:  strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE")),
		Leeway:    leeway,
		AdminRole: os.Getenv("ADMIN_ROLE_NAME"),
		DevBypass: os.Getenv("AUTH_DEV_BYPASS") == "true",
	}, log)
	if !m.Enabled() {
		m.log.Warn("ADMIN_JWT_SECRET not set; admin API is unauthenticated")
	}
	return m
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
