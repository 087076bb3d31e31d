package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/steeze-protocol/pkg/adminapi"
	"github.com/joeydtaylor/steeze-protocol/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-protocol/pkg/core"
	"github.com/joeydtaylor/steeze-protocol/pkg/dispatch"
	"github.com/joeydtaylor/steeze-protocol/pkg/manifest"
	"github.com/joeydtaylor/steeze-protocol/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-protocol/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
	"github.com/joeydtaylor/steeze-protocol/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs only; manifest [server].service wins
	ManifestEnv     string // PROTOCOL_MANIFEST
	DefaultManifest string // manifest.toml
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	DefaultListen   string // used when neither env nor manifest set one
	TLSCertEnv      string // SSL_SERVER_CERTIFICATE
	TLSKeyEnv       string // SSL_SERVER_KEY

	schemes *scheme.Table
	log     *zap.Logger
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithDefaultListen(addr string) Option   { return func(c *Config) { c.DefaultListen = addr } }
func WithTLSCertKeyEnv(cert, key string) Option {
	return func(c *Config) { c.TLSCertEnv, c.TLSKeyEnv = cert, key }
}

// WithManifest loads path regardless of ManifestEnv.
func WithManifest(path string) Option {
	return func(c *Config) { c.ManifestEnv, c.DefaultManifest = "", path }
}

// WithSchemes uses t instead of scheme.Default.
func WithSchemes(t *scheme.Table) Option { return func(c *Config) { c.schemes = t } }

// WithLogger replaces the system logger built by the logger module.
func WithLogger(l *zap.Logger) Option { return func(c *Config) { c.log = l } }

func defaultConfig() Config {
	return Config{
		Service:         "steeze-protocol",
		ManifestEnv:     "PROTOCOL_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		DefaultListen:   ":4000",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
		schemes:         scheme.Default,
	}
}

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	options := []fx.Option{
		bundlefx.Module,
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger { return &fxevent.ZapLogger{Logger: l.Named("fx")} }),
		fx.Supply(cfg),
		fx.Provide(
			func() *scheme.Table { return cfg.schemes },
			provideManifest,
			provideRouter,
			provideControl,
			provideProtocol,
			httpx.NewChi,
			fx.Annotate(provideAdmin, fx.ResultTags(`name:"admin"`)),
		),
		fx.Invoke(registerHooks),
	}
	if cfg.log != nil {
		options = append(options, fx.Decorate(func(*zap.Logger) *zap.Logger { return cfg.log }))
	}
	return fx.Options(options...)
}

// ---------- Providers ----------

func provideManifest(cfg Config, log *zap.Logger) (manifest.Config, error) {
	path := envOr(cfg.ManifestEnv, cfg.DefaultManifest)
	man, err := core.LoadConfig(path)
	if err != nil {
		log.Error("manifest load failed", zap.Error(err), zap.String("path", path))
		return manifest.Config{}, err
	}
	log.Info("manifest loaded",
		zap.String("path", path),
		zap.Int("schemes", len(man.Schemes)),
		zap.Int("protocols", len(man.Protocols)),
		zap.Int("intercepts", len(man.Intercepts)),
	)
	return man, nil
}

func provideRouter(lc fx.Lifecycle, man manifest.Config, log *zap.Logger) *protocol.Router {
	var opts []protocol.TableOption
	if len(man.Server.BuiltinSchemes) > 0 {
		opts = append(opts, protocol.WithBuiltIns(man.Server.BuiltinSchemes...))
	}
	r := protocol.NewRouter(protocol.NewTable(opts...), log)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { r.Start(); return nil },
		OnStop:  r.Stop,
	})
	return r
}

func provideControl(lc fx.Lifecycle, log *zap.Logger) *dispatch.Loop {
	l := dispatch.NewLoop("control", log)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { l.Start(); return nil },
		OnStop:  l.Stop,
	})
	return l
}

func provideProtocol(lc fx.Lifecycle, r *protocol.Router, l *dispatch.Loop, t *scheme.Table, log *zap.Logger) *core.Protocol {
	p := core.NewProtocol(r, l, t, log)
	lc.Append(fx.StopHook(p.Close))
	return p
}

type adminDeps struct {
	fx.In
	Router  *protocol.Router
	Schemes *scheme.Table
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler `name:"metrics"`
	R       httpx.Router
	Log     *zap.Logger
}

func provideAdmin(d adminDeps) http.Handler {
	return adminapi.New(adminapi.Deps{
		Router:  d.Router,
		Schemes: d.Schemes,
		Auth:    d.Auth,
		LogMW:   d.LogMW,
		Metrics: d.Metrics,
		Log:     d.Log,
	}, d.R)
}

// ---------- Lifecycle (manifest + admin server) ----------

type serverDeps struct {
	fx.In
	Logger   *zap.Logger
	Protocol *core.Protocol
	Manifest manifest.Config
	Admin    http.Handler `name:"admin"`
}

func registerHooks(lc fx.Lifecycle, cfg Config, d serverDeps) {
	service := cfg.Service
	if d.Manifest.Server.Service != "" {
		service = d.Manifest.Server.Service
	}
	addr := os.Getenv(cfg.ListenEnv)
	if addr == "" {
		addr = d.Manifest.Server.Listen
	}
	if addr == "" {
		addr = cfg.DefaultListen
	}
	cert := os.Getenv(cfg.TLSCertEnv)
	key := os.Getenv(cfg.TLSKeyEnv)
	useTLS := fileExists(cert) && fileExists(key)

	srv := &http.Server{
		Handler:      d.Admin,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if useTLS {
		srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13}
	}
	log := d.Logger.With(zap.String("service", service))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := d.Protocol.Apply(ctx, d.Manifest); err != nil {
				log.Error("manifest apply failed", zap.Error(err))
				return err
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			if useTLS {
				log.Info("admin server starting (TLS)", zap.Stringer("addr", ln.Addr()), zap.String("cert", cert))
			} else {
				log.Info("admin server starting (PLAINTEXT)", zap.Stringer("addr", ln.Addr()))
			}
			go func() {
				var err error
				if useTLS {
					err = srv.ServeTLS(ln, cert, key)
				} else {
					err = srv.Serve(ln)
				}
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("admin server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("admin server stopping")
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if k == "" {
		return def
	}
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
