// Package adminapi is the read-only HTTP view of the protocol registry and
// the scheme privilege table.
package adminapi

import (
	"context"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-protocol/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-protocol/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-protocol/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
	"github.com/joeydtaylor/steeze-protocol/pkg/transport/httpx"
	"go.uber.org/zap"
)

// Deps for New. Auth, LogMW and Metrics are optional. Timeout bounds each
// routing-context query and defaults to 2s.
type Deps struct {
	Router  *protocol.Router
	Schemes *scheme.Table
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler
	Log     *zap.Logger
	Timeout time.Duration
}

type api struct {
	d   Deps
	log *zap.Logger
}

// New mounts the admin routes on r and returns its handler.
func New(d Deps, r httpx.Router) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	if d.Schemes == nil {
		d.Schemes = scheme.Default
	}
	a := &api{d: d, log: d.Log.Named("adminapi")}

	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
	}
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(d.Auth))
	}
	r.Use(metrics.Collect(d.Auth))

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}

	r.Group(func(g httpx.Router) {
		if d.Auth != nil {
			g.Use(d.Auth.Require)
		}
		g.Get("/v1/schemes", http.HandlerFunc(a.schemes))
		g.Get("/v1/schemes/standard", http.HandlerFunc(a.standardSchemes))
		g.Get("/v1/schemes/args", http.HandlerFunc(a.schemeArgs))
		g.Get("/v1/protocols", http.HandlerFunc(a.protocols))
		g.Get("/v1/protocols/{scheme}", http.HandlerFunc(a.protocol))
		g.Get("/v1/resolve", http.HandlerFunc(a.resolve))
	})
	return r.Mux()
}

func (a *api) query(r *http.Request, op protocol.Op) (protocol.Reply, bool) {
	if a.d.Router == nil {
		return protocol.Reply{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), a.d.Timeout)
	defer cancel()
	rep, ok := a.d.Router.Post(ctx, op)
	if !ok {
		a.log.Warn("routing context unavailable", zap.Stringer("op", op.Kind), zap.String("requestId", chimd.GetReqID(r.Context())))
	}
	return rep, ok
}
