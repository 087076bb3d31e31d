// pkg/protocol/router.go
package protocol

import (
	"context"
	"sync"

	"github.com/joeydtaylor/steeze-protocol/pkg/liveness"
	"go.uber.org/zap"
)

// OpKind is a routing-context operation.
type OpKind int

const (
	OpRegister OpKind = iota + 1
	OpUnregister
	OpIntercept
	OpUnintercept
	OpIsHandled
	OpResolve
	OpList
)

func (o OpKind) String() string {
	switch o {
	case OpRegister:
		return "register"
	case OpUnregister:
		return "unregister"
	case OpIntercept:
		return "intercept"
	case OpUnintercept:
		return "unintercept"
	case OpIsHandled:
		return "is_handled"
	case OpResolve:
		return "resolve"
	case OpList:
		return "list"
	default:
		return "unknown"
	}
}

// Op is one message to the routing context.
type Op struct {
	Kind    OpKind
	Scheme  string
	Handler Handler
}

// Reply is the routing context's answer to an Op.
type Reply struct {
	Code        Code
	Handled     bool
	Resolution  Resolution
	Registered  []string
	Intercepted []string
}

type message struct {
	op    Op
	reply chan Reply
}

// Router is the routing context: a single goroutine that exclusively owns a
// Table and serves it one message at a time.
type Router struct {
	table *Table
	inbox chan message
	live  *liveness.Token
	log   *zap.Logger

	startOnce sync.Once
	stopped   chan struct{}
}

func NewRouter(table *Table, log *zap.Logger) *Router {
	if table == nil {
		table = NewTable()
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{
		inbox:   make(chan message, 64),
		live:    liveness.New(),
		log:     log.Named("routing"),
		stopped: make(chan struct{}),
	}
	// Debug-log released entries. The caller's WithReleaseHook is left alone;
	// a later router on the same table replaces this observer.
	table.observer = func(tbl, s string, h Handler) {
		r.log.Debug("entry released", zap.String("table", tbl), zap.String("scheme", s), zap.Stringer("kind", h.Kind()))
	}
	r.table = table
	return r
}

// Liveness reports whether the routing context can still accept work.
func (r *Router) Liveness() *liveness.Token { return r.live }

func (r *Router) Start() {
	r.startOnce.Do(func() { go r.run() })
}

// Stop shuts the routing context down. Messages still queued are dropped;
// their senders observe the router as gone.
func (r *Router) Stop(ctx context.Context) error {
	r.live.Invalidate()
	// never started: nothing to wait for
	r.startOnce.Do(func() { close(r.stopped) })
	select {
	case <-r.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Router) run() {
	defer close(r.stopped)
	r.log.Info("routing context started")
	for {
		select {
		case <-r.live.Done():
			r.log.Info("routing context stopped")
			return
		case m := <-r.inbox:
			m.reply <- r.handle(m.op)
		}
	}
}

func (r *Router) handle(op Op) Reply {
	var rep Reply
	switch op.Kind {
	case OpRegister:
		rep.Code = r.table.Register(op.Scheme, op.Handler)
	case OpUnregister:
		rep.Code = r.table.Unregister(op.Scheme)
	case OpIntercept:
		rep.Code = r.table.Intercept(op.Scheme, op.Handler)
	case OpUnintercept:
		rep.Code = r.table.Unintercept(op.Scheme)
	case OpIsHandled:
		rep.Handled = r.table.IsHandled(op.Scheme)
	case OpResolve:
		rep.Resolution = r.table.Resolve(op.Scheme)
	case OpList:
		rep.Registered, rep.Intercepted = r.table.Schemes()
	default:
		rep.Code = Fail
	}
	switch op.Kind {
	case OpRegister, OpUnregister, OpIntercept, OpUnintercept:
		observeOp(op.Kind, rep.Code)
		h, i := r.table.Counts()
		setEntries(h, i)
		r.log.Debug("table mutated",
			zap.Stringer("op", op.Kind),
			zap.String("scheme", op.Scheme),
			zap.Stringer("code", rep.Code),
		)
	}
	return rep
}

// Post sends op to the routing context and waits for its reply. It returns
// false when the routing context is gone or ctx ends first; the caller then
// has no reply to relay.
func (r *Router) Post(ctx context.Context, op Op) (Reply, bool) {
	m := message{op: op, reply: make(chan Reply, 1)}
	select {
	case <-r.live.Done():
		return Reply{}, false
	case <-ctx.Done():
		return Reply{}, false
	case r.inbox <- m:
	}
	select {
	case rep := <-m.reply:
		return rep, true
	case <-r.live.Done():
		// The router may have answered just before shutting down.
		select {
		case rep := <-m.reply:
			return rep, true
		default:
			return Reply{}, false
		}
	case <-ctx.Done():
		return Reply{}, false
	}
}

// Resolve is the lookup the request engine uses for an incoming scheme.
func (r *Router) Resolve(ctx context.Context, s string) (Resolution, bool) {
	rep, ok := r.Post(ctx, Op{Kind: OpResolve, Scheme: s})
	return rep.Resolution, ok
}

// ResolveURL resolves the scheme of rawURL.
func (r *Router) ResolveURL(ctx context.Context, rawURL string) (Resolution, bool) {
	s, ok := SchemeOf(rawURL)
	if !ok {
		return Resolution{}, false
	}
	return r.Resolve(ctx, s)
}
