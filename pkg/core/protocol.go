// pkg/core/protocol.go
package core

import (
	"github.com/joeydtaylor/steeze-protocol/pkg/dispatch"
	"github.com/joeydtaylor/steeze-protocol/pkg/liveness"
	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
	"go.uber.org/zap"
)

// Completion is called on the control loop with nil on success or a
// *protocol.Error. Passing nil means fire-and-forget.
type Completion = dispatch.Completion

// Protocol is the object embedders talk to. Every table mutation is sent to
// the routing context; the facade never touches the table itself.
type Protocol struct {
	router   *protocol.Router
	schemes  *scheme.Table
	dispatch *dispatch.Dispatcher
	live     *liveness.Token
	log      *zap.Logger
}

// NewProtocol wires a facade to a routing context and the control loop that
// completions run on. A nil schemes table means scheme.Default.
func NewProtocol(router *protocol.Router, control *dispatch.Loop, schemes *scheme.Table, log *zap.Logger) *Protocol {
	if log == nil {
		log = zap.NewNop()
	}
	if schemes == nil {
		schemes = scheme.Default
	}
	live := liveness.New()
	return &Protocol{
		router:   router,
		schemes:  schemes,
		dispatch: dispatch.New(control, live, log),
		live:     live,
		log:      log.Named("protocol"),
	}
}

// Close detaches the facade. Completions still in flight are dropped.
func (p *Protocol) Close() { p.live.Invalidate() }

// RegisterSchemesAsPrivileged declares privileges synchronously. It fails
// with scheme.ErrDeclaredAfterReady once the application is ready.
func (p *Protocol) RegisterSchemesAsPrivileged(schemes []string, opts scheme.Options) error {
	if err := p.schemes.Declare(schemes, opts); err != nil {
		p.log.Warn("scheme privileges rejected", zap.Strings("schemes", schemes), zap.Error(err))
		return err
	}
	p.log.Info("scheme privileges declared", zap.Strings("schemes", schemes), zap.Any("options", opts))
	return nil
}

func (p *Protocol) GetStandardSchemes() []string { return p.schemes.StandardSchemes() }

// RegisterProtocol installs h for scheme, replacing any existing handler.
func (p *Protocol) RegisterProtocol(scheme string, h protocol.Handler, done Completion) {
	p.mutate(protocol.Op{Kind: protocol.OpRegister, Scheme: scheme, Handler: h}, done)
}

// InterceptProtocol shadows scheme with h. It fails with
// protocol.ErrIntercepted when scheme is already intercepted.
func (p *Protocol) InterceptProtocol(scheme string, h protocol.Handler, done Completion) {
	p.mutate(protocol.Op{Kind: protocol.OpIntercept, Scheme: scheme, Handler: h}, done)
}

func (p *Protocol) UnregisterProtocol(scheme string, done Completion) {
	p.mutate(protocol.Op{Kind: protocol.OpUnregister, Scheme: scheme}, done)
}

func (p *Protocol) UninterceptProtocol(scheme string, done Completion) {
	p.mutate(protocol.Op{Kind: protocol.OpUnintercept, Scheme: scheme}, done)
}

// IsProtocolHandled reports, on the control loop, whether scheme has a
// registered or built-in handler. It reports false when the routing context
// is gone.
func (p *Protocol) IsProtocolHandled(scheme string, cb dispatch.BoolCallback) {
	if p.router == nil {
		return
	}
	p.dispatch.Query(p.router, scheme, cb)
}

func (p *Protocol) mutate(op protocol.Op, done Completion) {
	if p.router == nil {
		return
	}
	p.dispatch.Mutate(p.router, op, done)
}

func (p *Protocol) RegisterStringProtocol(scheme string, h protocol.StringHandler, done Completion) {
	p.RegisterProtocol(scheme, h, done)
}

func (p *Protocol) RegisterBufferProtocol(scheme string, h protocol.BufferHandler, done Completion) {
	p.RegisterProtocol(scheme, h, done)
}

func (p *Protocol) RegisterFileProtocol(scheme string, h protocol.FileHandler, done Completion) {
	p.RegisterProtocol(scheme, h, done)
}

func (p *Protocol) RegisterHttpProtocol(scheme string, h protocol.HTTPHandler, done Completion) {
	p.RegisterProtocol(scheme, h, done)
}

func (p *Protocol) RegisterStreamProtocol(scheme string, h protocol.StreamHandler, done Completion) {
	p.RegisterProtocol(scheme, h, done)
}

func (p *Protocol) InterceptStringProtocol(scheme string, h protocol.StringHandler, done Completion) {
	p.InterceptProtocol(scheme, h, done)
}

func (p *Protocol) InterceptBufferProtocol(scheme string, h protocol.BufferHandler, done Completion) {
	p.InterceptProtocol(scheme, h, done)
}

func (p *Protocol) InterceptFileProtocol(scheme string, h protocol.FileHandler, done Completion) {
	p.InterceptProtocol(scheme, h, done)
}

func (p *Protocol) InterceptHttpProtocol(scheme string, h protocol.HTTPHandler, done Completion) {
	p.InterceptProtocol(scheme, h, done)
}

func (p *Protocol) InterceptStreamProtocol(scheme string, h protocol.StreamHandler, done Completion) {
	p.InterceptProtocol(scheme, h, done)
}
