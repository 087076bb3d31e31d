// pkg/dispatch/dispatcher.go
package dispatch

import (
	"context"

	"github.com/google/uuid"
	"github.com/joeydtaylor/steeze-protocol/pkg/liveness"
	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
	"go.uber.org/zap"
)

// Completion receives nil on success or a *protocol.Error. It is optional.
type Completion func(err error)

// BoolCallback receives the answer to a query.
type BoolCallback func(handled bool)

// Dispatcher carries table operations from the control context to the
// routing context and relays the outcome back.
type Dispatcher struct {
	control *Loop
	owner   *liveness.Token
	log     *zap.Logger
}

// New builds a Dispatcher whose completions run on control for as long as
// owner is alive.
func New(control *Loop, owner *liveness.Token, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{control: control, owner: owner, log: log.Named("dispatch")}
}

// Mutate runs op on the routing context. The caller is never blocked: a
// continuation goroutine waits for the reply and posts done to the control
// loop. If the routing context or the owner is gone, done is never called.
func (d *Dispatcher) Mutate(target *protocol.Router, op protocol.Op, done Completion) {
	id := uuid.NewString()
	log := d.log.With(
		zap.String("opId", id),
		zap.Stringer("op", op.Kind),
		zap.String("scheme", op.Scheme),
	)
	log.Debug("dispatch")

	go func() {
		rep, ok := target.Post(context.Background(), op)
		if !ok {
			log.Debug("routing context unreachable; completion dropped")
			return
		}
		log.Debug("routing reply", zap.Stringer("code", rep.Code))
		if done == nil {
			return
		}
		err := rep.Code.Err(op.Kind, op.Scheme)
		d.relay(log, func() { done(err) })
	}()
}

// Query asks whether scheme is handled. It never fails: an unreachable
// routing context reports false.
func (d *Dispatcher) Query(target *protocol.Router, scheme string, cb BoolCallback) {
	go func() {
		rep, ok := target.Post(context.Background(), protocol.Op{Kind: protocol.OpIsHandled, Scheme: scheme})
		handled := ok && rep.Handled
		if cb == nil {
			return
		}
		d.relay(d.log, func() { cb(handled) })
	}()
}

func (d *Dispatcher) relay(log *zap.Logger, fn func()) {
	if !d.owner.Alive() {
		log.Debug("owner gone; completion dropped")
		return
	}
	posted := d.control.Post(func() {
		// the owner can go away while the task waits in the queue
		if d.owner.Alive() {
			fn()
		}
	})
	if !posted {
		log.Debug("control context stopped; completion dropped")
	}
}
