// pkg/dispatch/loop.go
package dispatch

import (
	"context"
	"sync"

	"github.com/joeydtaylor/steeze-protocol/pkg/liveness"
	"go.uber.org/zap"
)

// Loop is the control context: one goroutine running posted tasks in FIFO
// order. Completions are always delivered here.
type Loop struct {
	name string
	log  *zap.Logger

	mu    sync.Mutex
	queue []func()
	wake  chan struct{}

	live      *liveness.Token
	startOnce sync.Once
	stopped   chan struct{}
}

func NewLoop(name string, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		name:    name,
		log:     log.Named(name),
		wake:    make(chan struct{}, 1),
		live:    liveness.New(),
		stopped: make(chan struct{}),
	}
}

func (l *Loop) Start() {
	l.startOnce.Do(func() { go l.run() })
}

// Post queues task without blocking. It returns false once the loop is stopped.
func (l *Loop) Post(task func()) bool {
	if task == nil || !l.live.Alive() {
		return false
	}
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Stop ends the loop; queued tasks that have not started are dropped.
func (l *Loop) Stop(ctx context.Context) error {
	l.live.Invalidate()
	l.startOnce.Do(func() { close(l.stopped) })
	select {
	case <-l.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) Liveness() *liveness.Token { return l.live }

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, true
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		for {
			if !l.live.Alive() {
				return
			}
			task, ok := l.next()
			if !ok {
				break
			}
			l.runTask(task)
		}
		select {
		case <-l.wake:
		case <-l.live.Done():
			return
		}
	}
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			l.log.Error("control task panicked", zap.Any("panic", rec))
		}
	}()
	task()
}
