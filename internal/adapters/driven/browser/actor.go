package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// queueDepth bounds how many operations may wait for the loop.
const queueDepth = 64

// Op is a unit of work run on the actor's goroutine with exclusive access
// to the resource.
type Op[R any] func(ctx context.Context, res R) (any, error)

// ResourceHooks tell the actor how to manage the resource it owns.
type ResourceHooks[R any] struct {
	// Open acquires the resource. Called lazily on first use and again
	// whenever Alive reports the previous one as gone.
	Open func(ctx context.Context) (R, error)

	// Alive reports whether a held resource is still usable.
	Alive func(res R) bool

	// Release frees the resource. Errors are logged and swallowed.
	Release func(res R) error
}

type job[R any] struct {
	ctx   context.Context
	op    Op[R]
	reply chan result
}

type result struct {
	value any
	err   error
}

// Actor serialises operations onto a single goroutine that exclusively
// owns a resource. Operations run in FIFO submission order.
type Actor[R any] struct {
	hooks       ResourceHooks[R]
	hardTimeout time.Duration

	jobs chan job[R]
	quit chan struct{}
	done chan struct{}

	startOnce sync.Once
	closeOnce sync.Once

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewActor creates an actor. The goroutine starts on the first Submit.
func NewActor[R any](hooks ResourceHooks[R], hardTimeout time.Duration) *Actor[R] {
	return &Actor[R]{
		hooks:       hooks,
		hardTimeout: hardTimeout,
		jobs:        make(chan job[R], queueDepth),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Submit queues op and blocks until it finishes, ctx is cancelled, or the
// hard timeout elapses. On timeout the operation is abandoned: it keeps
// running on the loop with an expired context, and its result is dropped.
func (a *Actor[R]) Submit(ctx context.Context, op Op[R]) (any, error) {
	if err := a.start(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(a.hardTimeout)
	opCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	j := job[R]{ctx: opCtx, op: op, reply: make(chan result, 1)}
	select {
	case a.jobs <- j:
	case <-a.quit:
		return nil, domain.ErrClosed
	case <-opCtx.Done():
		return nil, a.contextError(ctx)
	}

	select {
	case r := <-j.reply:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, a.timeoutError()
		}
		return r.value, r.err
	case <-a.done:
		select {
		case r := <-j.reply:
			return r.value, r.err
		default:
			return nil, domain.ErrClosed
		}
	case <-opCtx.Done():
		return nil, a.contextError(ctx)
	}
}

// Close stops the loop and releases the resource. Pending operations
// fail with ErrClosed. Safe to call more than once.
func (a *Actor[R]) Close() {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		started := a.started
		a.mu.Unlock()

		close(a.quit)
		if !started {
			return
		}

		select {
		case <-a.done:
		case <-time.After(a.hardTimeout):
			logger.Warn("browser: loop still busy after %s, abandoning it", a.hardTimeout)
		}
	})
}

func (a *Actor[R]) start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return domain.ErrClosed
	}
	a.startOnce.Do(func() {
		a.started = true
		go a.loop()
	})
	return nil
}

func (a *Actor[R]) contextError(caller context.Context) error {
	if err := caller.Err(); err != nil {
		return err
	}
	return a.timeoutError()
}

func (a *Actor[R]) timeoutError() error {
	return fmt.Errorf("%w: browser operation exceeded %s", domain.ErrTimeout, a.hardTimeout)
}

// loop owns the resource for its whole life.
func (a *Actor[R]) loop() {
	defer close(a.done)

	var (
		res  R
		held bool
	)
	release := func() {
		if !held {
			return
		}
		if err := a.hooks.Release(res); err != nil {
			logger.Debug("browser: release: %v", err)
		}
		var zero R
		res, held = zero, false
	}
	defer release()

	run := func(j job[R]) {
		if err := j.ctx.Err(); err != nil {
			j.reply <- result{err: err}
			return
		}
		if held && !a.hooks.Alive(res) {
			logger.Warn("browser: connection lost, relaunching")
			release()
		}
		if !held {
			r, err := a.hooks.Open(j.ctx)
			if err != nil {
				j.reply <- result{err: fmt.Errorf("%w: launch: %v", domain.ErrDriver, err)}
				return
			}
			res, held = r, true
		}
		v, err := a.safeRun(j, res)
		j.reply <- result{value: v, err: err}
	}

	for {
		select {
		case j := <-a.jobs:
			run(j)
		case <-a.quit:
			for {
				select {
				case j := <-a.jobs:
					j.reply <- result{err: domain.ErrClosed}
				default:
					return
				}
			}
		}
	}
}

// safeRun converts a panicking operation into a driver error so the loop
// survives. rod reports many failures by panicking from Must* helpers.
func (a *Actor[R]) safeRun(j job[R], res R) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", domain.ErrDriver, p)
		}
	}()
	return j.op(j.ctx, res)
}

// Do submits a typed operation and asserts its result type.
func Do[T, R any](ctx context.Context, a *Actor[R], op func(ctx context.Context, res R) (T, error)) (T, error) {
	var zero T
	v, err := a.Submit(ctx, func(ctx context.Context, res R) (any, error) {
		return op(ctx, res)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return t, nil
}
