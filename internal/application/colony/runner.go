package colony

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/application/scheduler"
)

// Environment is the world the colony acts on. Step advances it one tick.
type Environment interface {
	Tick() uint64
	Step()
}

// MemoryFlusher writes dirty mission memory to durable storage
type MemoryFlusher interface {
	Flush(ctx context.Context, tick uint64) (int, error)
}

// TickObserver is told about every finished tick, after the world stepped
type TickObserver interface {
	ObserveTick(report scheduler.TickReport) error
}

// Runner drives the scheduler and the environment in lockstep
type Runner struct {
	scheduler     *scheduler.TickScheduler
	env           Environment
	flusher       MemoryFlusher
	flushInterval uint64
	observers     []TickObserver
	limiter       *rate.Limiter
}

// Option configures a Runner
type Option func(*Runner)

// WithMemoryFlusher flushes mission memory every interval ticks and on exit
func WithMemoryFlusher(f MemoryFlusher, interval int) Option {
	return func(r *Runner) {
		r.flusher = f
		r.flushInterval = uint64(max(interval, 1))
	}
}

// WithObserver adds a tick observer
func WithObserver(o TickObserver) Option {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

// WithTickInterval paces ticks; zero runs them back to back
func WithTickInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// NewRunner creates a runner
func NewRunner(s *scheduler.TickScheduler, env Environment, opts ...Option) *Runner {
	r := &Runner{scheduler: s, env: env}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Step runs one tick of missions then advances the environment
func (r *Runner) Step(ctx context.Context) (scheduler.TickReport, error) {
	logger := common.LoggerFromContext(ctx)
	tick := r.env.Tick()

	report, err := r.scheduler.RunTick(ctx, tick)
	if err != nil {
		return report, err
	}
	r.env.Step()

	for _, o := range r.observers {
		if err := o.ObserveTick(report); err != nil {
			logger.Log(common.LevelWarning, fmt.Sprintf("tick observer failed: %v", err), map[string]interface{}{"tick": tick})
		}
	}

	if r.flusher != nil && (tick+1)%r.flushInterval == 0 {
		r.flush(ctx, tick)
	}
	return report, nil
}

// Run steps until maxTicks ticks ran (0 means no limit) or ctx is cancelled.
// Cancellation is a normal stop. Returns the number of ticks run.
func (r *Runner) Run(ctx context.Context, maxTicks int) (int, error) {
	ran := 0
	defer func() {
		if r.flusher != nil {
			r.flush(context.WithoutCancel(ctx), r.env.Tick())
		}
	}()

	for maxTicks <= 0 || ran < maxTicks {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return ran, stopErr(ctx, err)
			}
		}
		if _, err := r.Step(ctx); err != nil {
			return ran, stopErr(ctx, err)
		}
		ran++
	}
	return ran, nil
}

func (r *Runner) flush(ctx context.Context, tick uint64) {
	logger := common.LoggerFromContext(ctx)
	written, err := r.flusher.Flush(ctx, tick)
	if err != nil {
		logger.Log(common.LevelError, fmt.Sprintf("failed to flush mission memory: %v", err), map[string]interface{}{"tick": tick})
		return
	}
	if written > 0 {
		logger.Log(common.LevelDebug, fmt.Sprintf("flushed %d memory namespaces", written), map[string]interface{}{"tick": tick})
	}
}

// stopErr hides the error caused by the caller cancelling ctx
func stopErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}
