package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/config"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/graph"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/message"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/metrics"
)

var (
	ErrQueueFull = errors.New("request queue full")
	ErrClosed    = errors.New("engine is shut down")
)

// Engine runs analysis requests on background workers and publishes one
// response per request on Responses. It keeps no state between requests
// other than the current limits.
type Engine struct {
	limits atomic.Pointer[graph.Limits]
	pool   *workerPool[message.Request, message.Response]
	conf   config.EngineConf
	closed atomic.Bool
	runFn  func(context.Context, message.Task) (any, error) // replaced in tests
}

// New creates an Engine using conf and starts its workers. Workers exit when
// ctx is cancelled or Shutdown is called.
func New(ctx context.Context, conf config.EngineConf, lim graph.Limits) *Engine {
	if conf.Workers <= 0 {
		conf.Workers = 1
	}
	if conf.QueueDepth <= 0 {
		conf.QueueDepth = 1
	}
	e := &Engine{conf: conf}
	e.runFn = e.run
	e.limits.Store(&lim)
	e.pool = newWorkerPool[message.Request, message.Response](
		ctx,
		conf.Workers,
		conf.QueueDepth,
		e.Handle,
	)
	return e
}

// SwapLimits atomically replaces the analysis limits (used on hot-reload).
// Requests already running keep the limits they started with.
func (e *Engine) SwapLimits(lim graph.Limits) {
	e.limits.Store(&lim)
}

// Limits returns the current analysis limits.
func (e *Engine) Limits() graph.Limits {
	return *e.limits.Load()
}

// Submit enqueues a request without blocking.
func (e *Engine) Submit(req message.Request) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if !e.pool.Submit(req) {
		metrics.RequestsDropped.Inc()
		return fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.pool.QueueCap())
	}
	metrics.RequestsEnqueued.Inc()
	return nil
}

// Responses delivers one response per submitted request, in completion order.
// It is closed by Shutdown once the workers have stopped.
func (e *Engine) Responses() <-chan message.Response {
	return e.pool.Results()
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Shutdown stops accepting requests, drains the queue and closes Responses.
func (e *Engine) Shutdown() {
	e.closed.Store(true)
	e.pool.Drain()
}

// Handle runs a single request to completion on the calling goroutine.
// It never panics: failures, including panics inside a pass, come back as
// an ERROR response carrying the request id.
func (e *Engine) Handle(ctx context.Context, req message.Request) (resp message.Response) {
	start := time.Now()
	op := opOf(req.Task)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis panicked", "id", req.ID, "op", op, "panic", r)
			resp = message.Failure(req.ID, op, fmt.Errorf("%s failed: %v", op, r), string(debug.Stack()))
		}
		metrics.RequestDuration.WithLabelValues(string(op)).Observe(float64(time.Since(start).Microseconds()) / 1000)
		metrics.RequestsProcessed.WithLabelValues(string(op), string(resp.Type)).Inc()
	}()

	payload, err := e.runFn(ctx, req.Task)
	if err != nil {
		slog.Debug("analysis request failed", "id", req.ID, "op", op, "err", err)
		return message.Failure(req.ID, op, err, "")
	}
	return message.Result(req.ID, op, payload)
}

func (e *Engine) run(ctx context.Context, task message.Task) (any, error) {
	if task == nil {
		return nil, fmt.Errorf("%w: no task", message.ErrUnknownOperation)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if task.Snapshot() == nil {
		return nil, fmt.Errorf("%s: %w", task.Op(), message.ErrMissingTree)
	}

	g := graph.Build(task.Snapshot())
	lim := e.Limits()

	switch t := task.(type) {
	case message.ProcessDialogue:
		r := graph.Analyze(g, lim)
		observeValidation(r.Validation)
		observePaths(r.Paths)
		return r, nil
	case message.ValidateTree:
		v := graph.Validate(g)
		observeValidation(v)
		return v, nil
	case message.CalculatePaths:
		p := graph.EnumeratePaths(g, lim)
		observePaths(p)
		return p, nil
	case message.GeneratePreview:
		depth := lim.PreviewDepth
		if t.MaxDepth != nil {
			depth = *t.MaxDepth
		}
		return graph.BuildPreview(g, depth), nil
	default:
		return nil, fmt.Errorf("%w: %T", message.ErrUnknownOperation, task)
	}
}

func opOf(t message.Task) message.Op {
	if t == nil {
		return "UNKNOWN"
	}
	return t.Op()
}

func observeValidation(v *graph.ValidationResult) {
	metrics.ValidationFindings.WithLabelValues("error").Add(float64(len(v.Errors)))
	metrics.ValidationFindings.WithLabelValues("warning").Add(float64(len(v.Warnings)))
}

func observePaths(p *graph.PathResult) {
	if p.Truncated || p.CyclicPaths > 0 || p.DepthLimited > 0 {
		metrics.PathsTruncated.Inc()
	}
}
