package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/graph"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/message"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/metrics"
)

var ErrTimeout = errors.New("request timed out")

// RemoteError is returned when the engine answered a request with ERROR.
type RemoteError struct {
	Op      message.Op
	ID      string
	Message string
	Stack   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.ID, e.Message)
}

// Client is the calling side of an Engine. It assigns correlation ids, waits
// for the matching response and abandons requests after a timeout; responses
// that arrive for abandoned requests are discarded.
//
// A Client consumes the engine's response stream, so an Engine should have
// exactly one Client.
type Client struct {
	eng     *Engine
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]chan message.Response
	closed  bool
	done    chan struct{}
}

// NewClient starts routing responses from eng.
func NewClient(eng *Engine, timeout time.Duration) *Client {
	c := &Client{
		eng:     eng,
		timeout: timeout,
		pending: make(map[string]chan message.Response),
		done:    make(chan struct{}),
	}
	go c.route()
	return c
}

func (c *Client) route() {
	defer close(c.done)
	for resp := range c.eng.Responses() {
		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if !ok {
			metrics.LateResponses.Inc()
			slog.Debug("discarding response with no waiting caller", "id", resp.ID, "op", resp.Op)
			continue
		}
		ch <- resp
	}

	c.mu.Lock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

// Done is closed once the engine has shut down and every waiting call has been released.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// InFlight returns the number of requests still awaiting a response.
func (c *Client) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Call submits task under a fresh correlation id and waits for its response.
// An ERROR response is returned as a response, not as an error.
func (c *Client) Call(ctx context.Context, task message.Task) (message.Response, error) {
	id := uuid.NewString()
	ch := make(chan message.Response, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return message.Response{}, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.eng.Submit(message.Request{ID: id, Task: task}); err != nil {
		c.forget(id)
		return message.Response{}, err
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-ch:
		if !ok {
			return message.Response{}, ErrClosed
		}
		return resp, nil
	case <-timer.C:
		if resp, ok := c.abandon(id, ch); ok {
			return resp, nil
		}
		metrics.RequestTimeouts.Inc()
		return message.Response{}, fmt.Errorf("%s %s: %w after %v", opOf(task), id, ErrTimeout, c.timeout)
	case <-ctx.Done():
		if _, ok := c.abandon(id, ch); ok {
			metrics.LateResponses.Inc()
		}
		return message.Response{}, ctx.Err()
	}
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// abandon drops id from the pending set. route may already have claimed the
// id and buffered its response on ch; that response is returned so it is
// not lost.
func (c *Client) abandon(id string, ch chan message.Response) (message.Response, bool) {
	c.forget(id)
	select {
	case resp, ok := <-ch:
		return resp, ok
	default:
		return message.Response{}, false
	}
}

// Send answers a wire envelope. The response always carries env.ID; decode
// failures, queue rejections and timeouts become ERROR responses.
func (c *Client) Send(ctx context.Context, env message.Envelope) message.Response {
	req, err := env.Decode()
	if err != nil {
		metrics.RequestsProcessed.WithLabelValues(string(env.Type), string(message.TypeError)).Inc()
		return message.Failure(env.ID, env.Type, err, "")
	}
	resp, err := c.Call(ctx, req.Task)
	if err != nil {
		return message.Failure(env.ID, env.Type, err, "")
	}
	resp.ID = env.ID
	return resp
}

// ProcessDialogue runs every analysis pass over tree.
func (c *Client) ProcessDialogue(ctx context.Context, tree *dialogue.Tree) (*graph.Report, error) {
	return call[*graph.Report](ctx, c, message.ProcessDialogue{Tree: tree})
}

// ValidateTree validates tree.
func (c *Client) ValidateTree(ctx context.Context, tree *dialogue.Tree) (*graph.ValidationResult, error) {
	return call[*graph.ValidationResult](ctx, c, message.ValidateTree{Tree: tree})
}

// CalculatePaths enumerates the paths through tree.
func (c *Client) CalculatePaths(ctx context.Context, tree *dialogue.Tree) (*graph.PathResult, error) {
	return call[*graph.PathResult](ctx, c, message.CalculatePaths{Tree: tree})
}

// GeneratePreview builds a preview of tree. A nil maxDepth uses the configured default.
func (c *Client) GeneratePreview(ctx context.Context, tree *dialogue.Tree, maxDepth *int) (*graph.Preview, error) {
	return call[*graph.Preview](ctx, c, message.GeneratePreview{Tree: tree, MaxDepth: maxDepth})
}

func call[T any](ctx context.Context, c *Client, task message.Task) (T, error) {
	var zero T
	resp, err := c.Call(ctx, task)
	if err != nil {
		return zero, err
	}
	switch resp.Type {
	case message.TypeResult:
		v, ok := resp.Payload.(T)
		if !ok {
			return zero, fmt.Errorf("%s %s: unexpected payload %T", task.Op(), resp.ID, resp.Payload)
		}
		return v, nil
	case message.TypeError:
		re := &RemoteError{Op: task.Op(), ID: resp.ID}
		if ep, ok := resp.Payload.(*message.ErrorPayload); ok {
			re.Message, re.Stack = ep.Message, ep.Stack
		}
		return zero, re
	default:
		return zero, fmt.Errorf("%s %s: unexpected response type %s", task.Op(), resp.ID, resp.Type)
	}
}
