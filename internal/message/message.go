package message

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"
)

// MaxPreviewDepth is the largest maxDepth a request may carry.
const MaxPreviewDepth = 1000

var (
	ErrUnknownOperation = errors.New("unknown message type")
	ErrMissingTree      = errors.New("payload.tree is required")
	ErrInvalidDepth     = fmt.Errorf("payload.maxDepth must be between 0 and %d", MaxPreviewDepth)
)

// Envelope is a request as it crosses the wire.
type Envelope struct {
	Type    Op              `json:"type"`
	Payload json.RawMessage `json:"payload"`
	ID      string          `json:"id"`
}

// Payload is the body shared by all four operations.
type Payload struct {
	Tree     *dialogue.Tree `json:"tree"`
	MaxDepth *int           `json:"maxDepth,omitempty"`
}

// Decode turns the envelope into a typed request. The returned request always
// carries the envelope id, even on error, so the failure can be answered.
func (e Envelope) Decode() (Request, error) {
	req := Request{ID: e.ID}

	known := false
	for _, op := range Ops {
		if e.Type == op {
			known = true
			break
		}
	}
	if !known {
		return req, fmt.Errorf("%w: %s", ErrUnknownOperation, e.Type)
	}

	var p Payload
	if len(e.Payload) > 0 {
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return req, fmt.Errorf("decode %s payload: %w", e.Type, err)
		}
	}
	if p.Tree == nil {
		return req, fmt.Errorf("%s: %w", e.Type, ErrMissingTree)
	}
	if p.MaxDepth != nil && (*p.MaxDepth < 0 || *p.MaxDepth > MaxPreviewDepth) {
		return req, fmt.Errorf("%s: %w, got %d", e.Type, ErrInvalidDepth, *p.MaxDepth)
	}

	switch e.Type {
	case OpProcessDialogue:
		req.Task = ProcessDialogue{Tree: p.Tree}
	case OpValidateTree:
		req.Task = ValidateTree{Tree: p.Tree}
	case OpCalculatePaths:
		req.Task = CalculatePaths{Tree: p.Tree}
	case OpGeneratePreview:
		req.Task = GeneratePreview{Tree: p.Tree, MaxDepth: p.MaxDepth}
	}
	return req, nil
}

// Encode is the inverse of Decode.
func Encode(req Request) (Envelope, error) {
	if req.Task == nil {
		return Envelope{}, fmt.Errorf("encode request %s: nil task", req.ID)
	}
	p := Payload{Tree: req.Task.Snapshot()}
	if gp, ok := req.Task.(GeneratePreview); ok {
		p.MaxDepth = gp.MaxDepth
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode request %s: %w", req.ID, err)
	}
	return Envelope{Type: req.Task.Op(), Payload: raw, ID: req.ID}, nil
}

// ResponseType tags a response.
type ResponseType string

const (
	TypeResult ResponseType = "RESULT"
	TypeError  ResponseType = "ERROR"
	// TypeProgress is part of the protocol but no operation emits it yet.
	TypeProgress ResponseType = "PROGRESS"
)

// Response answers exactly one request and carries its id.
type Response struct {
	Type    ResponseType `json:"type"`
	Payload any          `json:"payload"`
	ID      string       `json:"id"`
	Op      Op           `json:"-"`
}

// ErrorPayload is the body of an ERROR response.
type ErrorPayload struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Result builds a RESULT response.
func Result(id string, op Op, v any) Response {
	return Response{Type: TypeResult, Payload: v, ID: id, Op: op}
}

// Failure builds an ERROR response.
func Failure(id string, op Op, err error, stack string) Response {
	return Response{
		Type:    TypeError,
		Payload: &ErrorPayload{Message: err.Error(), Stack: stack},
		ID:      id,
		Op:      op,
	}
}

// RawResponse is a response read back from the wire with its payload undecoded.
type RawResponse struct {
	Type    ResponseType    `json:"type"`
	Payload json.RawMessage `json:"payload"`
	ID      string          `json:"id"`
}
