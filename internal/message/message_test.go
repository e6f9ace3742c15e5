package message_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/message"
)

const treeJSON = `{"id":"t","title":"T","startNodeId":"n1","nodes":[
	{"id":"n1","type":"statement","text":"Hi","position":{"x":0,"y":0},"choices":[{"id":"c1","text":"Go","nextNodeId":"n2"}]},
	{"id":"n2","type":"statement","text":"Bye","position":{"x":10,"y":0},"choices":[]}
]}`

func TestDecode(t *testing.T) {
	depth := 2
	cases := []struct {
		name string
		raw  string
		want message.Task
	}{
		{"process", `{"type":"PROCESS_DIALOGUE","id":"1","payload":{"tree":` + treeJSON + `}}`, message.ProcessDialogue{}},
		{"validate", `{"type":"VALIDATE_TREE","id":"1","payload":{"tree":` + treeJSON + `}}`, message.ValidateTree{}},
		{"paths", `{"type":"CALCULATE_PATHS","id":"1","payload":{"tree":` + treeJSON + `}}`, message.CalculatePaths{}},
		{"preview", `{"type":"GENERATE_PREVIEW","id":"1","payload":{"tree":` + treeJSON + `,"maxDepth":2}}`, message.GeneratePreview{MaxDepth: &depth}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var env message.Envelope
			if err := json.Unmarshal([]byte(tc.raw), &env); err != nil {
				t.Fatalf("unmarshal envelope: %v", err)
			}
			req, err := env.Decode()
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if req.ID != "1" {
				t.Errorf("id = %q, want 1", req.ID)
			}
			if req.Task.Op() != tc.want.Op() {
				t.Errorf("op = %s, want %s", req.Task.Op(), tc.want.Op())
			}
			tr := req.Task.Snapshot()
			if tr == nil || tr.StartNodeID != "n1" || len(tr.Nodes) != 2 || tr.Nodes[0].Choices[0].NextNodeID != "n2" {
				t.Errorf("tree not decoded: %+v", tr)
			}
			if gp, ok := tc.want.(message.GeneratePreview); ok {
				got := req.Task.(message.GeneratePreview)
				if got.MaxDepth == nil || *got.MaxDepth != *gp.MaxDepth {
					t.Errorf("maxDepth = %v, want %d", got.MaxDepth, *gp.MaxDepth)
				}
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  message.Envelope
		want error
	}{
		{"unknown op", message.Envelope{Type: "EXPLODE", ID: "x", Payload: json.RawMessage(`{"tree":{}}`)}, message.ErrUnknownOperation},
		{"missing tree", message.Envelope{Type: message.OpValidateTree, ID: "x", Payload: json.RawMessage(`{}`)}, message.ErrMissingTree},
		{"no payload", message.Envelope{Type: message.OpCalculatePaths, ID: "x"}, message.ErrMissingTree},
		{"negative depth", message.Envelope{Type: message.OpGeneratePreview, ID: "x", Payload: json.RawMessage(`{"tree":{},"maxDepth":-1}`)}, message.ErrInvalidDepth},
		{"depth too large", message.Envelope{Type: message.OpGeneratePreview, ID: "x", Payload: json.RawMessage(`{"tree":{},"maxDepth":1001}`)}, message.ErrInvalidDepth},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := tc.env.Decode()
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
			if req.ID != "x" {
				t.Errorf("failed decode lost id: %q", req.ID)
			}
		})
	}
}

func TestDecode_BadPayload(t *testing.T) {
	env := message.Envelope{Type: message.OpValidateTree, ID: "x", Payload: json.RawMessage(`{"tree":[]}`)}
	if _, err := env.Decode(); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEncodeDecode(t *testing.T) {
	depth := 3
	req := message.Request{ID: "abc", Task: message.GeneratePreview{
		Tree:     &dialogue.Tree{StartNodeID: "a", Nodes: []dialogue.Node{{ID: "a", Text: "Hello"}}},
		MaxDepth: &depth,
	}}
	env, err := message.Encode(req)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if env.Type != message.OpGeneratePreview || env.ID != "abc" {
		t.Errorf("unexpected envelope header %+v", env)
	}
	back, err := env.Decode()
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if diff := cmp.Diff(req, back); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestFailureEnvelope(t *testing.T) {
	resp := message.Failure("id-1", message.OpValidateTree, errors.New("boom"), "")
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"ERROR","payload":{"message":"boom"},"id":"id-1"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
