package message

import "github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"

// Op names one of the four engine operations.
type Op string

const (
	OpProcessDialogue Op = "PROCESS_DIALOGUE"
	OpValidateTree    Op = "VALIDATE_TREE"
	OpCalculatePaths  Op = "CALCULATE_PATHS"
	OpGeneratePreview Op = "GENERATE_PREVIEW"
)

// Ops lists every operation the engine accepts.
var Ops = []Op{OpProcessDialogue, OpValidateTree, OpCalculatePaths, OpGeneratePreview}

// Task is the closed set of operations. Only the types in this package
// implement it.
type Task interface {
	Op() Op
	// Snapshot returns the tree the task analyses.
	Snapshot() *dialogue.Tree
	isTask()
}

// ProcessDialogue runs validation, paths, statistics and optimisation together.
type ProcessDialogue struct {
	Tree *dialogue.Tree
}

// ValidateTree runs the validator only.
type ValidateTree struct {
	Tree *dialogue.Tree
}

// CalculatePaths runs the path enumerator only.
type CalculatePaths struct {
	Tree *dialogue.Tree
}

// GeneratePreview builds a depth-limited preview. A nil MaxDepth uses the
// configured default.
type GeneratePreview struct {
	Tree     *dialogue.Tree
	MaxDepth *int
}

func (ProcessDialogue) Op() Op { return OpProcessDialogue }
func (ValidateTree) Op() Op    { return OpValidateTree }
func (CalculatePaths) Op() Op  { return OpCalculatePaths }
func (GeneratePreview) Op() Op { return OpGeneratePreview }

func (t ProcessDialogue) Snapshot() *dialogue.Tree { return t.Tree }
func (t ValidateTree) Snapshot() *dialogue.Tree    { return t.Tree }
func (t CalculatePaths) Snapshot() *dialogue.Tree  { return t.Tree }
func (t GeneratePreview) Snapshot() *dialogue.Tree { return t.Tree }

func (ProcessDialogue) isTask() {}
func (ValidateTree) isTask()    {}
func (CalculatePaths) isTask()  {}
func (GeneratePreview) isTask() {}

// Request pairs a task with the caller's correlation id.
type Request struct {
	ID   string
	Task Task
}
