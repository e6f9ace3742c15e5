package dialogue

// NodeType classifies a node. Traversal treats every type the same; only
// statistics look at it.
type NodeType string

const (
	NodeTypeStatement  NodeType = "statement"
	NodeTypeQuestion   NodeType = "question"
	NodeTypeChoice     NodeType = "choice"
	NodeTypeSkillCheck NodeType = "skill_check"
	NodeTypeNarrative  NodeType = "narrative"
)

// Tree is an authored dialogue graph. The engine receives it as an immutable
// snapshot and never writes to it.
type Tree struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	StartNodeID string   `json:"startNodeId" yaml:"startNodeId"`
	Nodes       []Node   `json:"nodes" yaml:"nodes"`
	Characters  []string `json:"characters,omitempty" yaml:"characters,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Node is a vertex. A node without choices is terminal.
type Node struct {
	ID         string      `json:"id" yaml:"id"`
	Type       NodeType    `json:"type" yaml:"type"`
	Speaker    string      `json:"speaker,omitempty" yaml:"speaker,omitempty"`
	Text       string      `json:"text" yaml:"text"`
	Emotion    string      `json:"emotion,omitempty" yaml:"emotion,omitempty"`
	Position   Position    `json:"position" yaml:"position"`
	SkillCheck *SkillCheck `json:"skillCheck,omitempty" yaml:"skillCheck,omitempty"`
	Choices    []Choice    `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Terminal reports whether traversal ends at n.
func (n *Node) Terminal() bool { return len(n.Choices) == 0 }

// Position is a canvas layout hint.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Choice is a directed edge. An empty NextNodeID ends the branch at the
// owning node.
type Choice struct {
	ID            string      `json:"id" yaml:"id"`
	Text          string      `json:"text" yaml:"text"`
	NextNodeID    string      `json:"nextNodeId,omitempty" yaml:"nextNodeId,omitempty"`
	RequiredSkill string      `json:"requiredSkill,omitempty" yaml:"requiredSkill,omitempty"`
	RequiredValue int         `json:"requiredValue,omitempty" yaml:"requiredValue,omitempty"`
	SkillCheck    *SkillCheck `json:"skillCheck,omitempty" yaml:"skillCheck,omitempty"`
	Consequence   string      `json:"consequence,omitempty" yaml:"consequence,omitempty"`
	IsLocked      bool        `json:"isLocked,omitempty" yaml:"isLocked,omitempty"`
	LockReason    string      `json:"lockReason,omitempty" yaml:"lockReason,omitempty"`
}

// SkillCheck is a gameplay annotation. The engine only counts it.
type SkillCheck struct {
	ID          string `json:"id" yaml:"id"`
	Stat        string `json:"stat" yaml:"stat"`
	Difficulty  string `json:"difficulty" yaml:"difficulty"`
	DCValue     int    `json:"dcValue" yaml:"dcValue"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	SuccessText string `json:"successText,omitempty" yaml:"successText,omitempty"`
	FailureText string `json:"failureText,omitempty" yaml:"failureText,omitempty"`
	IsPassive   bool   `json:"isPassive,omitempty" yaml:"isPassive,omitempty"`
	IsRed       bool   `json:"isRed,omitempty" yaml:"isRed,omitempty"`
	IsWhite     bool   `json:"isWhite,omitempty" yaml:"isWhite,omitempty"`
}
