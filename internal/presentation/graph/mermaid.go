package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/talentscout/pkg/domain"
)

// Node IDs of the screening flow diagram.
const (
	NodeStart     = "start"
	NodeGenerate  = "generate"
	NodeQuestions = "questions"
	NodeCompleted = "completed"
	NodeExited    = "exited"
)

// InfoNode returns the diagram node of an info stage.
func InfoNode(key domain.FieldKey) string {
	return "info_" + string(key)
}

// Overlay contains session data to visualize on the diagram.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFor derives the visited path and current node from a session.
func OverlayFor(state *domain.SessionState) *Overlay {
	o := &Overlay{VisitedNodes: []string{NodeStart}}
	for i, stage := range domain.InfoStages {
		if i >= state.Stage {
			break
		}
		o.VisitedNodes = append(o.VisitedNodes, InfoNode(stage.Key))
	}
	if state.Questions != nil {
		o.VisitedNodes = append(o.VisitedNodes, NodeGenerate)
	}
	if len(state.Answers) > 0 {
		o.VisitedNodes = append(o.VisitedNodes, NodeQuestions)
	}

	switch state.Phase {
	case domain.PhaseIdle:
		o.CurrentNode = NodeStart
	case domain.PhaseCollectingInfo:
		if stage, ok := state.CurrentStage(); ok {
			o.CurrentNode = InfoNode(stage.Key)
		}
	case domain.PhaseGeneratingQuestions:
		o.CurrentNode = NodeGenerate
	case domain.PhaseAnsweringQuestions:
		o.CurrentNode = NodeQuestions
	case domain.PhaseCompleted:
		o.CurrentNode = NodeCompleted
	case domain.PhaseExited:
		o.CurrentNode = NodeExited
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the screening flow.
// Shapes:
// - Start and sinks: ((Circle))
// - Info stages and questions (input): [/Parallelogram/]
// - Model call: [[Subroutine]]
// Every non-terminal node has a dotted exit edge.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	node := func(id, opener, label, closer string) {
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)
	}
	edge := func(from, label, to string) {
		if label == "" {
			fmt.Fprintf(&sb, "    %s --> %s\n", from, to)
			return
		}
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, strings.ReplaceAll(label, "\"", "'"), to)
	}

	node(NodeStart, "((", "start", "))")
	for _, stage := range domain.InfoStages {
		node(InfoNode(stage.Key), "[/", string(stage.Key), "/]")
	}
	node(NodeGenerate, "[[", "generate questions", "]]")
	node(NodeQuestions, "[/", "answer question", "/]")
	node(NodeCompleted, "((", "completed", "))")
	node(NodeExited, "((", "exited", "))")

	sb.WriteString("\n")
	prev := NodeStart
	for _, stage := range domain.InfoStages {
		id := InfoNode(stage.Key)
		edge(prev, "", id)
		prev = id
	}
	edge(prev, "text", NodeGenerate)
	edge(NodeGenerate, "retry", NodeGenerate)
	edge(NodeGenerate, "bank parsed", NodeQuestions)
	edge(NodeQuestions, "select", NodeQuestions)
	edge(NodeQuestions, "last answer", NodeCompleted)

	exits := []string{NodeStart}
	for _, stage := range domain.InfoStages {
		exits = append(exits, InfoNode(stage.Key))
	}
	exits = append(exits, NodeGenerate, NodeQuestions)
	for _, id := range exits {
		fmt.Fprintf(&sb, "    %s -. exit .-> %s\n", id, NodeExited)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			if id == "" || seen[id] || id == overlay.CurrentNode {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", overlay.CurrentNode)
		}
	}

	return sb.String()
}
