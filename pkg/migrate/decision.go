package migrate

import (
	"errors"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/namespace"
)

// Node is a replacement syntax node built by the host.
type Node interface {
	// Source returns the text the node renders to.
	Source() string
}

// RewriteDecision is the outcome of considering one node. The concrete
// types are NoChange, ReplaceNode and RelocateDeclaration.
type RewriteDecision interface {
	decision()
	// Changed reports whether the host has anything to apply.
	Changed() bool
}

// NoChange leaves the node alone. Reason says why; it is nil only when
// there was nothing to say.
type NoChange struct {
	Reason error
}

// ReplaceNode replaces a use of a legacy name with Node.
type ReplaceNode struct {
	Ref  SymbolicReference
	Name namespace.Name
	Node Node
}

// RelocateDeclaration renames a declaration to ShortName, places it in
// Namespace and moves its file to FilePath.
type RelocateDeclaration struct {
	Ref       SymbolicReference
	Namespace string
	FilePath  string
	ShortName string
	Node      Node
}

func (NoChange) decision()            {}
func (ReplaceNode) decision()         {}
func (RelocateDeclaration) decision() {}

// Changed implements RewriteDecision.
func (NoChange) Changed() bool { return false }

// Changed implements RewriteDecision.
func (ReplaceNode) Changed() bool { return true }

// Changed implements RewriteDecision.
func (RelocateDeclaration) Changed() bool { return true }

// Because reports whether the NoChange was caused by target.
func (nc NoChange) Because(target error) bool {
	return nc.Reason != nil && errors.Is(nc.Reason, target)
}

// DecisionKind returns a short label for metrics and reports.
func DecisionKind(d RewriteDecision) string {
	switch d.(type) {
	case NoChange:
		return "unchanged"
	case ReplaceNode:
		return "replaced"
	case RelocateDeclaration:
		return "relocated"
	default:
		return "unknown"
	}
}

// ReasonLabel maps a NoChange reason onto its sentinel name.
func ReasonLabel(d RewriteDecision) string {
	nc, ok := d.(NoChange)
	if !ok {
		return ""
	}

	switch {
	case nc.Reason == nil:
		return "none"
	case errors.Is(nc.Reason, ErrExcluded):
		return "excluded"
	case errors.Is(nc.Reason, ErrNoMatch):
		return "no_match"
	case errors.Is(nc.Reason, ErrAmbiguousName):
		return "ambiguous"
	case errors.Is(nc.Reason, ErrUnsupportedNodeKind):
		return "unsupported_kind"
	case errors.Is(nc.Reason, ErrPathGated):
		return "gated"
	case errors.Is(nc.Reason, ErrAlreadyVisited):
		return "visited"
	case errors.Is(nc.Reason, ErrNoFile):
		return "no_file"
	default:
		return "host_error"
	}
}
