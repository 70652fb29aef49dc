package migrate

import "fmt"

// ReferenceKind tells a use of a class name from the name being declared.
type ReferenceKind int

// Reference kinds.
const (
	// KindUse is an occurrence such as an extends clause, a type hint or the
	// target of a static call.
	KindUse ReferenceKind = iota + 1
	// KindDeclaration is the identifier of a class, interface or trait
	// declaration.
	KindDeclaration
)

func (k ReferenceKind) String() string {
	switch k {
	case KindUse:
		return "use"
	case KindDeclaration:
		return "declaration"
	default:
		return fmt.Sprintf("ReferenceKind(%d)", int(k))
	}
}

// ParseReferenceKind parses the String form of a kind.
func ParseReferenceKind(s string) (ReferenceKind, error) {
	switch s {
	case "use":
		return KindUse, nil
	case "declaration", "decl":
		return KindDeclaration, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedNodeKind, s)
	}
}

// Span is a half-open byte range in the file's source.
type Span struct {
	Start int
	End   int
}

// SymbolicReference is one occurrence of a global class name in a file.
// It is owned by the host's syntax tree; the engine only reads it.
type SymbolicReference struct {
	// Name is the class name without a leading namespace separator.
	Name     string
	Kind     ReferenceKind
	FilePath string
	Span     Span
}

func (r SymbolicReference) String() string {
	return fmt.Sprintf("%s %s@%d:%d", r.Kind, r.Name, r.Span.Start, r.Span.End)
}
