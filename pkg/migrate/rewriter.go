package migrate

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/namespace"
)

// prefixWidth is the fixed width of the name head checked against a
// mapping's legacy prefix. Prefixes whose first prefixWidth characters
// differ from the name head never match, even when the glob does.
const prefixWidth = 5

// ShortNamer derives the short class name from a legacy name.
// An empty result means no usable name can be derived.
type ShortNamer interface {
	ShortName(legacyName string, m LegacyPrefixMapping) string
}

// ShortNamerFunc adapts a function to ShortNamer.
type ShortNamerFunc func(legacyName string, m LegacyPrefixMapping) string

// ShortName implements ShortNamer.
func (f ShortNamerFunc) ShortName(legacyName string, m LegacyPrefixMapping) string {
	return f(legacyName, m)
}

// Short name policies accepted by ShortNamerByName.
const (
	ShortNameSuffix = "suffix"
	ShortNameStrip  = "strip"
)

// StripShortNamer removes the legacy prefix and nothing else.
var StripShortNamer = ShortNamerFunc(func(legacyName string, m LegacyPrefixMapping) string {
	return strings.TrimPrefix(legacyName, m.LegacyPrefix())
})

// SuffixShortNamer follows the Joomla 4 convention: drop the legacy prefix,
// drop a leading component name taken from the target namespace, then end
// the name with the last namespace segment.
//
//	JFormFieldExampleParent, Acme\Example\Administrator\Field -> ParentField
var SuffixShortNamer = ShortNamerFunc(func(legacyName string, m LegacyPrefixMapping) string {
	rest := strings.TrimPrefix(legacyName, m.LegacyPrefix())
	if rest == "" {
		return ""
	}

	segs := namespace.Split(m.NewNamespace())
	suffix := segs[len(segs)-1]

	var component string

	for _, seg := range segs[:len(segs)-1] {
		if len(seg) > len(component) && len(rest) > len(seg) && strings.HasPrefix(rest, seg) {
			component = seg
		}
	}

	rest = rest[len(component):]

	if strings.HasSuffix(rest, suffix) {
		return rest
	}

	return rest + suffix
})

// ShortNamerByName returns the policy registered under name.
func ShortNamerByName(name string) (ShortNamer, error) {
	switch name {
	case "", ShortNameSuffix:
		return SuffixShortNamer, nil
	case ShortNameStrip:
		return StripShortNamer, nil
	default:
		return nil, fmt.Errorf("unknown short name policy %q", name)
	}
}

// ReferenceRewriter turns a matched reference into a decision.
// It holds no per-call state and may be shared.
type ReferenceRewriter struct {
	builder   NodeBuilder
	relocator *DeclarationRelocator
	namer     ShortNamer
}

// RewriterOption configures a ReferenceRewriter.
type RewriterOption func(*ReferenceRewriter)

// WithShortNamer replaces the default SuffixShortNamer.
func WithShortNamer(namer ShortNamer) RewriterOption {
	return func(rw *ReferenceRewriter) {
		if namer != nil {
			rw.namer = namer
		}
	}
}

// NewReferenceRewriter creates a rewriter. A nil builder falls back to
// TextBuilder.
func NewReferenceRewriter(builder NodeBuilder, relocator *DeclarationRelocator, opts ...RewriterOption) *ReferenceRewriter {
	if builder == nil {
		builder = TextBuilder{}
	}

	rw := &ReferenceRewriter{
		builder:   builder,
		relocator: relocator,
		namer:     SuffixShortNamer,
	}

	for _, opt := range opts {
		opt(rw)
	}

	return rw
}

// Rewrite decides what to do with ref under mapping m.
func (rw *ReferenceRewriter) Rewrite(ref SymbolicReference, m LegacyPrefixMapping) RewriteDecision {
	return rw.rewrite(rw.builder, ref, m)
}

func (rw *ReferenceRewriter) rewrite(builder NodeBuilder, ref SymbolicReference, m LegacyPrefixMapping) RewriteDecision {
	if ref.Name == "" {
		return NoChange{Reason: ErrAmbiguousName}
	}

	if len(ref.Name) < prefixWidth {
		return NoChange{Reason: fmt.Errorf("%w: %q is shorter than the prefix head", ErrNoMatch, ref.Name)}
	}

	head := ref.Name[:prefixWidth]
	if !strings.HasPrefix(m.LegacyPrefix(), head) {
		return NoChange{Reason: fmt.Errorf("%w: head %q is not a prefix of %q", ErrNoMatch, head, m.LegacyPrefix())}
	}

	short := rw.namer.ShortName(ref.Name, m)
	if short == "" || !namespace.IsIdentifier(short) {
		return NoChange{Reason: fmt.Errorf("%w: no short name for %q", ErrAmbiguousName, ref.Name)}
	}

	switch ref.Kind {
	case KindUse:
		name := namespace.New(m.NewNamespace(), short)

		return ReplaceNode{Ref: ref, Name: name, Node: builder.NewName(name)}
	case KindDeclaration:
		target := ""
		if rw.relocator != nil {
			target = rw.relocator.ComputeTarget(ref.FilePath, m.NewNamespace(), short)
		}

		return RelocateDeclaration{
			Ref:       ref,
			Namespace: m.NewNamespace(),
			FilePath:  target,
			ShortName: short,
			Node:      builder.NewIdentifier(short),
		}
	default:
		return NoChange{Reason: fmt.Errorf("%w: %s", ErrUnsupportedNodeKind, ref.Kind)}
	}
}
