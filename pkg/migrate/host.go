package migrate

import "github.com/Sumatoshi-tech/nsmigrate/pkg/namespace"

// NodeBuilder constructs replacement nodes in the host's syntax.
type NodeBuilder interface {
	// NewName builds a fully qualified class reference.
	NewName(name namespace.Name) Node
	// NewIdentifier builds a bare declaration identifier.
	NewIdentifier(short string) Node
}

// FileScheduler carries out the file-level side of a relocation.
type FileScheduler interface {
	ScheduleMove(oldPath, newPath string) error
	InsertNamespace(filePath, ns string) error
}

// Host is everything the engine asks of the surrounding tool.
type Host interface {
	NodeBuilder
	FileScheduler
}

// TextNode is a Node holding literal source text.
type TextNode string

// Source implements Node.
func (n TextNode) Source() string { return string(n) }

// TextBuilder is a NodeBuilder producing TextNodes in PHP syntax.
type TextBuilder struct{}

// NewName implements NodeBuilder.
func (TextBuilder) NewName(name namespace.Name) Node {
	return TextNode(name.FullyQualified())
}

// NewIdentifier implements NodeBuilder.
func (TextBuilder) NewIdentifier(short string) Node {
	return TextNode(short)
}
