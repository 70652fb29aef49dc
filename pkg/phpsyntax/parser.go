package phpsyntax

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
)

// Sentinel errors for parser operations.
var (
	errNoRootNode = errors.New("no root node")
	errPoolType   = errors.New("unexpected parser pool type")
)

// File is a parsed PHP source file.
type File struct {
	Path   string
	Source []byte
	// Refs are the global class-name references in source order.
	Refs []migrate.SymbolicReference
	// Namespaced is set when the file already declares a namespace. Such
	// files carry no global references and Refs is empty.
	Namespaced bool
	// InsertAt is the offset a namespace statement goes to: right after the
	// opening tag or a leading declare statement. -1 when the file has no
	// opening tag.
	InsertAt int
}

// Parser parses PHP files. It is safe for concurrent use; tree-sitter
// parsers are pooled.
type Parser struct {
	pool sync.Pool
}

// NewParser creates a Parser.
func NewParser() (*Parser, error) {
	lang := Language()
	if lang == nil {
		return nil, errLanguageNotAvailable
	}

	parser := &Parser{}
	parser.pool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	return parser, nil
}

// Parse parses src and collects its references.
func (parser *Parser) Parse(ctx context.Context, path string, src []byte) (*File, error) {
	tsParser, ok := parser.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer parser.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("parse %s: %w", path, errNoRootNode)
	}

	c := &collector{path: path, src: src}
	c.walk(root)

	file := &File{
		Path:       path,
		Source:     src,
		Namespaced: c.namespaced,
		InsertAt:   insertOffset(root),
	}

	if !c.namespaced {
		file.Refs = c.refs
	}

	return file, nil
}

// insertOffset finds where a namespace statement may be inserted.
func insertOffset(root sitter.Node) int {
	pos := -1

	for idx := range root.NamedChildCount() {
		child := root.NamedChild(idx)

		switch child.Type() {
		case "php_tag":
			if pos < 0 {
				pos = int(child.EndByte())
			}
		case "comment", "text":
		case "declare_statement":
			if pos >= 0 {
				return int(child.EndByte())
			}
		default:
			if pos >= 0 {
				return pos
			}
		}
	}

	return pos
}

// Node types whose name children are class uses.
var useParents = map[string]bool{
	"base_clause":            true,
	"class_interface_clause": true,
	"named_type":             true,
	"type_list":              true,
}

// Node types where only the first named child, the scope, is a class use.
var scopeParents = map[string]bool{
	"scoped_call_expression":            true,
	"class_constant_access_expression":  true,
	"scoped_property_access_expression": true,
	"object_creation_expression":        true,
}

// Node types whose name field is a declaration.
var declarations = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"trait_declaration":     true,
	"enum_declaration":      true,
}

type collector struct {
	path       string
	src        []byte
	refs       []migrate.SymbolicReference
	namespaced bool
}

func (c *collector) walk(n sitter.Node) {
	typ := n.Type()

	switch {
	case typ == "name" || typ == "qualified_name":
		return
	case typ == "namespace_definition":
		c.namespaced = true

		return
	case declarations[typ]:
		if name := n.ChildByFieldName("name"); !name.IsNull() {
			c.add(name, migrate.KindDeclaration)
		}
	case useParents[typ]:
		for idx := range n.NamedChildCount() {
			c.use(n.NamedChild(idx))
		}
	case scopeParents[typ]:
		if n.NamedChildCount() > 0 {
			c.use(n.NamedChild(0))
		}
	case typ == "binary_expression":
		if c.text(n.ChildByFieldName("operator")) == "instanceof" {
			c.use(n.ChildByFieldName("right"))
		}
	}

	for idx := range n.NamedChildCount() {
		c.walk(n.NamedChild(idx))
	}
}

// use records n when it names a global class: a bare name or a fully
// qualified name with a single segment.
func (c *collector) use(n sitter.Node) {
	if n.IsNull() {
		return
	}

	switch n.Type() {
	case "name":
		c.add(n, migrate.KindUse)
	case "qualified_name":
		text := c.text(n)
		if strings.HasPrefix(text, `\`) && !strings.Contains(text[1:], `\`) {
			c.add(n, migrate.KindUse)
		}
	}
}

func (c *collector) add(n sitter.Node, kind migrate.ReferenceKind) {
	name := strings.TrimPrefix(c.text(n), `\`)
	if name == "" || isReservedName(name) {
		return
	}

	c.refs = append(c.refs, migrate.SymbolicReference{
		Name:     name,
		Kind:     kind,
		FilePath: c.path,
		Span:     migrate.Span{Start: int(n.StartByte()), End: int(n.EndByte())},
	})
}

func (c *collector) text(n sitter.Node) string {
	if n.IsNull() {
		return ""
	}

	start, end := int(n.StartByte()), int(n.EndByte())
	if start < 0 || end > len(c.src) || start > end {
		return ""
	}

	return string(c.src[start:end])
}

// reservedNames are never class references even where the grammar
// reports them as names.
var reservedNames = map[string]bool{
	"self": true, "static": true, "parent": true,
	"array": true, "callable": true, "iterable": true, "object": true,
	"bool": true, "int": true, "float": true, "string": true,
	"void": true, "mixed": true, "never": true,
	"null": true, "false": true, "true": true,
}

func isReservedName(name string) bool {
	return reservedNames[strings.ToLower(name)]
}
