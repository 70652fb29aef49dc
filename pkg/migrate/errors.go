package migrate

import (
	"errors"
	"fmt"
)

// Reasons carried by NoChange. None of them is fatal: every one of them
// means the node is left as it is.
var (
	// ErrNoMatch means no mapping applies to the name.
	ErrNoMatch = errors.New("no matching legacy prefix")
	// ErrExcluded means the name is listed in a mapping's excluded classes.
	ErrExcluded = fmt.Errorf("%w: excluded class", ErrNoMatch)
	// ErrAmbiguousName means the name is empty or leaves no short name.
	ErrAmbiguousName = errors.New("ambiguous name")
	// ErrUnsupportedNodeKind means the reference is neither a use nor a declaration.
	ErrUnsupportedNodeKind = errors.New("unsupported node kind")
	// ErrPathGated means the file lies outside the gated directories.
	ErrPathGated = errors.New("file path not allowed by gate")
	// ErrAlreadyVisited means the same node was offered twice within a file.
	ErrAlreadyVisited = errors.New("node already visited")
	// ErrNoFile means a node was offered while no file is entered.
	ErrNoFile = errors.New("no file entered")
)

// Construction errors.
var (
	ErrEmptyPrefix      = errors.New("legacy prefix is empty")
	ErrInvalidPrefix    = errors.New("legacy prefix is not an identifier")
	ErrInvalidNamespace = errors.New("invalid target namespace")
	ErrFileInProgress   = errors.New("a file is already entered")
)
