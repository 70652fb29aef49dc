// Package migrate implements a name-migration rule engine: it decides, one
// syntax node at a time, whether a legacy global class name should be
// rewritten into a namespaced one and, for declarations, where the file
// holding the class should move.
//
// The engine never parses or writes source. A host walks its own syntax
// tree, hands each class-name occurrence to RuleDriver.ConsiderNode as a
// SymbolicReference and applies the returned RewriteDecision. Nodes are
// built and relocations scheduled through the Host interface.
//
// A PolicyTable, PathGate, NameMatcher, ReferenceRewriter and
// DeclarationRelocator are read-only after construction and can be shared
// by concurrent workers; a RuleDriver cannot.
package migrate
