package migrate

import (
	"fmt"
	"log/slog"
)

// State is the position of a RuleDriver in its per-file cycle.
type State int

// Driver states. A run starts and ends in Idle; each file goes
// FileEntered -> (NodeConsidered -> Decided -> FileEntered)* -> Idle.
const (
	Idle State = iota
	FileEntered
	NodeConsidered
	Decided
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FileEntered:
		return "file-entered"
	case NodeConsidered:
		return "node-considered"
	case Decided:
		return "decided"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FileStats counts the decisions taken for one file.
type FileStats struct {
	Path       string
	Gated      bool
	Considered int
	Replaced   int
	Relocated  int
	Unchanged  int
	// Reasons counts NoChange decisions by ReasonLabel.
	Reasons map[string]int
}

// Changed reports whether any node of the file was rewritten.
func (fs FileStats) Changed() bool {
	return fs.Replaced+fs.Relocated > 0
}

type visitKey struct {
	span Span
	kind ReferenceKind
	name string
}

// RuleDriver runs the rule over the nodes of one file at a time.
// It keeps per-file state and must not be used from several goroutines;
// give each worker its own driver over a shared PolicyTable.
type RuleDriver struct {
	table    *PolicyTable
	gate     *PathGate
	rewriter *ReferenceRewriter
	host     Host
	logger   *slog.Logger

	state    State
	fileHost Host
	file     string
	inert    bool
	visited  map[visitKey]struct{}
	stats    FileStats
}

// DriverOption configures a RuleDriver.
type DriverOption func(*RuleDriver)

// WithHost sets the host used when EnterFile is given none.
func WithHost(host Host) DriverOption {
	return func(d *RuleDriver) { d.host = host }
}

// WithLogger sets the driver's logger.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *RuleDriver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewRuleDriver wires a driver from its collaborators. A nil gate selects
// NewPathGate(); a nil rewriter builds text nodes with the default relocator.
func NewRuleDriver(table *PolicyTable, gate *PathGate, rewriter *ReferenceRewriter, opts ...DriverOption) *RuleDriver {
	if gate == nil {
		gate = NewPathGate()
	}

	if rewriter == nil {
		rewriter = NewReferenceRewriter(nil, NewDeclarationRelocator(gate, ""))
	}

	d := &RuleDriver{
		table:    table,
		gate:     gate,
		rewriter: rewriter,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// State returns the current state.
func (d *RuleDriver) State() State { return d.state }

// File returns the path of the entered file, or "" when idle.
func (d *RuleDriver) File() string { return d.file }

// EnterFile starts a file. The path gate runs here, once; a rejected file
// leaves the driver inert until LeaveFile. A nil host selects the driver's
// default host.
func (d *RuleDriver) EnterFile(filePath string, host Host) error {
	if d.state != Idle {
		return fmt.Errorf("%w: %s", ErrFileInProgress, d.file)
	}

	if host == nil {
		host = d.host
	}

	d.fileHost = host
	d.file = NormalizePath(filePath)
	d.inert = !d.gate.Allows(d.file)
	d.visited = make(map[visitKey]struct{})
	d.stats = FileStats{Path: filePath, Gated: d.inert, Reasons: make(map[string]int)}
	d.state = FileEntered

	if d.inert {
		d.logger.Debug("file outside gate", "path", filePath)
	}

	return nil
}

// LeaveFile ends the current file and returns its statistics.
func (d *RuleDriver) LeaveFile() FileStats {
	stats := d.stats

	d.state = Idle
	d.file = ""
	d.fileHost = nil
	d.inert = false
	d.visited = nil
	d.stats = FileStats{}

	return stats
}

// ConsiderNode is the host entry point: it enters filePath if it is not the
// current file, then considers ref.
func (d *RuleDriver) ConsiderNode(ref SymbolicReference, filePath string) RewriteDecision {
	if d.state != Idle && NormalizePath(filePath) != d.file {
		d.LeaveFile()
	}

	if d.state == Idle {
		if err := d.EnterFile(filePath, nil); err != nil {
			return NoChange{Reason: err}
		}
	}

	return d.Consider(ref)
}

// Consider decides what to do with one node of the entered file.
func (d *RuleDriver) Consider(ref SymbolicReference) RewriteDecision {
	if d.state == Idle {
		return NoChange{Reason: ErrNoFile}
	}

	d.state = NodeConsidered
	decision := d.decide(ref)
	d.state = Decided

	d.record(decision)
	d.state = FileEntered

	return decision
}

func (d *RuleDriver) decide(ref SymbolicReference) RewriteDecision {
	if d.inert {
		return NoChange{Reason: ErrPathGated}
	}

	key := visitKey{span: ref.Span, kind: ref.Kind, name: ref.Name}
	if _, seen := d.visited[key]; seen {
		return NoChange{Reason: fmt.Errorf("%w: %s", ErrAlreadyVisited, ref)}
	}

	d.visited[key] = struct{}{}

	if ref.Name == "" {
		return NoChange{Reason: ErrAmbiguousName}
	}

	m, err := d.table.Explain(ref.Name)
	if err != nil {
		return NoChange{Reason: err}
	}

	if ref.FilePath == "" {
		ref.FilePath = d.stats.Path
	}

	var builder NodeBuilder = TextBuilder{}
	if d.fileHost != nil {
		builder = d.fileHost
	}

	decision := d.rewriter.rewrite(builder, ref, m)

	reloc, ok := decision.(RelocateDeclaration)
	if !ok || d.fileHost == nil {
		return decision
	}

	if err := d.schedule(reloc); err != nil {
		d.logger.Warn("relocation rejected by host", "path", ref.FilePath, "name", ref.Name, "error", err)

		return NoChange{Reason: err}
	}

	return decision
}

// schedule asks the host to move the file, then to insert the namespace.
func (d *RuleDriver) schedule(reloc RelocateDeclaration) error {
	if reloc.FilePath != "" {
		if err := d.fileHost.ScheduleMove(reloc.Ref.FilePath, reloc.FilePath); err != nil {
			return fmt.Errorf("schedule move: %w", err)
		}
	}

	if err := d.fileHost.InsertNamespace(reloc.Ref.FilePath, reloc.Namespace); err != nil {
		return fmt.Errorf("insert namespace: %w", err)
	}

	return nil
}

func (d *RuleDriver) record(decision RewriteDecision) {
	d.stats.Considered++

	switch dec := decision.(type) {
	case ReplaceNode:
		d.stats.Replaced++
		d.logger.Debug("replace", "path", d.stats.Path, "from", dec.Ref.Name, "to", dec.Name.String())
	case RelocateDeclaration:
		d.stats.Relocated++
		d.logger.Debug("relocate", "path", d.stats.Path, "from", dec.Ref.Name,
			"to", dec.ShortName, "namespace", dec.Namespace, "target", dec.FilePath)
	case NoChange:
		d.stats.Unchanged++
		d.stats.Reasons[ReasonLabel(dec)]++
	}
}
