package migrate_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
)

var errMoveRefused = errors.New("move refused")

type recordingHost struct {
	migrate.TextBuilder

	moves      map[string]string
	namespaces map[string]string
	moveErr    error
}

func newRecordingHost() *recordingHost {
	return &recordingHost{moves: map[string]string{}, namespaces: map[string]string{}}
}

func (h *recordingHost) ScheduleMove(oldPath, newPath string) error {
	if h.moveErr != nil {
		return h.moveErr
	}

	h.moves[oldPath] = newPath

	return nil
}

func (h *recordingHost) InsertNamespace(filePath, ns string) error {
	h.namespaces[filePath] = ns

	return nil
}

func newDriver(host migrate.Host) *migrate.RuleDriver {
	table := migrate.NewPolicyTable(
		migrate.MustLegacyPrefixMapping(fieldPrefix, fieldNamespace, "JFormFieldException"),
	)
	gate := migrate.NewPathGate()
	rewriter := migrate.NewReferenceRewriter(nil, migrate.NewDeclarationRelocator(gate, namespaceRoot))

	return migrate.NewRuleDriver(table, gate, rewriter, migrate.WithHost(host))
}

func TestRuleDriver_StateMachine(t *testing.T) {
	t.Parallel()

	d := newDriver(nil)
	assert.Equal(t, migrate.Idle, d.State())

	nc, ok := d.Consider(migrate.SymbolicReference{Name: "JFormFieldText", Kind: migrate.KindUse}).(migrate.NoChange)
	require.True(t, ok)
	assert.True(t, nc.Because(migrate.ErrNoFile))

	require.NoError(t, d.EnterFile(legacyFile, nil))
	assert.Equal(t, migrate.FileEntered, d.State())
	require.ErrorIs(t, d.EnterFile(legacyFile, nil), migrate.ErrFileInProgress)

	d.Consider(migrate.SymbolicReference{Name: "JFormFieldText", Kind: migrate.KindUse, Span: migrate.Span{Start: 1, End: 2}})
	assert.Equal(t, migrate.FileEntered, d.State())

	stats := d.LeaveFile()
	assert.Equal(t, migrate.Idle, d.State())
	assert.Equal(t, 1, stats.Considered)
	assert.Equal(t, 1, stats.Replaced)
	assert.True(t, stats.Changed())
	assert.Empty(t, d.File())
}

func TestRuleDriver_ScenarioFormField(t *testing.T) {
	t.Parallel()

	host := newRecordingHost()
	d := newDriver(host)

	decl := migrate.SymbolicReference{
		Name: "JFormFieldExampleParent", Kind: migrate.KindDeclaration,
		FilePath: legacyFile, Span: migrate.Span{Start: 12, End: 35},
	}
	parent := migrate.SymbolicReference{
		Name: "JFormFieldExampleBase", Kind: migrate.KindUse,
		FilePath: legacyFile, Span: migrate.Span{Start: 44, End: 65},
	}

	reloc, ok := d.ConsiderNode(decl, legacyFile).(migrate.RelocateDeclaration)
	require.True(t, ok)
	assert.Equal(t, "ParentField", reloc.ShortName)

	replace, ok := d.ConsiderNode(parent, legacyFile).(migrate.ReplaceNode)
	require.True(t, ok)
	assert.Equal(t, `\Acme\Example\Administrator\Field\BaseField`, replace.Node.Source())

	assert.Equal(t, fieldNamespace, host.namespaces[legacyFile])
	assert.Equal(t, filepath.FromSlash(componentRoot+"/src/Field/ParentField.php"), host.moves[legacyFile])

	stats := d.LeaveFile()
	assert.Equal(t, 1, stats.Relocated)
	assert.Equal(t, 1, stats.Replaced)
}

func TestRuleDriver_PathGateMakesFileInert(t *testing.T) {
	t.Parallel()

	host := newRecordingHost()
	d := newDriver(host)
	outside := componentRoot + "/services/example.php"

	for i, name := range []string{"JFormFieldExampleParent", "JFormFieldText"} {
		ref := migrate.SymbolicReference{Name: name, Kind: migrate.KindDeclaration, Span: migrate.Span{Start: i, End: i + 1}}

		nc, ok := d.ConsiderNode(ref, outside).(migrate.NoChange)
		require.True(t, ok)
		assert.True(t, nc.Because(migrate.ErrPathGated))
	}

	stats := d.LeaveFile()
	assert.True(t, stats.Gated)
	assert.Equal(t, 2, stats.Reasons["gated"])
	assert.Empty(t, host.moves)
	assert.Empty(t, host.namespaces)
}

func TestRuleDriver_ExcludedAndUnmatchedNames(t *testing.T) {
	t.Parallel()

	d := newDriver(nil)

	for i, name := range []string{"JFormFieldException", "ExampleHelper", "JText", ""} {
		ref := migrate.SymbolicReference{Name: name, Kind: migrate.KindUse, Span: migrate.Span{Start: i, End: i + 1}}

		decision := d.ConsiderNode(ref, legacyFile)
		assert.False(t, decision.Changed(), name)
	}

	stats := d.LeaveFile()
	assert.Equal(t, 1, stats.Reasons["excluded"])
	assert.Equal(t, 2, stats.Reasons["no_match"])
	assert.Equal(t, 1, stats.Reasons["ambiguous"])
}

func TestRuleDriver_Idempotent(t *testing.T) {
	t.Parallel()

	d := newDriver(nil)

	for i, name := range []string{"ParentField", `Acme\Example\Administrator\Field\ParentField`} {
		ref := migrate.SymbolicReference{Name: name, Kind: migrate.KindUse, Span: migrate.Span{Start: i, End: i + 1}}

		nc, ok := d.ConsiderNode(ref, legacyFile).(migrate.NoChange)
		require.True(t, ok)
		assert.True(t, nc.Because(migrate.ErrNoMatch))
	}
}

func TestRuleDriver_NodeVisitedOnce(t *testing.T) {
	t.Parallel()

	d := newDriver(nil)
	ref := migrate.SymbolicReference{Name: "JFormFieldText", Kind: migrate.KindUse, Span: migrate.Span{Start: 5, End: 19}}

	assert.True(t, d.ConsiderNode(ref, legacyFile).Changed())

	nc, ok := d.ConsiderNode(ref, legacyFile).(migrate.NoChange)
	require.True(t, ok)
	assert.True(t, nc.Because(migrate.ErrAlreadyVisited))

	// A new file resets the visit set.
	other := componentRoot + "/models/fields/other.php"
	assert.True(t, d.ConsiderNode(ref, other).Changed())
	assert.Equal(t, other, d.File())
}

func TestRuleDriver_HostErrorIsNoChange(t *testing.T) {
	t.Parallel()

	host := newRecordingHost()
	host.moveErr = errMoveRefused
	d := newDriver(host)

	ref := migrate.SymbolicReference{Name: "JFormFieldExampleParent", Kind: migrate.KindDeclaration}

	nc, ok := d.ConsiderNode(ref, legacyFile).(migrate.NoChange)
	require.True(t, ok)
	assert.True(t, nc.Because(errMoveRefused))
	assert.Equal(t, "host_error", migrate.ReasonLabel(nc))
	assert.Empty(t, host.namespaces, "nothing is half applied")
}

func TestDecisionLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unchanged", migrate.DecisionKind(migrate.NoChange{}))
	assert.Equal(t, "replaced", migrate.DecisionKind(migrate.ReplaceNode{}))
	assert.Equal(t, "relocated", migrate.DecisionKind(migrate.RelocateDeclaration{}))
	assert.Equal(t, "none", migrate.ReasonLabel(migrate.NoChange{}))
	assert.Empty(t, migrate.ReasonLabel(migrate.ReplaceNode{}))

	kind, err := migrate.ParseReferenceKind("declaration")
	require.NoError(t, err)
	assert.Equal(t, migrate.KindDeclaration, kind)

	_, err = migrate.ParseReferenceKind("identifier")
	require.ErrorIs(t, err, migrate.ErrUnsupportedNodeKind)
	assert.Equal(t, "use", migrate.KindUse.String())
	assert.Equal(t, "decided", migrate.Decided.String())
}

func TestRuleDriver_SpanlessReferences(t *testing.T) {
	t.Parallel()

	d := newDriver(nil)

	first := d.ConsiderNode(migrate.SymbolicReference{Name: "JFormFieldFoo", Kind: migrate.KindUse}, legacyFile)
	second := d.ConsiderNode(migrate.SymbolicReference{Name: "JFormFieldBar", Kind: migrate.KindUse}, legacyFile)

	foo, ok := first.(migrate.ReplaceNode)
	require.True(t, ok, "%#v", first)
	assert.Equal(t, `\`+fieldNamespace+`\FooField`, foo.Node.Source())

	bar, ok := second.(migrate.ReplaceNode)
	require.True(t, ok, "%#v", second)
	assert.Equal(t, `\`+fieldNamespace+`\BarField`, bar.Node.Source())

	again, ok := d.ConsiderNode(migrate.SymbolicReference{Name: "JFormFieldBar", Kind: migrate.KindUse}, legacyFile).(migrate.NoChange)
	require.True(t, ok)
	assert.True(t, again.Because(migrate.ErrAlreadyVisited))
}
