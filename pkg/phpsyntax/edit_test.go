package phpsyntax_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/phpsyntax"
)

const (
	componentRoot  = "/site/administrator/components/com_example"
	legacyFile     = componentRoot + "/models/fields/example.php"
	namespaceRoot  = `Acme\Example\Administrator`
	fieldNamespace = `Acme\Example\Administrator\Field`
)

const legacySource = `<?php
defined('_JEXEC') or die;

class JFormFieldExampleParent extends JFormFieldExampleBase
{
	public function getInput(JFormFieldText $field)
	{
		if ($field instanceof JFormFieldList) {
			return JText::_('X');
		}

		return new JFormFieldExampleChild();
	}
}
`

const migratedSource = `<?php

namespace Acme\Example\Administrator\Field;

defined('_JEXEC') or die;

class ParentField extends \Acme\Example\Administrator\Field\BaseField
{
	public function getInput(\Acme\Example\Administrator\Field\TextField $field)
	{
		if ($field instanceof \JFormFieldList) {
			return \JText::_('X');
		}

		return new \Acme\Example\Administrator\Field\ChildField();
	}
}
`

func newParser(t *testing.T) *phpsyntax.Parser {
	t.Helper()

	parser, err := phpsyntax.NewParser()
	require.NoError(t, err)

	return parser
}

func newDriver() *migrate.RuleDriver {
	table := migrate.NewPolicyTable(
		migrate.MustLegacyPrefixMapping("JFormField", fieldNamespace, "JFormFieldList"),
	)
	gate := migrate.NewPathGate()
	rewriter := migrate.NewReferenceRewriter(nil, migrate.NewDeclarationRelocator(gate, namespaceRoot))

	return migrate.NewRuleDriver(table, gate, rewriter)
}

func TestRewrite_FormFieldFile(t *testing.T) {
	t.Parallel()

	f, err := newParser(t).Parse(context.Background(), legacyFile, []byte(legacySource))
	require.NoError(t, err)

	res, stats, err := phpsyntax.Rewrite(newDriver(), f)
	require.NoError(t, err)

	assert.Equal(t, migratedSource, string(res.New))
	assert.Equal(t, filepath.FromSlash(componentRoot+"/src/Field/ParentField.php"), res.NewPath)
	assert.True(t, res.Changed())

	assert.Equal(t, 6, stats.Considered)
	assert.Equal(t, 1, stats.Relocated)
	assert.Equal(t, 3, stats.Replaced)
	assert.Equal(t, 1, stats.Reasons["excluded"])
	assert.Equal(t, 1, stats.Reasons["no_match"])
}

func TestRewrite_Idempotent(t *testing.T) {
	t.Parallel()

	parser := newParser(t)

	f, err := parser.Parse(context.Background(), legacyFile, []byte(migratedSource))
	require.NoError(t, err)
	assert.True(t, f.Namespaced)
	assert.Empty(t, f.Refs)

	res, stats, err := phpsyntax.Rewrite(newDriver(), f)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Zero(t, stats.Considered)
}

func TestRewrite_OutsideGate(t *testing.T) {
	t.Parallel()

	path := componentRoot + "/helpers/example.php"

	f, err := newParser(t).Parse(context.Background(), path, []byte(legacySource))
	require.NoError(t, err)

	res, stats, err := phpsyntax.Rewrite(newDriver(), f)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, legacySource, string(res.New))
	assert.True(t, stats.Gated)
	assert.Equal(t, 6, stats.Reasons["gated"])
}

func TestRewrite_UsesOnly(t *testing.T) {
	t.Parallel()

	src := "<?php\n$field = JFormHelper::loadFieldClass('list');\n$x = new JFormFieldText();\n"

	f, err := newParser(t).Parse(context.Background(), legacyFile, []byte(src))
	require.NoError(t, err)

	res, _, err := phpsyntax.Rewrite(newDriver(), f)
	require.NoError(t, err)
	assert.Empty(t, res.NewPath)
	assert.Equal(t,
		"<?php\n$field = JFormHelper::loadFieldClass('list');\n$x = new \\Acme\\Example\\Administrator\\Field\\TextField();\n",
		string(res.New))
}

func TestFileEdit_Conflicts(t *testing.T) {
	t.Parallel()

	f, err := newParser(t).Parse(context.Background(), legacyFile, []byte(legacySource))
	require.NoError(t, err)

	fe := phpsyntax.NewFileEdit(f)

	require.NoError(t, fe.ScheduleMove(legacyFile, "/a/ParentField.php"))
	require.NoError(t, fe.ScheduleMove(legacyFile, "/a/ParentField.php"))
	require.ErrorIs(t, fe.ScheduleMove(legacyFile, "/b/ParentField.php"), phpsyntax.ErrConflictingMove)

	require.NoError(t, fe.InsertNamespace(legacyFile, fieldNamespace))
	require.ErrorIs(t, fe.InsertNamespace(legacyFile, `Acme\Other`), phpsyntax.ErrConflictingNamespace)
	require.ErrorIs(t, fe.InsertNamespace("/other.php", fieldNamespace), phpsyntax.ErrForeignFile)
}

func TestFileEdit_NoOpenTag(t *testing.T) {
	t.Parallel()

	f, err := newParser(t).Parse(context.Background(), legacyFile, []byte("<html></html>\n"))
	require.NoError(t, err)
	assert.Equal(t, -1, f.InsertAt)

	fe := phpsyntax.NewFileEdit(f)
	require.ErrorIs(t, fe.InsertNamespace(legacyFile, fieldNamespace), phpsyntax.ErrNoOpenTag)
}

func TestRewrite_TwoDeclarationsConflict(t *testing.T) {
	t.Parallel()

	src := `<?php
class JFormFieldExampleFirst {}
class JFormFieldExampleSecond extends JFormFieldExampleFirst {}
function make() { return new JFormFieldExampleSecond(); }
`

	f, err := newParser(t).Parse(context.Background(), legacyFile, []byte(src))
	require.NoError(t, err)

	driver := newDriver()

	_, stats, err := phpsyntax.Rewrite(driver, f)
	require.ErrorIs(t, err, phpsyntax.ErrConflictingMove)
	assert.Equal(t, 1, stats.Relocated)
	assert.Equal(t, migrate.Idle, driver.State())

	// The driver is reusable after a failed file.
	f, err = newParser(t).Parse(context.Background(), legacyFile, []byte(legacySource))
	require.NoError(t, err)

	res, _, err := phpsyntax.Rewrite(driver, f)
	require.NoError(t, err)
	assert.Equal(t, migratedSource, string(res.New))
}
