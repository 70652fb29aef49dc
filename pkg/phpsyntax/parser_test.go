package phpsyntax_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
)

type refSummary struct {
	name string
	kind migrate.ReferenceKind
}

func summarize(refs []migrate.SymbolicReference) []refSummary {
	out := make([]refSummary, 0, len(refs))
	for _, ref := range refs {
		out = append(out, refSummary{ref.Name, ref.Kind})
	}

	return out
}

func TestParse_References(t *testing.T) {
	t.Parallel()

	f, err := newParser(t).Parse(context.Background(), legacyFile, []byte(legacySource))
	require.NoError(t, err)

	assert.False(t, f.Namespaced)
	assert.Equal(t, len("<?php"), f.InsertAt)
	assert.Equal(t, []refSummary{
		{"JFormFieldExampleParent", migrate.KindDeclaration},
		{"JFormFieldExampleBase", migrate.KindUse},
		{"JFormFieldText", migrate.KindUse},
		{"JFormFieldList", migrate.KindUse},
		{"JText", migrate.KindUse},
		{"JFormFieldExampleChild", migrate.KindUse},
	}, summarize(f.Refs))

	for _, ref := range f.Refs {
		assert.Equal(t, ref.Name, legacySource[ref.Span.Start:ref.Span.End])
		assert.Equal(t, legacyFile, ref.FilePath)
	}
}

func TestParse_SkipsNonClassNames(t *testing.T) {
	t.Parallel()

	src := `<?php
function helper(string $s, self $o): ?array
{
	static::run();
	return strlen($s) + PHP_EOL;
}

interface JFormFieldShape extends \JFormFieldBase {}
trait JFormFieldTrait {}
`

	f, err := newParser(t).Parse(context.Background(), legacyFile, []byte(src))
	require.NoError(t, err)

	names := make([]string, 0, len(f.Refs))
	for _, ref := range f.Refs {
		names = append(names, ref.Name)
	}

	assert.Contains(t, names, "JFormFieldShape")
	assert.Contains(t, names, "JFormFieldTrait")
	assert.NotContains(t, names, "helper")
	assert.NotContains(t, names, "strlen")
	assert.NotContains(t, names, "PHP_EOL")
	assert.NotContains(t, names, "string")
	assert.NotContains(t, names, "self")
	assert.NotContains(t, names, "array")
}

func TestParse_DeclareStatement(t *testing.T) {
	t.Parallel()

	src := "<?php\ndeclare(strict_types=1);\n\nclass JFormFieldX {}\n"

	f, err := newParser(t).Parse(context.Background(), legacyFile, []byte(src))
	require.NoError(t, err)
	assert.Equal(t, len("<?php\ndeclare(strict_types=1);"), f.InsertAt)
}

func TestParse_QualifiedNames(t *testing.T) {
	t.Parallel()

	src := "<?php\n$a = new \\JFormFieldText();\n$b = new Joomla\\CMS\\Form\\FormField();\n"

	f, err := newParser(t).Parse(context.Background(), legacyFile, []byte(src))
	require.NoError(t, err)
	require.Len(t, f.Refs, 1)
	assert.Equal(t, "JFormFieldText", f.Refs[0].Name)
	assert.Equal(t, `\JFormFieldText`, src[f.Refs[0].Span.Start:f.Refs[0].Span.End])
}
