package phpsyntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/phpsyntax"
)

func TestBuffer(t *testing.T) {
	t.Parallel()

	src := []byte("new JFormFieldText();")
	buf := phpsyntax.NewBuffer(src)

	require.NoError(t, buf.Replace(4, 18, `\A\TextField`))
	require.NoError(t, buf.Insert(0, "return "))
	require.NoError(t, buf.Insert(0, "\t"))
	assert.Equal(t, 3, buf.Len())

	out, err := buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "return \tnew \\A\\TextField();", string(out))
	assert.Equal(t, "new JFormFieldText();", string(src), "source is untouched")
}

func TestBuffer_Errors(t *testing.T) {
	t.Parallel()

	buf := phpsyntax.NewBuffer([]byte("abcdef"))

	require.ErrorIs(t, buf.Replace(-1, 2, "x"), phpsyntax.ErrEditOutOfRange)
	require.ErrorIs(t, buf.Replace(3, 2, "x"), phpsyntax.ErrEditOutOfRange)
	require.ErrorIs(t, buf.Insert(7, "x"), phpsyntax.ErrEditOutOfRange)

	require.NoError(t, buf.Replace(1, 4, "x"))
	require.NoError(t, buf.Replace(3, 5, "y"))

	_, err := buf.Bytes()
	require.ErrorIs(t, err, phpsyntax.ErrOverlappingEdits)
}

func TestBuffer_NoEdits(t *testing.T) {
	t.Parallel()

	out, err := phpsyntax.NewBuffer([]byte("<?php\n")).Bytes()
	require.NoError(t, err)
	assert.Equal(t, "<?php\n", string(out))
}
