package textdiff_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/textdiff"
)

func TestUnified_Equal(t *testing.T) {
	t.Parallel()

	assert.Empty(t, textdiff.Unified("a", "b", []byte("x\n"), []byte("x\n")))
}

func TestUnified_SingleChange(t *testing.T) {
	t.Parallel()

	got := textdiff.Unified("a/x.php", "b/x.php", []byte("a\nb\nc\n"), []byte("a\nB\nc\n"))

	want := "--- a/x.php\n+++ b/x.php\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n"
	assert.Equal(t, want, got)
}

func TestUnified_SeparateHunks(t *testing.T) {
	t.Parallel()

	var oldLines, newLines []string

	for i := 1; i <= 20; i++ {
		oldLines = append(oldLines, fmt.Sprintf("line %d\n", i))
		newLines = append(newLines, fmt.Sprintf("line %d\n", i))
	}

	newLines[1] = "changed 2\n"
	newLines[17] = "changed 18\n"

	got := textdiff.Unified("old", "new", []byte(strings.Join(oldLines, "")), []byte(strings.Join(newLines, "")))

	assert.Equal(t, 2, strings.Count(got, "@@ -"))
	assert.Contains(t, got, "@@ -1,5 +1,5 @@\n")
	assert.Contains(t, got, "@@ -15,6 +15,6 @@\n")
}

func TestUnified_Insertion(t *testing.T) {
	t.Parallel()

	got := textdiff.Unified("old", "new", []byte("<?php\nclass A {}\n"), []byte("<?php\n\nnamespace X;\n\nclass A {}\n"))

	assert.Contains(t, got, "@@ -1,2 +1,5 @@\n")
	assert.Contains(t, got, "+namespace X;\n")
}

func TestUnified_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	got := textdiff.Unified("old", "new", []byte("a"), []byte("b"))

	assert.Equal(t, "--- old\n+++ new\n@@ -1 +1 @@\n-a\n\\ No newline at end of file\n+b\n\\ No newline at end of file\n", got)
}

func TestCount(t *testing.T) {
	t.Parallel()

	st := textdiff.Count([]byte("a\nb\nc\n"), []byte("a\nB\nC\nd\n"))
	assert.Equal(t, textdiff.Stats{Added: 3, Removed: 2}, st)
}
