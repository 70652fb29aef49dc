// Package textdiff renders unified line diffs.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines around each hunk.
const DefaultContext = 3

const noNewline = "\\ No newline at end of file\n"

type opLine struct {
	op   byte
	text string
}

// Stats counts changed lines.
type Stats struct {
	Added   int
	Removed int
}

// Unified returns the unified diff from old to new with DefaultContext
// lines of context, or "" when they are equal.
func Unified(oldName, newName string, old, new []byte) string {
	return UnifiedContext(oldName, newName, old, new, DefaultContext)
}

// UnifiedContext is Unified with a custom context width.
func UnifiedContext(oldName, newName string, old, new []byte, context int) string {
	if string(old) == string(new) {
		return ""
	}

	if context < 0 {
		context = 0
	}

	lines := lineOps(string(old), string(new))

	var sb strings.Builder

	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", oldName, newName)

	oldBefore := make([]int, len(lines)+1)
	newBefore := make([]int, len(lines)+1)

	for k, l := range lines {
		oldBefore[k+1], newBefore[k+1] = oldBefore[k], newBefore[k]

		if l.op != '+' {
			oldBefore[k+1]++
		}

		if l.op != '-' {
			newBefore[k+1]++
		}
	}

	for i := 0; i < len(lines); {
		if lines[i].op == ' ' {
			i++

			continue
		}

		start := max(0, i-context)
		last := i

		for j := i; j < len(lines); j++ {
			if lines[j].op != ' ' {
				last = j
			} else if j-last > 2*context {
				break
			}
		}

		end := min(len(lines), last+context+1)

		writeHunk(&sb, lines[start:end], oldBefore[start], oldBefore[end], newBefore[start], newBefore[end])

		i = end
	}

	return sb.String()
}

func writeHunk(sb *strings.Builder, hunk []opLine, oldFrom, oldTo, newFrom, newTo int) {
	fmt.Fprintf(sb, "@@ -%s +%s @@\n", hunkRange(oldFrom, oldTo-oldFrom), hunkRange(newFrom, newTo-newFrom))

	for _, l := range hunk {
		sb.WriteByte(l.op)
		sb.WriteString(l.text)

		if !strings.HasSuffix(l.text, "\n") {
			sb.WriteString("\n")
			sb.WriteString(noNewline)
		}
	}
}

func hunkRange(before, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", before)
	}

	if count == 1 {
		return fmt.Sprintf("%d", before+1)
	}

	return fmt.Sprintf("%d,%d", before+1, count)
}

// Count returns the number of added and removed lines from old to new.
func Count(old, new []byte) Stats {
	var st Stats

	for _, l := range lineOps(string(old), string(new)) {
		switch l.op {
		case '+':
			st.Added++
		case '-':
			st.Removed++
		}
	}

	return st
}

func lineOps(old, new string) []opLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []opLine

	for _, d := range diffs {
		var op byte

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = ' '
		case diffmatchpatch.DiffDelete:
			op = '-'
		case diffmatchpatch.DiffInsert:
			op = '+'
		}

		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text != "" {
				out = append(out, opLine{op: op, text: text})
			}
		}
	}

	return out
}
