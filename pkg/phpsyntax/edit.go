package phpsyntax

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
)

// FileEdit errors.
var (
	ErrConflictingMove      = errors.New("file already scheduled for a different move")
	ErrConflictingNamespace = errors.New("file already given a different namespace")
	ErrNoOpenTag            = errors.New("no php open tag")
	ErrForeignFile          = errors.New("edit belongs to another file")
)

// Result is the outcome of editing one file.
type Result struct {
	Path string
	// NewPath is the scheduled destination, empty when the file stays put.
	NewPath string
	Old     []byte
	New     []byte
}

// Changed reports whether the file content or location changes.
func (r Result) Changed() bool {
	return r.NewPath != "" || !bytes.Equal(r.Old, r.New)
}

// FileEdit is the migrate.Host for one parsed file. It collects the
// decisions of a RuleDriver and renders the edited source.
type FileEdit struct {
	migrate.TextBuilder

	file       *File
	buf        *Buffer
	namespace  string
	newPath    string
	seen       map[migrate.Span]bool
	unresolved []migrate.SymbolicReference
}

// NewFileEdit starts an edit of f.
func NewFileEdit(f *File) *FileEdit {
	return &FileEdit{file: f, buf: NewBuffer(f.Source), seen: make(map[migrate.Span]bool)}
}

// ScheduleMove implements migrate.FileScheduler. A file moves at most once;
// repeating the same move is allowed.
func (fe *FileEdit) ScheduleMove(oldPath, newPath string) error {
	if err := fe.own(oldPath); err != nil {
		return err
	}

	if fe.newPath != "" && fe.newPath != newPath {
		return fmt.Errorf("%w: %s -> %s, not %s", ErrConflictingMove, oldPath, fe.newPath, newPath)
	}

	fe.newPath = newPath

	return nil
}

// InsertNamespace implements migrate.FileScheduler.
func (fe *FileEdit) InsertNamespace(filePath, ns string) error {
	if err := fe.own(filePath); err != nil {
		return err
	}

	if fe.file.InsertAt < 0 {
		return fmt.Errorf("%w: %s", ErrNoOpenTag, filePath)
	}

	if fe.namespace != "" && fe.namespace != ns {
		return fmt.Errorf("%w: %s has %s, not %s", ErrConflictingNamespace, filePath, fe.namespace, ns)
	}

	fe.namespace = ns

	return nil
}

func (fe *FileEdit) own(filePath string) error {
	if migrate.NormalizePath(filePath) != migrate.NormalizePath(fe.file.Path) {
		return fmt.Errorf("%w: %s", ErrForeignFile, filePath)
	}

	return nil
}

// Apply records the decision taken for ref. Only the first decision for a
// span counts.
func (fe *FileEdit) Apply(ref migrate.SymbolicReference, d migrate.RewriteDecision) error {
	if fe.seen[ref.Span] {
		return nil
	}

	fe.seen[ref.Span] = true

	switch dec := d.(type) {
	case migrate.ReplaceNode:
		return fe.buf.Replace(ref.Span.Start, ref.Span.End, dec.Node.Source())
	case migrate.RelocateDeclaration:
		return fe.buf.Replace(ref.Span.Start, ref.Span.End, dec.Node.Source())
	case migrate.NoChange:
		if ref.Kind == migrate.KindUse {
			fe.unresolved = append(fe.unresolved, ref)
		}
	}

	return nil
}

// Result renders the edited file. When a namespace was inserted, class uses
// left unchanged are made fully qualified so they keep resolving to the
// global namespace.
func (fe *FileEdit) Result() (Result, error) {
	res := Result{Path: fe.file.Path, NewPath: fe.newPath, Old: fe.file.Source}

	if fe.namespace != "" {
		if err := fe.addNamespace(); err != nil {
			return res, err
		}
	}

	out, err := fe.buf.Bytes()
	if err != nil {
		return res, fmt.Errorf("edit %s: %w", fe.file.Path, err)
	}

	res.New = out

	return res, nil
}

func (fe *FileEdit) addNamespace() error {
	src := fe.file.Source
	at := fe.file.InsertAt

	end := at
	for end < len(src) && isSpace(src[end]) {
		end++
	}

	if err := fe.buf.Replace(at, end, "\n\nnamespace "+fe.namespace+";\n\n"); err != nil {
		return fmt.Errorf("insert namespace: %w", err)
	}

	for _, ref := range fe.unresolved {
		if ref.Span.Start < len(src) && src[ref.Span.Start] == '\\' {
			continue
		}

		if err := fe.buf.Insert(ref.Span.Start, `\`); err != nil {
			return fmt.Errorf("qualify %s: %w", ref.Name, err)
		}
	}

	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Rewrite runs driver over every reference of f and renders the result.
// A file declaring two classes that relocate to different files fails with
// ErrConflictingMove: uses of the second class would otherwise point at a
// class that is never created.
func Rewrite(driver *migrate.RuleDriver, f *File) (Result, migrate.FileStats, error) {
	fe := NewFileEdit(f)

	if err := driver.EnterFile(f.Path, fe); err != nil {
		return Result{}, migrate.FileStats{}, fmt.Errorf("enter %s: %w", f.Path, err)
	}

	for _, ref := range f.Refs {
		decision := driver.Consider(ref)

		if nc, ok := decision.(migrate.NoChange); ok && ref.Kind == migrate.KindDeclaration && nc.Because(ErrConflictingMove) {
			stats := driver.LeaveFile()

			return Result{}, stats, fmt.Errorf("relocate %s: %w", ref.Name, nc.Reason)
		}

		if err := fe.Apply(ref, decision); err != nil {
			driver.LeaveFile()

			return Result{}, migrate.FileStats{}, fmt.Errorf("apply %s: %w", ref, err)
		}
	}

	stats := driver.LeaveFile()

	res, err := fe.Result()
	if err != nil {
		return Result{}, stats, err
	}

	return res, stats, nil
}
