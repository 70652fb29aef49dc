package migrate

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/namespace"
)

// Relocation defaults, matching the Joomla 4 component layout.
const (
	DefaultBaseDir   = "src"
	DefaultExtension = ".php"
)

// DeclarationRelocator computes where a relocated declaration should live.
// It only computes paths; moving files is up to the host.
type DeclarationRelocator struct {
	// BaseDir is the directory the namespace root maps onto. A relative
	// BaseDir is resolved against the component root of the old path.
	BaseDir string
	// NamespaceRoot is stripped from target namespaces before they are
	// turned into directories.
	NamespaceRoot string
	// Extension is appended to the short name.
	Extension string
	// Gate locates the component root: the part of the old path in front
	// of the first gate marker.
	Gate *PathGate
}

// NewDeclarationRelocator returns a relocator with the default base
// directory and extension.
func NewDeclarationRelocator(gate *PathGate, namespaceRoot string) *DeclarationRelocator {
	return &DeclarationRelocator{
		BaseDir:       DefaultBaseDir,
		NamespaceRoot: namespace.Trim(namespaceRoot),
		Extension:     DefaultExtension,
		Gate:          gate,
	}
}

// ComputeTarget maps newNamespace and newShortName onto a file path.
// Segments of newNamespace outside NamespaceRoot are kept in full.
func (dr *DeclarationRelocator) ComputeTarget(oldPath, newNamespace, newShortName string) string {
	rel, _ := namespace.TrimRoot(newNamespace, dr.NamespaceRoot)

	ext := dr.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	return filepath.Join(dr.base(oldPath), namespace.ToDir(rel), newShortName+ext)
}

func (dr *DeclarationRelocator) base(oldPath string) string {
	if filepath.IsAbs(dr.BaseDir) {
		return filepath.Clean(dr.BaseDir)
	}

	return filepath.Join(dr.ComponentRoot(oldPath), dr.BaseDir)
}

// ComponentRoot returns the directory in front of the first gate marker of
// oldPath, or the directory of oldPath when no marker is present.
func (dr *DeclarationRelocator) ComponentRoot(oldPath string) string {
	if dr.Gate != nil {
		if idx, ok := dr.Gate.Locate(oldPath); ok {
			root := NormalizePath(oldPath)[:idx]
			if root == "" {
				if strings.HasPrefix(NormalizePath(oldPath), "/") {
					return string(filepath.Separator)
				}

				return "."
			}

			return filepath.FromSlash(root)
		}
	}

	return filepath.FromSlash(path.Dir(NormalizePath(oldPath)))
}
