package walker

import (
	"path/filepath"

	"github.com/temirov/fzwalk/internal/types"
)

// Node is a filesystem object met during the walk. Nodes are not retained after their gate decision.
type Node struct {
	Path       string
	Depth      int
	Kind       types.Kind
	Attributes types.Attributes
	// Traversable is set for directories and symlinks whose target is a directory.
	Traversable bool
	lineage     *lineage
}

// lineage is the chain of resolved real paths from the root down to a directory.
type lineage struct {
	realPath string
	parent   *lineage
}

func (chain *lineage) extend(realPath string) *lineage {
	return &lineage{realPath: realPath, parent: chain}
}

func (chain *lineage) contains(realPath string) bool {
	for current := chain; current != nil; current = current.parent {
		if current.realPath == realPath {
			return true
		}
	}
	return false
}

// childRealPath returns the real path of a non-symlink child of the lineage head.
func (chain *lineage) childRealPath(name string) string {
	if chain == nil {
		return ""
	}
	return filepath.Join(chain.realPath, name)
}
