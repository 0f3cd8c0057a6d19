// Package types defines every cross‑package data structure used by the fzwalk CLI.
package types

// Kind classifies a filesystem entry.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindSymlink
)

// Attributes are the platform file attributes the walker gates on.
// Platforms without such attributes leave Hidden and System unset.
type Attributes struct {
	Hidden    bool
	System    bool
	Directory bool
}

// Entry is one emitted filesystem object.
type Entry struct {
	// Path is absolute for walked entries and the user's string for injected ones.
	Path    string
	Display string
	Depth   int
	Kind    Kind
	// Injected marks included paths emitted ahead of the walk.
	Injected bool
}

// Summary counts the work performed by a walk.
type Summary struct {
	Emitted         int
	DirectoriesRead int
	Skipped         int
}
