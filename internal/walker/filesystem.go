package walker

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystem is the read-only view of the filesystem the walker needs.
type FileSystem interface {
	// ReadDir lists a directory sorted by name, reporting symlinks without following them.
	ReadDir(path string) ([]os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	Stat(path string) (os.FileInfo, error)
	// RealPath resolves every symlink in path.
	RealPath(path string) (string, error)
}

type aferoFileSystem struct {
	fileSystem afero.Fs
}

// NewFileSystem adapts an afero filesystem to FileSystem.
func NewFileSystem(fileSystem afero.Fs) FileSystem {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return aferoFileSystem{fileSystem: fileSystem}
}

func (adapter aferoFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	return afero.ReadDir(adapter.fileSystem, path)
}

func (adapter aferoFileSystem) Lstat(path string) (os.FileInfo, error) {
	if lstater, supportsLstat := adapter.fileSystem.(afero.Lstater); supportsLstat {
		info, _, lstatError := lstater.LstatIfPossible(path)
		return info, lstatError
	}
	return adapter.fileSystem.Stat(path)
}

func (adapter aferoFileSystem) Stat(path string) (os.FileInfo, error) {
	return adapter.fileSystem.Stat(path)
}

func (adapter aferoFileSystem) RealPath(path string) (string, error) {
	if _, isOperatingSystem := adapter.fileSystem.(*afero.OsFs); isOperatingSystem {
		return filepath.EvalSymlinks(path)
	}
	return filepath.Clean(path), nil
}
