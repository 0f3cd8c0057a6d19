// Package walker enumerates a directory tree, applying the configured gates and
// emitting one Entry per accepted filesystem object.
//
// Included paths are emitted first, followed by the root when requested and then
// the walk proper. Each directory's accepted children form one contiguous group.
// The sequential engine emits groups in pre-order, or post-order when deepest-first
// output is requested; the parallel engine keeps groups contiguous but does not
// order them.
package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/temirov/fzwalk/internal/config"
	"github.com/temirov/fzwalk/internal/types"
)

const (
	dotPrefix = "."

	errorNilHandler      = "walker: entry handler is nil"
	errorRootStatFormat  = "could not get metadata for root %s: %w"
	errorRootKindFormat  = "root %s is not a directory"
	warningReadDirectory = "skipping unreadable directory"
	warningMetadata      = "skipping entry with unreadable metadata"
	warningDanglingLink  = "skipping symlink with unreadable target"
	warningRealPath      = "not descending into symlink with unresolvable target"
	warningSymlinkCycle  = "not descending into symlink cycle"
	warningIncludedGone  = "skipping included path that no longer exists"
	debugHiddenRoot      = "root is hidden; not emitting it"
)

// Options configures a walk.
type Options struct {
	Configuration config.Configuration
	// FileSystem defaults to the operating system filesystem.
	FileSystem FileSystem
	// AttributeProbe defaults to the probe of the running platform.
	AttributeProbe AttributeProbe
	Logger         *zap.Logger
}

type walker struct {
	configuration  config.Configuration
	fileSystem     FileSystem
	attributeProbe AttributeProbe
	logger         *zap.Logger
	handler        func(types.Entry) error

	emitMutex       sync.Mutex
	emitted         atomic.Int64
	directoriesRead atomic.Int64
	skipped         atomic.Int64
}

// expansion is the outcome of reading one directory.
type expansion struct {
	entries []types.Entry
	descend []Node
}

// Walk traverses options.Configuration.StartDirectory and passes every accepted entry to handler.
// Per-entry I/O failures are logged and counted in the summary; handler errors and
// context cancellation abort the walk.
func Walk(ctx context.Context, options Options, handler func(types.Entry) error) (types.Summary, error) {
	if handler == nil {
		return types.Summary{}, errors.New(errorNilHandler)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	walker := newWalker(options, handler)
	if err := walker.emitIncluded(ctx); err != nil {
		return walker.summary(), err
	}

	root, rootError := walker.rootNode()
	if rootError != nil {
		return walker.summary(), rootError
	}
	if err := walker.emitRoot(root); err != nil {
		return walker.summary(), err
	}
	if !walker.withinDepth(root.Depth) {
		return walker.summary(), nil
	}

	var walkError error
	switch {
	case walker.configuration.Workers > 1:
		walkError = walker.walkParallel(ctx, root)
	case walker.configuration.DeepestFirst:
		walkError = walker.walkDeepestFirst(ctx, root)
	default:
		walkError = walker.walkPreOrder(ctx, root)
	}
	return walker.summary(), walkError
}

func newWalker(options Options, handler func(types.Entry) error) *walker {
	walker := &walker{
		configuration:  options.Configuration,
		fileSystem:     options.FileSystem,
		attributeProbe: options.AttributeProbe,
		logger:         options.Logger,
		handler:        handler,
	}
	if walker.fileSystem == nil {
		walker.fileSystem = NewFileSystem(nil)
	}
	if walker.attributeProbe == nil {
		walker.attributeProbe = NewAttributeProbe()
	}
	if walker.logger == nil {
		walker.logger = zap.NewNop()
	}
	if walker.configuration.MaxDepth < 0 {
		walker.configuration.MaxDepth = config.UnlimitedDepth
	}
	return walker
}

func (walker *walker) summary() types.Summary {
	return types.Summary{
		Emitted:         int(walker.emitted.Load()),
		DirectoriesRead: int(walker.directoriesRead.Load()),
		Skipped:         int(walker.skipped.Load()),
	}
}

// withinDepth reports whether a directory at depth may be read.
func (walker *walker) withinDepth(depth int) bool {
	return depth < walker.configuration.MaxDepth
}

func (walker *walker) skip(message string, path string, cause error) {
	walker.skipped.Add(1)
	walker.logger.Warn(message, zap.String("path", path), zap.Error(cause))
}

// emitGroup passes entries to the handler without interleaving other groups.
func (walker *walker) emitGroup(entries []types.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	walker.emitMutex.Lock()
	defer walker.emitMutex.Unlock()
	for _, entry := range entries {
		if err := walker.handler(entry); err != nil {
			return err
		}
		walker.emitted.Add(1)
	}
	return nil
}

func (walker *walker) emitIncluded(ctx context.Context) error {
	for _, includedPath := range walker.configuration.IncludedPaths {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, lstatError := walker.fileSystem.Lstat(includedPath)
		if lstatError != nil {
			walker.skip(warningIncludedGone, includedPath, lstatError)
			continue
		}
		entry := types.Entry{
			Path:     includedPath,
			Display:  includedPath,
			Kind:     kindOf(info, types.Attributes{}),
			Injected: true,
		}
		if err := walker.emitGroup([]types.Entry{entry}); err != nil {
			return err
		}
	}
	return nil
}

func (walker *walker) rootNode() (Node, error) {
	rootPath := filepath.Clean(walker.configuration.StartDirectory)
	info, statError := walker.fileSystem.Stat(rootPath)
	if statError != nil {
		return Node{}, fmt.Errorf(errorRootStatFormat, rootPath, statError)
	}
	if !info.IsDir() {
		return Node{}, fmt.Errorf(errorRootKindFormat, rootPath)
	}
	realPath, realPathError := walker.fileSystem.RealPath(rootPath)
	if realPathError != nil {
		realPath = rootPath
	}
	var origin *lineage
	return Node{
		Path:        rootPath,
		Kind:        types.KindDirectory,
		Attributes:  walker.attributeProbe.Attributes(rootPath, info),
		Traversable: true,
		lineage:     origin.extend(realPath),
	}, nil
}

// emitRoot emits the root regardless of the file, directory and dot gates.
func (walker *walker) emitRoot(root Node) error {
	if !walker.configuration.ShowRoot {
		return nil
	}
	if root.Attributes.Hidden && !walker.configuration.ShowHidden && !isVolumeRootOverride(root.Path, root.Attributes) {
		walker.logger.Debug(debugHiddenRoot, zap.String("path", root.Path))
		return nil
	}
	return walker.emitGroup([]types.Entry{{
		Path:    root.Path,
		Display: walker.configuration.Display(walker.configuration.StartDirectory),
		Kind:    types.KindDirectory,
	}})
}

// expand reads a directory and applies the gates to its children.
func (walker *walker) expand(directory Node) expansion {
	infos, readError := walker.fileSystem.ReadDir(directory.Path)
	if readError != nil {
		walker.skip(warningReadDirectory, directory.Path, readError)
		return expansion{}
	}
	walker.directoriesRead.Add(1)

	var result expansion
	childDepth := directory.Depth + 1
	for _, info := range infos {
		child, admitted := walker.admit(directory, info, childDepth)
		if !admitted {
			continue
		}
		if walker.visible(child) {
			result.entries = append(result.entries, types.Entry{
				Path:    child.Path,
				Display: walker.configuration.Display(child.Path),
				Depth:   child.Depth,
				Kind:    child.Kind,
			})
		}
		if child.lineage != nil && walker.withinDepth(child.Depth) {
			result.descend = append(result.descend, child)
		}
	}
	return result
}

// admit applies the depth, name, dot and hidden gates. An admitted node carries a
// lineage only when it may be descended into.
func (walker *walker) admit(parent Node, info os.FileInfo, depth int) (Node, bool) {
	if depth > walker.configuration.MaxDepth {
		return Node{}, false
	}
	name := info.Name()
	if name == "" || walker.configuration.IsExcluded(name) {
		return Node{}, false
	}
	if !walker.configuration.ShowDots && strings.HasPrefix(name, dotPrefix) {
		return Node{}, false
	}

	childPath := filepath.Join(parent.Path, name)
	attributes := walker.attributeProbe.Attributes(childPath, info)
	if attributes.Hidden && !walker.configuration.ShowHidden {
		return Node{}, false
	}

	child := Node{
		Path:       childPath,
		Depth:      depth,
		Kind:       kindOf(info, attributes),
		Attributes: attributes,
	}
	switch child.Kind {
	case types.KindSymlink:
		target, statError := walker.fileSystem.Stat(childPath)
		if statError != nil {
			walker.skip(warningDanglingLink, childPath, statError)
			return Node{}, false
		}
		child.Traversable = target.IsDir()
		if child.Traversable && walker.configuration.FollowLinks {
			child.lineage = walker.linkLineage(parent, childPath)
		}
	case types.KindDirectory:
		child.Traversable = true
		child.lineage = parent.lineage.extend(parent.lineage.childRealPath(name))
	}
	return child, true
}

// linkLineage resolves a symlinked directory, refusing targets that are already on the path from the root.
func (walker *walker) linkLineage(parent Node, linkPath string) *lineage {
	realPath, realPathError := walker.fileSystem.RealPath(linkPath)
	if realPathError != nil {
		walker.skip(warningRealPath, linkPath, realPathError)
		return nil
	}
	if parent.lineage.contains(realPath) {
		walker.skipped.Add(1)
		walker.logger.Warn(warningSymlinkCycle, zap.String("path", linkPath), zap.String("target", realPath))
		return nil
	}
	return parent.lineage.extend(realPath)
}

// visible applies the hide-files and hide-directories switches.
func (walker *walker) visible(node Node) bool {
	if node.Traversable {
		return walker.configuration.ShowDirectories
	}
	return walker.configuration.ShowFiles
}

func kindOf(info os.FileInfo, attributes types.Attributes) types.Kind {
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return types.KindSymlink
	case info.IsDir() || attributes.Directory:
		return types.KindDirectory
	default:
		return types.KindFile
	}
}

func (walker *walker) walkPreOrder(ctx context.Context, root Node) error {
	stack := []Node{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		directory := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		group := walker.expand(directory)
		if err := walker.emitGroup(group.entries); err != nil {
			return err
		}
		for index := len(group.descend) - 1; index >= 0; index-- {
			stack = append(stack, group.descend[index])
		}
	}
	return nil
}

// pendingDirectory is an expanded directory whose group waits for its subdirectories.
type pendingDirectory struct {
	group expansion
	next  int
}

func (walker *walker) walkDeepestFirst(ctx context.Context, root Node) error {
	pending := []pendingDirectory{{group: walker.expand(root)}}
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		top := len(pending) - 1
		if pending[top].next < len(pending[top].group.descend) {
			subdirectory := pending[top].group.descend[pending[top].next]
			pending[top].next++
			pending = append(pending, pendingDirectory{group: walker.expand(subdirectory)})
			continue
		}
		if err := walker.emitGroup(pending[top].group.entries); err != nil {
			return err
		}
		pending = pending[:top]
	}
	return nil
}
