package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/fzwalk/internal/config"
	"github.com/temirov/fzwalk/internal/types"
	"github.com/temirov/fzwalk/internal/walker"
)

const (
	errorNilChannel   = "stream: event channel is nil"
	errorEmptyRoot    = "stream: tree root path is empty"
	errorWalkFormat   = "walking %s: %w"
	infoWalkCompleted = "walk completed"
)

// TreeOptions configures StreamEntries.
type TreeOptions struct {
	Configuration config.Configuration
	// FileSystem defaults to the operating system filesystem.
	FileSystem     afero.Fs
	AttributeProbe walker.AttributeProbe
	Logger         *zap.Logger
}

type emitter struct {
	ctx context.Context
	out chan<- Event
}

func newEmitter(ctx context.Context, out chan<- Event) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return errors.New(errorNilChannel)
	}
	event.Version = SchemaVersion
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

// StreamEntries walks the configured root and sends a start event, one entry event
// per emitted entry and a done event carrying the walk summary.
func StreamEntries(ctx context.Context, opts TreeOptions, out chan<- Event) error {
	root := opts.Configuration.StartDirectory
	if root == "" {
		return errors.New(errorEmptyRoot)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	emitter := newEmitter(ctx, out)
	if err := emitter.send(Event{Kind: EventKindStart, Path: root}); err != nil {
		return err
	}

	walkOptions := walker.Options{
		Configuration:  opts.Configuration,
		FileSystem:     walker.NewFileSystem(opts.FileSystem),
		AttributeProbe: opts.AttributeProbe,
		Logger:         logger,
	}
	summary, walkErr := walker.Walk(emitter.ctx, walkOptions, func(entry types.Entry) error {
		emitted := entry
		return emitter.send(Event{Kind: EventKindEntry, Path: emitted.Path, Entry: &emitted})
	})
	if walkErr != nil {
		wrapped := fmt.Errorf(errorWalkFormat, root, walkErr)
		if emitter.ctx.Err() == nil {
			_ = emitter.send(Event{Kind: EventKindError, Path: root, Err: &ErrorEvent{Message: wrapped.Error()}})
		}
		return wrapped
	}

	logger.Debug(infoWalkCompleted,
		zap.String("root", root),
		zap.Int("emitted", summary.Emitted),
		zap.Int("directories", summary.DirectoriesRead),
		zap.Int("skipped", summary.Skipped),
	)
	return emitter.send(Event{Kind: EventKindDone, Path: root, Summary: &summary})
}
