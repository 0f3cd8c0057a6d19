package stream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/fzwalk/internal/config"
	"github.com/temirov/fzwalk/internal/services/stream"
)

type rootEnvironment struct{}

func (rootEnvironment) LookupEnv(string) (string, bool) { return "", false }

func (rootEnvironment) WorkingDirectory() (string, error) { return "/", nil }

func newConfiguration(t *testing.T, fileSystem afero.Fs) config.Configuration {
	t.Helper()
	commandLine := config.DefaultCommandLine()
	commandLine.Path = "/project"
	configuration, err := config.Resolve(commandLine, rootEnvironment{}, fileSystem, zap.NewNop())
	if err != nil {
		t.Fatalf("resolve configuration: %v", err)
	}
	return configuration
}

func newFileSystem(t *testing.T) afero.Fs {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	if err := fileSystem.MkdirAll("/project/nested", 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}
	if err := afero.WriteFile(fileSystem, "/project/nested/example.txt", []byte("tree"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return fileSystem
}

func TestStreamEntriesEmitsEventsWithSummary(t *testing.T) {
	fileSystem := newFileSystem(t)
	configuration := newConfiguration(t, fileSystem)

	events := collectEvents(t, func(ch chan<- stream.Event) error {
		options := stream.TreeOptions{Configuration: configuration, FileSystem: fileSystem}
		return stream.StreamEntries(context.Background(), options, ch)
	})

	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[0].Kind != stream.EventKindStart || events[0].Path != "/project/" {
		t.Fatalf("expected start event for root, got %v %s", events[0].Kind, events[0].Path)
	}
	expectedDisplays := []string{"./nested", "./nested/example.txt"}
	for index, expected := range expectedDisplays {
		event := events[index+1]
		if event.Kind != stream.EventKindEntry || event.Entry == nil {
			t.Fatalf("expected entry event at %d", index+1)
		}
		if event.Entry.Display != expected {
			t.Fatalf("expected display %s, got %s", expected, event.Entry.Display)
		}
		if event.Version != stream.SchemaVersion || event.EmittedAt.IsZero() {
			t.Fatalf("entry event missing envelope fields")
		}
	}
	done := events[3]
	if done.Kind != stream.EventKindDone || done.Summary == nil {
		t.Fatalf("expected done event with summary")
	}
	if done.Summary.Emitted != 2 || done.Summary.DirectoriesRead != 2 {
		t.Fatalf("unexpected summary: %+v", *done.Summary)
	}
}

func TestStreamEntriesRequiresChannel(t *testing.T) {
	fileSystem := newFileSystem(t)
	configuration := newConfiguration(t, fileSystem)
	err := stream.StreamEntries(context.Background(), stream.TreeOptions{Configuration: configuration, FileSystem: fileSystem}, nil)
	if err == nil {
		t.Fatalf("expected error for nil channel")
	}
}

func TestStreamEntriesStopsOnCancellation(t *testing.T) {
	fileSystem := newFileSystem(t)
	configuration := newConfiguration(t, fileSystem)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := make(chan stream.Event)
	err := stream.StreamEntries(ctx, stream.TreeOptions{Configuration: configuration, FileSystem: fileSystem}, events)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func collectEvents(t *testing.T, producer func(chan<- stream.Event) error) []stream.Event {
	t.Helper()
	events := make(chan stream.Event, 32)
	errCh := make(chan error, 1)
	go func() {
		errCh <- producer(events)
		close(events)
	}()

	var out []stream.Event
	for event := range events {
		out = append(out, event)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("producer returned error: %v", err)
	}
	return out
}
