package output_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/temirov/fzwalk/internal/output"
	"github.com/temirov/fzwalk/internal/services/stream"
	"github.com/temirov/fzwalk/internal/types"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

func entryEvent(display string) stream.Event {
	return stream.Event{Kind: stream.EventKindEntry, Entry: &types.Entry{Display: display}}
}

func TestRawStreamRendererWritesEntries(t *testing.T) {
	t.Parallel()

	events := []stream.Event{
		{Kind: stream.EventKindStart, Path: "/data/"},
		entryEvent("./a.txt"),
		entryEvent("./sub"),
		{Kind: stream.EventKindEntry},
		entryEvent("./sub/b.txt"),
		{Kind: stream.EventKindDone, Summary: &types.Summary{Emitted: 3}},
	}

	testCases := []struct {
		name     string
		options  output.RawOptions
		expected string
	}{
		{
			name:     "newline terminated",
			expected: "./a.txt\n./sub\n./sub/b.txt\n",
		},
		{
			name:     "null terminated",
			options:  output.RawOptions{NullTerminated: true},
			expected: "./a.txt\x00./sub\x00./sub/b.txt\x00",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var stdout bytes.Buffer
			renderer := output.NewRawStreamRenderer(&stdout, testCase.options)
			for _, event := range events {
				if err := renderer.Handle(event); err != nil {
					t.Fatalf("Handle error: %v", err)
				}
			}
			if stdout.Len() != 0 {
				t.Fatalf("expected buffered output before flush, got %q", stdout.String())
			}
			if err := renderer.Flush(); err != nil {
				t.Fatalf("Flush error: %v", err)
			}
			if stdout.String() != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, stdout.String())
			}
		})
	}
}

func TestRawStreamRendererIgnoresErrorEvents(t *testing.T) {
	var stdout bytes.Buffer
	copier := &recordingCopier{}
	renderer := output.NewRawStreamRenderer(&stdout, output.RawOptions{Copier: copier})
	if err := renderer.Handle(stream.Event{Kind: stream.EventKindError, Err: &stream.ErrorEvent{Message: "walking /data/: boom"}}); err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if err := renderer.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if stdout.Len() != 0 || len(copier.copied) != 0 {
		t.Fatalf("error event rendered: stdout %q, clipboard %q", stdout.String(), copier.copied)
	}
}

func TestRawStreamRendererCopiesToClipboard(t *testing.T) {
	var stdout bytes.Buffer
	copier := &recordingCopier{}
	renderer := output.NewRawStreamRenderer(&stdout, output.RawOptions{Copier: copier})
	for _, display := range []string{"./a.txt", "./sub"} {
		if err := renderer.Handle(entryEvent(display)); err != nil {
			t.Fatalf("Handle error: %v", err)
		}
	}
	if err := renderer.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if len(copier.copied) != 1 || copier.copied[0] != "./a.txt\n./sub\n" {
		t.Fatalf("unexpected clipboard content %q", copier.copied)
	}
	if stdout.String() != "./a.txt\n./sub\n" {
		t.Fatalf("clipboard copy must not replace stdout output, got %q", stdout.String())
	}
}

func TestRawStreamRendererSkipsEmptyClipboardAndWrapsFailures(t *testing.T) {
	var stdout bytes.Buffer
	emptyCopier := &recordingCopier{}
	renderer := output.NewRawStreamRenderer(&stdout, output.RawOptions{Copier: emptyCopier})
	if err := renderer.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if len(emptyCopier.copied) != 0 {
		t.Fatalf("expected no clipboard copy without entries")
	}

	failure := errors.New("clipboard unavailable")
	failingCopier := &recordingCopier{err: failure}
	renderer = output.NewRawStreamRenderer(&stdout, output.RawOptions{Copier: failingCopier})
	if err := renderer.Handle(entryEvent("./a.txt")); err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if err := renderer.Flush(); !errors.Is(err, failure) {
		t.Fatalf("expected wrapped clipboard failure, got %v", err)
	}
}
