package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/fzwalk/internal/services/clipboard"
	"github.com/temirov/fzwalk/internal/services/stream"
)

const (
	lineTerminator = '\n'
	nullTerminator = '\x00'

	errorWriteEntryFormat = "writing %s: %w"
	errorFlushFormat      = "flushing output: %w"
	errorClipboardFormat  = "copying output to clipboard: %w"
)

// RawOptions configures the line renderer.
type RawOptions struct {
	// NullTerminated ends every line with NUL instead of a newline.
	NullTerminated bool
	// Copier receives the complete output on Flush when set.
	Copier clipboard.Copier
}

type rawStreamRenderer struct {
	writer     *bufio.Writer
	terminator byte
	copier     clipboard.Copier
	collected  strings.Builder
}

// NewRawStreamRenderer writes one display path per entry event. Error events are not
// rendered; the producer returns the same error to the caller.
func NewRawStreamRenderer(stdout io.Writer, options RawOptions) StreamRenderer {
	terminator := byte(lineTerminator)
	if options.NullTerminated {
		terminator = nullTerminator
	}
	return &rawStreamRenderer{
		writer:     bufio.NewWriter(stdout),
		terminator: terminator,
		copier:     options.Copier,
	}
}

func (renderer *rawStreamRenderer) Handle(event stream.Event) error {
	if event.Kind != stream.EventKindEntry || event.Entry == nil {
		return nil
	}
	return renderer.writeLine(event.Entry.Display)
}

func (renderer *rawStreamRenderer) writeLine(display string) error {
	if _, err := renderer.writer.WriteString(display); err != nil {
		return fmt.Errorf(errorWriteEntryFormat, display, err)
	}
	if err := renderer.writer.WriteByte(renderer.terminator); err != nil {
		return fmt.Errorf(errorWriteEntryFormat, display, err)
	}
	if renderer.copier != nil {
		renderer.collected.WriteString(display)
		renderer.collected.WriteByte(renderer.terminator)
	}
	return nil
}

func (renderer *rawStreamRenderer) Flush() error {
	if err := renderer.writer.Flush(); err != nil {
		return fmt.Errorf(errorFlushFormat, err)
	}
	if renderer.copier == nil || renderer.collected.Len() == 0 {
		return nil
	}
	if err := renderer.copier.Copy(renderer.collected.String()); err != nil {
		return fmt.Errorf(errorClipboardFormat, err)
	}
	return nil
}
