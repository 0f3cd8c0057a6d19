// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

const errorClipboardWriteFormat = "system clipboard is unavailable: %w"

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	writeAll func(text string) error
}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{writeAll: clipboard.WriteAll}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	writeAll := service.writeAll
	if writeAll == nil {
		writeAll = clipboard.WriteAll
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf(errorClipboardWriteFormat, err)
	}
	return nil
}

var _ Copier = (*Service)(nil)
