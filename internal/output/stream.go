// Package output renders walk events.
package output

import (
	"github.com/temirov/fzwalk/internal/services/stream"
)

// StreamRenderer consumes events as they are produced; Flush is called once after the last event.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}
