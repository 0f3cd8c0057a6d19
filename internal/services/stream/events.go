package stream

import (
	"time"

	"github.com/temirov/fzwalk/internal/types"
)

const SchemaVersion = 1

type EventKind string

const (
	EventKindStart EventKind = "start"
	EventKindEntry EventKind = "entry"
	EventKindError EventKind = "error"
	EventKindDone  EventKind = "done"
)

type Event struct {
	Version   int
	Kind      EventKind
	Path      string
	EmittedAt time.Time

	Entry   *types.Entry
	Summary *types.Summary
	Err     *ErrorEvent
}

type ErrorEvent struct {
	Message string
}
