package core

import "context"

// Notifier delivers human readable training events to an external channel
type Notifier interface {
	Notify(string)
	OnError(err error)
}

type NotifierWithStart interface {
	Notifier
	Start()
}

// Checkpointer saves and restores opaque model state alongside a backup.
// Implemented by the training process; the dashboard never interprets the bytes.
type Checkpointer interface {
	Checkpoint(ctx context.Context) ([]byte, error)
	Restore(ctx context.Context, state []byte) error
}
