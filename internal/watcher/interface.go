package watcher

import "context"

// Watcher defines the interface for plans directory monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles a newly dropped plan file
type EventHandler func(ctx context.Context, planPath string) error
