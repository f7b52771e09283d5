package core

import (
	"context"
)

// ControlClient defines the calls made against NZBGet's control API
type ControlClient interface {
	// ListGroups returns the download queue
	ListGroups(ctx context.Context) ([]GroupStats, error)

	// LoadLog returns up to count log entries of a queue item, starting at
	// entry idFrom (0 for the most recent count entries)
	LoadLog(ctx context.Context, nzbID int64, idFrom int64, count int) ([]LogEntry, error)
}

// ControlClientProvider creates a control client on first use, so runs that
// need no statistics never touch the control options
type ControlClientProvider func() (ControlClient, error)

// Mailer defines the interface for delivering a composed notification
type Mailer interface {
	// Send delivers the message to all recipients
	Send(ctx context.Context, msg *Notification) error
}
