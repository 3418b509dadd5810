package storage

import "context"

// OptionStore is the pluggable poll backend. A vote is a single storage call
// that increments the option's pick count and appends a log entry together;
// the two must never diverge, even under concurrent votes. Voting for an
// option that does not exist is a silent no-op.
type OptionStore interface {
	ListOptions(ctx context.Context) ([]*Option, error)
	RecordVote(ctx context.Context, option string) error
	History(ctx context.Context) ([]*LogEntry, error)
	ClearAll(ctx context.Context) error
	EnsureOptions(ctx context.Context, names []string) error
}
