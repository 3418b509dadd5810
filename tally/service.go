package tally

import (
	"context"

	"github.com/langpoll/langpoll/events"
	"github.com/langpoll/langpoll/logging"
	"github.com/langpoll/langpoll/storage"
)

// Service owns the poll semantics: consistent counts, an append-only vote
// history, and the shared-key gate in front of the only destructive
// operation. It serializes nothing itself; the store makes each vote atomic.
type Service struct {
	store    storage.OptionStore
	caster   events.VoteCaster
	adminKey string
}

func NewService(store storage.OptionStore, caster events.VoteCaster, adminKey string) *Service {
	if caster == nil {
		caster = events.NoopCaster{}
	}
	return &Service{
		store:    store,
		caster:   caster,
		adminKey: adminKey,
	}
}

func (s *Service) ListOptions(ctx context.Context) ([]*storage.Option, error) {
	options, err := s.store.ListOptions(ctx)
	if err != nil {
		logging.Log.Errorf("TALLY: failed to list options: %v", err)
		return nil, ErrStorageUnavailable
	}
	return options, nil
}

// RecordVote applies one vote and returns the refreshed option list. An empty
// option is "no vote cast" and only refreshes the list; a vote for an option
// the store does not know is a no-op by contract.
func (s *Service) RecordVote(ctx context.Context, option string) ([]*storage.Option, error) {
	if option == "" {
		logging.Log.Warn("TALLY: empty vote received, nothing recorded")
		return s.ListOptions(ctx)
	}

	if err := s.store.RecordVote(ctx, option); err != nil {
		logging.Log.Errorf("TALLY: failed to record vote for %s: %v", option, err)
		return nil, ErrStorageUnavailable
	}

	// downstream consumers are best-effort, a lost event never fails the vote
	if err := s.caster.CastVote(ctx, option); err != nil {
		logging.Log.Warnf("TALLY: failed to publish vote event for %s: %v", option, err)
	}

	return s.ListOptions(ctx)
}

func (s *Service) History(ctx context.Context) ([]*storage.LogEntry, error) {
	entries, err := s.store.History(ctx)
	if err != nil {
		logging.Log.Errorf("TALLY: failed to read history: %v", err)
		return nil, ErrStorageUnavailable
	}
	return entries, nil
}

// ResetHistory clears every count and the log when the provided key matches
// the configured one. Both keys must be non-empty; on mismatch the current,
// untouched history comes back alongside ErrAuthFailed.
func (s *Service) ResetHistory(ctx context.Context, providedKey string) ([]*storage.LogEntry, error) {
	if providedKey == "" || s.adminKey == "" || providedKey != s.adminKey {
		logging.Log.Warn("TALLY: reset refused, key mismatch")
		entries, err := s.History(ctx)
		if err != nil {
			return nil, err
		}
		return entries, ErrAuthFailed
	}

	if err := s.store.ClearAll(ctx); err != nil {
		logging.Log.Errorf("TALLY: failed to clear history: %v", err)
		return nil, ErrStorageUnavailable
	}

	logging.Log.Info("TALLY: history cleared")
	return s.History(ctx)
}
