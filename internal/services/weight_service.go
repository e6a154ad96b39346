package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/kvstore"
)

// WeightService manages the per-user weight history: at most one entry per
// date, always sorted ascending.
type WeightService struct {
	store domain.KeyValueStore
}

func NewWeightService(store domain.KeyValueStore) *WeightService {
	return &WeightService{store: store}
}

// History returns the stored entries, oldest first. A user with no history
// gets an empty slice, not an error.
func (s *WeightService) History(ctx context.Context, username string) ([]domain.WeightEntry, error) {
	key := kvstore.UserKey(NormalizeUsername(username), kvstore.KindWeightHistory)
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load weight history: %w", err)
	}
	if !ok {
		return []domain.WeightEntry{}, nil
	}
	var entries []domain.WeightEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode weight history: %w", err)
	}
	return entries, nil
}

// AddEntry inserts the entry, replacing any existing entry for the same date,
// and re-sorts the history ascending by date.
func (s *WeightService) AddEntry(ctx context.Context, username string, entry domain.WeightEntry) error {
	entries, err := s.History(ctx, username)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.Date != entry.Date {
			kept = append(kept, e)
		}
	}
	kept = append(kept, entry)
	sort.Slice(kept, func(i, j int) bool { return kept[i].Date < kept[j].Date })

	return s.ReplaceHistory(ctx, username, kept)
}

// ReplaceHistory overwrites the whole history, sorted ascending.
func (s *WeightService) ReplaceHistory(ctx context.Context, username string, entries []domain.WeightEntry) error {
	if entries == nil {
		entries = []domain.WeightEntry{}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode weight history: %w", err)
	}
	key := kvstore.UserKey(NormalizeUsername(username), kvstore.KindWeightHistory)
	if err := s.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save weight history: %w", err)
	}
	return nil
}
