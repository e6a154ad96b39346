package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/caloflow/caloflow/internal/apperrors"
	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/kvstore"
	"github.com/caloflow/caloflow/internal/logger"
)

// TransferService bundles one user's full record set into a snapshot and
// applies snapshots to a target user. Import is a bulk overwrite, not a
// merge.
type TransferService struct {
	store    domain.KeyValueStore
	profiles domain.ProfileService
	logs     domain.DayLogService
	weights  domain.WeightService
}

func NewTransferService(store domain.KeyValueStore, profiles domain.ProfileService, logs domain.DayLogService, weights domain.WeightService) *TransferService {
	return &TransferService{store: store, profiles: profiles, logs: logs, weights: weights}
}

// Export gathers the profile, full weight history, and every day log found
// under the user's log-key prefix.
func (s *TransferService) Export(ctx context.Context, username string) (*domain.Snapshot, error) {
	username = NormalizeUsername(username)

	profile, err := s.profiles.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	history, err := s.weights.History(ctx, username)
	if err != nil {
		return nil, err
	}

	keys, err := s.store.ListKeysWithPrefix(ctx, kvstore.DayLogPrefix(username))
	if err != nil {
		return nil, fmt.Errorf("failed to list day logs: %w", err)
	}

	logs := make([]domain.DayLog, 0, len(keys))
	for _, key := range keys {
		data, ok, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read day log %q: %w", key, err)
		}
		if !ok {
			continue
		}
		var log domain.DayLog
		if err := json.Unmarshal(data, &log); err != nil {
			return nil, fmt.Errorf("failed to decode day log %q: %w", key, err)
		}
		logs = append(logs, log)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })

	return &domain.Snapshot{
		Username:      username,
		Profile:       profile,
		WeightHistory: history,
		Logs:          logs,
	}, nil
}

// Import decodes the document fully before writing anything, so a malformed
// snapshot fails without touching storage. The profile goes through
// ProfileService.Save, re-deriving BMR/TDEE under the target identity; the
// weight history replaces the target's wholesale.
func (s *TransferService) Import(ctx context.Context, targetUser string, data []byte) error {
	targetUser = NormalizeUsername(targetUser)

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeValidation, "MALFORMED_SNAPSHOT", "failed to decode snapshot")
	}
	if snapshot.Username == "" {
		return apperrors.NewValidationError("snapshot has no username")
	}

	if snapshot.Profile != nil {
		if _, err := s.profiles.Save(ctx, targetUser, snapshot.Profile); err != nil {
			return err
		}
	}

	// a snapshot that omits weightHistory leaves the target's history
	// alone; a present-but-empty array still replaces wholesale
	if snapshot.WeightHistory != nil {
		if err := s.weights.ReplaceHistory(ctx, targetUser, snapshot.WeightHistory); err != nil {
			return err
		}
	}

	for i := range snapshot.Logs {
		if err := s.logs.Save(ctx, targetUser, &snapshot.Logs[i]); err != nil {
			return err
		}
	}

	logger.Info("snapshot imported",
		"source_username", snapshot.Username,
		"target_username", targetUser,
		"logs", len(snapshot.Logs),
		"weight_entries", len(snapshot.WeightHistory))
	return nil
}
