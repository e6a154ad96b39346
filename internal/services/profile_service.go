package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/energy"
	"github.com/caloflow/caloflow/internal/kvstore"
	"github.com/caloflow/caloflow/internal/logger"
	"github.com/caloflow/caloflow/internal/utils"
	"github.com/google/uuid"
)

// ProfileService manages user profiles. Saving always re-derives BMR/TDEE
// and records today's weight, so callers can never persist stale energy
// values or skip the daily check-in.
type ProfileService struct {
	store   domain.KeyValueStore
	weights domain.WeightService
}

func NewProfileService(store domain.KeyValueStore, weights domain.WeightService) *ProfileService {
	return &ProfileService{store: store, weights: weights}
}

// Get returns the stored profile, or nil when the user has none yet.
func (s *ProfileService) Get(ctx context.Context, username string) (*domain.UserProfile, error) {
	key := kvstore.UserKey(NormalizeUsername(username), kvstore.KindProfile)
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// Save persists the draft with freshly derived energy fields and upserts
// today's weight entry with the draft's current weight. The two writes are
// sequential, not transactional; a failure between them is repaired by the
// next save.
func (s *ProfileService) Save(ctx context.Context, username string, draft *domain.UserProfile) (*domain.UserProfile, error) {
	username = NormalizeUsername(username)

	profile := *draft
	profile.Username = username
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}

	derived := energy.Compute(profile.CurrentWeightKg, profile.HeightCm, profile.Age, profile.Sex, profile.ActivityLevel)
	profile.BMR = derived.BMR
	profile.TDEE = derived.TDEE

	data, err := json.Marshal(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	key := kvstore.UserKey(username, kvstore.KindProfile)
	if err := s.store.Set(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	entry := domain.WeightEntry{Date: utils.Today(), WeightKg: profile.CurrentWeightKg}
	if err := s.weights.AddEntry(ctx, username, entry); err != nil {
		return nil, fmt.Errorf("failed to record weight check-in: %w", err)
	}

	logger.Info("profile saved", "username", username, "bmr", profile.BMR, "tdee", profile.TDEE)
	return &profile, nil
}

// GetTheme returns the stored theme preference, defaulting to vitality.
func (s *ProfileService) GetTheme(ctx context.Context, username string) (domain.ThemeName, error) {
	key := kvstore.UserKey(NormalizeUsername(username), kvstore.KindTheme)
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to load theme: %w", err)
	}
	if !ok || len(data) == 0 {
		return domain.DefaultTheme, nil
	}
	return domain.ThemeName(data), nil
}

// SaveTheme stores the theme preference.
func (s *ProfileService) SaveTheme(ctx context.Context, username string, theme domain.ThemeName) error {
	key := kvstore.UserKey(NormalizeUsername(username), kvstore.KindTheme)
	if err := s.store.Set(ctx, key, []byte(theme)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}
