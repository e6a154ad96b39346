package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caloflow/caloflow/internal/apperrors"
	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/kvstore"
)

// DayLogService manages per-date logs. Every mutation is read-modify-write:
// the whole log is loaded, changed in memory, and rewritten under its key.
type DayLogService struct {
	store domain.KeyValueStore
}

func NewDayLogService(store domain.KeyValueStore) *DayLogService {
	return &DayLogService{store: store}
}

// Get returns the log for the date. A date never saved yields a fresh empty
// log, not an error.
func (s *DayLogService) Get(ctx context.Context, username, date string) (*domain.DayLog, error) {
	key := kvstore.DayLogKey(NormalizeUsername(username), date)
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load day log: %w", err)
	}
	if !ok {
		return emptyLog(date), nil
	}
	var log domain.DayLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("failed to decode day log: %w", err)
	}
	if log.Foods == nil {
		log.Foods = []domain.FoodItem{}
	}
	if log.Exercises == nil {
		log.Exercises = []domain.ExerciseItem{}
	}
	return &log, nil
}

// Save overwrites the full (user, date) record.
func (s *DayLogService) Save(ctx context.Context, username string, log *domain.DayLog) error {
	if log.Date == "" {
		return apperrors.NewValidationError("day log date is required")
	}
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to encode day log: %w", err)
	}
	key := kvstore.DayLogKey(NormalizeUsername(username), log.Date)
	if err := s.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save day log: %w", err)
	}
	return nil
}

// AddFood appends the item to the date's log and returns the updated log.
func (s *DayLogService) AddFood(ctx context.Context, username, date string, item domain.FoodItem) (*domain.DayLog, error) {
	log, err := s.Get(ctx, username, date)
	if err != nil {
		return nil, err
	}
	log.Foods = append(log.Foods, item)
	if err := s.Save(ctx, username, log); err != nil {
		return nil, err
	}
	return log, nil
}

// RemoveFood deletes the food at index, preserving the order of the rest.
func (s *DayLogService) RemoveFood(ctx context.Context, username, date string, index int) (*domain.DayLog, error) {
	log, err := s.Get(ctx, username, date)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(log.Foods) {
		return nil, apperrors.NewValidationError("food index out of range")
	}
	log.Foods = append(log.Foods[:index], log.Foods[index+1:]...)
	if err := s.Save(ctx, username, log); err != nil {
		return nil, err
	}
	return log, nil
}

// AddExercise appends the item to the date's log and returns the updated log.
func (s *DayLogService) AddExercise(ctx context.Context, username, date string, item domain.ExerciseItem) (*domain.DayLog, error) {
	log, err := s.Get(ctx, username, date)
	if err != nil {
		return nil, err
	}
	log.Exercises = append(log.Exercises, item)
	if err := s.Save(ctx, username, log); err != nil {
		return nil, err
	}
	return log, nil
}

// RemoveExercise deletes the exercise at index, preserving order of the rest.
func (s *DayLogService) RemoveExercise(ctx context.Context, username, date string, index int) (*domain.DayLog, error) {
	log, err := s.Get(ctx, username, date)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(log.Exercises) {
		return nil, apperrors.NewValidationError("exercise index out of range")
	}
	log.Exercises = append(log.Exercises[:index], log.Exercises[index+1:]...)
	if err := s.Save(ctx, username, log); err != nil {
		return nil, err
	}
	return log, nil
}

// AdjustWater applies delta to the water counter. The counter floors at zero
// and has no ceiling.
func (s *DayLogService) AdjustWater(ctx context.Context, username, date string, delta int) (*domain.DayLog, error) {
	log, err := s.Get(ctx, username, date)
	if err != nil {
		return nil, err
	}
	log.WaterIntakeCups += delta
	if log.WaterIntakeCups < 0 {
		log.WaterIntakeCups = 0
	}
	if err := s.Save(ctx, username, log); err != nil {
		return nil, err
	}
	return log, nil
}

func emptyLog(date string) *domain.DayLog {
	return &domain.DayLog{
		Date:      date,
		Foods:     []domain.FoodItem{},
		Exercises: []domain.ExerciseItem{},
	}
}
