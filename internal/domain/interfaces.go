package domain

import "context"

// KeyValueStore maps flat namespaced keys to serialized records. Each Set is
// atomic on its own; there is no multi-key transaction.
type KeyValueStore interface {
	// Get returns the stored bytes and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// ListKeysWithPrefix enumerates all keys starting with prefix, in no
	// particular order.
	ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// AuthService handles the username→pin credential map.
type AuthService interface {
	// Register stores a new credential. Returns false without mutating
	// anything when the username is already taken.
	Register(ctx context.Context, username, pin string) (bool, error)
	// Verify reports whether the pin matches the stored one. An unknown
	// username verifies as false, not as an error.
	Verify(ctx context.Context, username, pin string) (bool, error)
}

// ProfileService handles user profiles and their derived energy fields.
type ProfileService interface {
	// Get returns the stored profile, or nil when the user has none yet.
	Get(ctx context.Context, username string) (*UserProfile, error)
	// Save recomputes BMR/TDEE from the draft's body metrics, persists the
	// enriched profile, and upserts today's weight entry with the draft's
	// current weight.
	Save(ctx context.Context, username string, draft *UserProfile) (*UserProfile, error)
	GetTheme(ctx context.Context, username string) (ThemeName, error)
	SaveTheme(ctx context.Context, username string, theme ThemeName) error
}

// DayLogService handles per-date logs. Reads never fail with not-found: an
// unsaved date yields an empty skeleton log.
type DayLogService interface {
	Get(ctx context.Context, username, date string) (*DayLog, error)
	Save(ctx context.Context, username string, log *DayLog) error
	AddFood(ctx context.Context, username, date string, item FoodItem) (*DayLog, error)
	RemoveFood(ctx context.Context, username, date string, index int) (*DayLog, error)
	AddExercise(ctx context.Context, username, date string, item ExerciseItem) (*DayLog, error)
	RemoveExercise(ctx context.Context, username, date string, index int) (*DayLog, error)
	// AdjustWater applies delta to the water counter, clamping at zero.
	AdjustWater(ctx context.Context, username, date string, delta int) (*DayLog, error)
}

// WeightService handles the per-user weight history.
type WeightService interface {
	History(ctx context.Context, username string) ([]WeightEntry, error)
	// AddEntry replaces any existing entry for the same date and keeps the
	// history sorted ascending by date.
	AddEntry(ctx context.Context, username string, entry WeightEntry) error
	ReplaceHistory(ctx context.Context, username string, entries []WeightEntry) error
}

// TransferService handles whole-account export and import.
type TransferService interface {
	Export(ctx context.Context, username string) (*Snapshot, error)
	// Import applies a snapshot to the target user. The profile is written
	// through ProfileService.Save so BMR/TDEE are re-derived under the
	// target identity; weight history replaces wholesale.
	Import(ctx context.Context, targetUser string, data []byte) error
}

// Estimator turns free-text descriptions into structured energy values via
// an external text-completion provider.
type Estimator interface {
	EstimateFood(ctx context.Context, profile *UserProfile, description string) (*FoodEstimate, error)
	EstimateExercise(ctx context.Context, profile *UserProfile, description string) (*ExerciseEstimate, error)
	// DailyMotivation never fails; provider errors yield a fixed fallback.
	DailyMotivation(ctx context.Context, profile *UserProfile, history []WeightEntry) string
}
