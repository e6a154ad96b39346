package domain

// Sex is the biological sex used by the BMR formula. The formula only knows
// the two Mifflin-St Jeor constants, so the domain stays binary.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel describes habitual daily activity, ordered from least to
// most active. Each level maps to a fixed TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// AIProvider selects which text-completion backend estimates food and
// exercise energy for a user.
type AIProvider string

const (
	ProviderGemini   AIProvider = "gemini"
	ProviderDeepSeek AIProvider = "deepseek"
)

// ThemeName is a client color theme preference.
type ThemeName string

const (
	ThemeVitality ThemeName = "vitality"
	ThemeMidnight ThemeName = "midnight"
	ThemeRose     ThemeName = "rose"
	ThemeOcean    ThemeName = "ocean"
)

// DefaultTheme is used when a user has never saved a preference.
const DefaultTheme = ThemeVitality

// UserProfile holds one user's body metrics and goal. BMR and TDEE are
// derived fields: they are recomputed on every save and never set by callers.
type UserProfile struct {
	ID              string        `json:"id"`
	Username        string        `json:"username"`
	HeightCm        float64       `json:"heightCm"`
	CurrentWeightKg float64       `json:"currentWeightKg"`
	Age             int           `json:"age"`
	Sex             Sex           `json:"gender"`
	ActivityLevel   ActivityLevel `json:"activityLevel"`
	TargetWeightKg  float64       `json:"targetWeightKg,omitempty"`
	TargetDays      int           `json:"targetDays,omitempty"`
	BMR             int           `json:"bmr"`
	TDEE            int           `json:"tdee"`

	// Per-user AI overrides; empty values fall back to deployment defaults.
	AIProvider     AIProvider `json:"aiProvider,omitempty"`
	DeepSeekAPIKey string     `json:"deepSeekApiKey,omitempty"`
	APIBaseURL     string     `json:"apiBaseUrl,omitempty"`
}

// FoodItem is one logged food. Immutable once created; removed only whole.
type FoodItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	Timestamp int64   `json:"timestamp"`
}

// ExerciseItem is one logged exercise session.
type ExerciseItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
	DurationMinutes float64 `json:"durationMinutes"`
	Timestamp       int64   `json:"timestamp"`
}

// DayLog is everything a user logged on one calendar date (YYYY-MM-DD).
// Foods and exercises keep insertion order.
type DayLog struct {
	Date            string         `json:"date"`
	Foods           []FoodItem     `json:"foods"`
	Exercises       []ExerciseItem `json:"exercises"`
	WaterIntakeCups int            `json:"waterIntakeCups"`
	Notes           string         `json:"notes,omitempty"`
}

// WeightEntry is a dated weight measurement. A user's history holds at most
// one entry per date, sorted ascending.
type WeightEntry struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weight"`
}

// Snapshot is a full export of one user's records.
type Snapshot struct {
	Username      string        `json:"username"`
	Profile       *UserProfile  `json:"profile,omitempty"`
	WeightHistory []WeightEntry `json:"weightHistory"`
	Logs          []DayLog      `json:"logs"`
}

// FoodEstimate is the structured result of a food description estimation.
type FoodEstimate struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ExerciseEstimate is the structured result of an exercise description
// estimation. DurationMinutes defaults to 30 when not inferable from text.
type ExerciseEstimate struct {
	Name            string  `json:"name"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
	DurationMinutes float64 `json:"durationMinutes"`
}
