package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caloflow/caloflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProviderConfig(t *testing.T) {
	defaults := AIDefaults{
		GeminiAPIKey:    "gem-default",
		DeepSeekBaseURL: "https://api.deepseek.com",
	}

	t.Run("no keys anywhere defaults to gemini", func(t *testing.T) {
		cfg := resolveProviderConfig(&domain.UserProfile{}, defaults)
		assert.Equal(t, domain.ProviderGemini, cfg.Provider)
		assert.Equal(t, "gem-default", cfg.GeminiAPIKey)
	})

	t.Run("deployment deepseek key flips the default provider", func(t *testing.T) {
		d := defaults
		d.DeepSeekAPIKey = "ds-default"
		cfg := resolveProviderConfig(&domain.UserProfile{}, d)
		assert.Equal(t, domain.ProviderDeepSeek, cfg.Provider)
		assert.Equal(t, "ds-default", cfg.DeepSeekAPIKey)
	})

	t.Run("user deepseek key flips the default and wins over deployment key", func(t *testing.T) {
		d := defaults
		d.DeepSeekAPIKey = "ds-default"
		profile := &domain.UserProfile{DeepSeekAPIKey: "ds-user"}
		cfg := resolveProviderConfig(profile, d)
		assert.Equal(t, domain.ProviderDeepSeek, cfg.Provider)
		assert.Equal(t, "ds-user", cfg.DeepSeekAPIKey)
	})

	t.Run("explicit user provider choice wins", func(t *testing.T) {
		d := defaults
		d.DeepSeekAPIKey = "ds-default"
		profile := &domain.UserProfile{AIProvider: domain.ProviderGemini}
		cfg := resolveProviderConfig(profile, d)
		assert.Equal(t, domain.ProviderGemini, cfg.Provider)
	})

	t.Run("user base url overrides gemini endpoint", func(t *testing.T) {
		profile := &domain.UserProfile{APIBaseURL: "https://proxy.example.com"}
		cfg := resolveProviderConfig(profile, defaults)
		assert.Equal(t, "https://proxy.example.com", cfg.GeminiBaseURL)
	})

	t.Run("nil profile uses deployment defaults", func(t *testing.T) {
		cfg := resolveProviderConfig(nil, defaults)
		assert.Equal(t, domain.ProviderGemini, cfg.Provider)
	})
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`prefix {"a":1} suffix`))
	assert.Empty(t, extractJSON("no json here"))
	assert.Empty(t, extractJSON("} backwards {"))
}

// fakeDeepSeek serves OpenAI-compatible chat completions with a fixed
// message content.
func fakeDeepSeek(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestAIService_EstimateFoodViaDeepSeek(t *testing.T) {
	server := fakeDeepSeek(t, `{"name":"apple","calories":95,"protein":0.5,"carbs":25,"fat":0.3}`)
	defer server.Close()

	ai := NewAIService(AIDefaults{DeepSeekAPIKey: "test-key", DeepSeekBaseURL: server.URL})
	estimate, err := ai.EstimateFood(context.Background(), &domain.UserProfile{}, "one apple")
	require.NoError(t, err)
	assert.Equal(t, "apple", estimate.Name)
	assert.Equal(t, 95.0, estimate.Calories)
	assert.Equal(t, 25.0, estimate.Carbs)
}

func TestAIService_EstimateExerciseDefaultsDuration(t *testing.T) {
	server := fakeDeepSeek(t, `{"name":"jogging","caloriesBurned":250}`)
	defer server.Close()

	ai := NewAIService(AIDefaults{DeepSeekAPIKey: "test-key", DeepSeekBaseURL: server.URL})
	estimate, err := ai.EstimateExercise(context.Background(), &domain.UserProfile{CurrentWeightKg: 70}, "a short jog")
	require.NoError(t, err)
	assert.Equal(t, "jogging", estimate.Name)
	assert.Equal(t, 30.0, estimate.DurationMinutes)
}

func TestAIService_EstimateFoodFailsWithoutAnyKey(t *testing.T) {
	ai := NewAIService(AIDefaults{})
	_, err := ai.EstimateFood(context.Background(), &domain.UserProfile{}, "one apple")
	require.Error(t, err)
}

func TestAIService_MotivationFallsBack(t *testing.T) {
	// no credentials at all: the call fails and the fixed line comes back
	ai := NewAIService(AIDefaults{})
	line := ai.DailyMotivation(context.Background(), &domain.UserProfile{CurrentWeightKg: 70, Age: 30, Sex: domain.SexFemale}, nil)
	assert.Equal(t, motivationFallback, line)
}

func TestAIService_MotivationViaDeepSeek(t *testing.T) {
	server := fakeDeepSeek(t, `"One more day of showing up beats a perfect plan."`)
	defer server.Close()

	ai := NewAIService(AIDefaults{DeepSeekAPIKey: "test-key", DeepSeekBaseURL: server.URL})
	history := []domain.WeightEntry{{Date: "2026-01-01", WeightKg: 74}}
	profile := &domain.UserProfile{CurrentWeightKg: 72, Age: 30, Sex: domain.SexFemale, TargetWeightKg: 68}
	line := ai.DailyMotivation(context.Background(), profile, history)
	assert.Equal(t, "One more day of showing up beats a perfect plan.", line)
}
