package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caloflow/caloflow/internal/apperrors"
	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/energy"
	"github.com/caloflow/caloflow/internal/logger"
	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

const (
	geminiModelName   = "gemini-1.5-flash"
	deepSeekModelName = "deepseek-chat"

	motivationFallback = "Keep going, every single day counts."
)

// AIDefaults are the deployment-level provider credentials. Per-user
// overrides from the profile take precedence.
type AIDefaults struct {
	GeminiAPIKey    string
	GeminiBaseURL   string
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
}

// AIService estimates food/exercise energy from free text and produces the
// daily motivation line, via an external text-completion provider.
type AIService struct {
	defaults AIDefaults
}

func NewAIService(defaults AIDefaults) *AIService {
	return &AIService{defaults: defaults}
}

// providerConfig is the effective provider selection for one request.
type providerConfig struct {
	Provider        domain.AIProvider
	GeminiAPIKey    string
	GeminiBaseURL   string
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
}

// resolveProviderConfig merges per-user overrides over deployment defaults.
// An explicit user provider choice wins; otherwise DeepSeek is preferred
// whenever any DeepSeek key is available, falling back to Gemini.
func resolveProviderConfig(profile *domain.UserProfile, defaults AIDefaults) providerConfig {
	cfg := providerConfig{
		GeminiAPIKey:    defaults.GeminiAPIKey,
		GeminiBaseURL:   defaults.GeminiBaseURL,
		DeepSeekAPIKey:  defaults.DeepSeekAPIKey,
		DeepSeekBaseURL: defaults.DeepSeekBaseURL,
	}
	if profile != nil {
		if profile.DeepSeekAPIKey != "" {
			cfg.DeepSeekAPIKey = profile.DeepSeekAPIKey
		}
		if profile.APIBaseURL != "" {
			cfg.GeminiBaseURL = profile.APIBaseURL
		}
	}

	cfg.Provider = domain.ProviderGemini
	if cfg.DeepSeekAPIKey != "" {
		cfg.Provider = domain.ProviderDeepSeek
	}
	if profile != nil && profile.AIProvider != "" {
		cfg.Provider = profile.AIProvider
	}
	return cfg
}

func (s *AIService) EstimateFood(ctx context.Context, profile *domain.UserProfile, description string) (*domain.FoodEstimate, error) {
	cfg := resolveProviderConfig(profile, s.defaults)

	prompt := fmt.Sprintf(`Estimate the nutrition for: %q. Return a single JSON object with these exact keys: "name" (short standard name), "calories" (number), "protein" (number, grams), "carbs" (number, grams), "fat" (number, grams). Do not wrap in markdown code blocks.`, description)

	var estimate domain.FoodEstimate
	if err := s.complete(ctx, cfg, prompt, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

func (s *AIService) EstimateExercise(ctx context.Context, profile *domain.UserProfile, description string) (*domain.ExerciseEstimate, error) {
	cfg := resolveProviderConfig(profile, s.defaults)

	weight := 70.0
	if profile != nil && profile.CurrentWeightKg > 0 {
		weight = profile.CurrentWeightKg
	}
	prompt := fmt.Sprintf(`Estimate calories burned for a person weighing %.1fkg doing: %q. Return a single JSON object with these exact keys: "name" (standardized exercise name), "caloriesBurned" (number), "durationMinutes" (number, infer 30 if not stated). Do not wrap in markdown code blocks.`, weight, description)

	var estimate domain.ExerciseEstimate
	if err := s.complete(ctx, cfg, prompt, &estimate); err != nil {
		return nil, err
	}
	if estimate.DurationMinutes <= 0 {
		estimate.DurationMinutes = 30
	}
	return &estimate, nil
}

// DailyMotivation builds a one-line coach message from the user's weight
// trend. Provider failures are swallowed: the caller always gets a line.
func (s *AIService) DailyMotivation(ctx context.Context, profile *domain.UserProfile, history []domain.WeightEntry) string {
	cfg := resolveProviderConfig(profile, s.defaults)

	earliest := profile.CurrentWeightKg
	if len(history) > 0 {
		earliest = history[0].WeightKg
	}
	trend := energy.Trend(profile.CurrentWeightKg, earliest)

	goalDesc := "maintain a healthy weight"
	if profile.TargetWeightKg > 0 {
		goalDesc = fmt.Sprintf("reach %.1fkg", profile.TargetWeightKg)
	}
	prompt := fmt.Sprintf(`User: %d years old, %s, goal: %s. Current trend: %s (%.1fkg difference from start). Give a short, punchy, one-sentence motivational quote or advice specific to their situation. Don't be generic. Be like a supportive but firm coach. Return plain text only.`,
		profile.Age, profile.Sex, goalDesc, trend, profile.CurrentWeightKg-earliest)

	text, err := s.completeText(ctx, cfg, prompt)
	if err != nil {
		logger.Warn("motivation call failed, using fallback", "error", err)
		return motivationFallback
	}
	text = strings.Trim(strings.TrimSpace(text), `"`)
	if text == "" {
		return motivationFallback
	}
	return text
}

// complete runs the prompt on the effective provider and decodes the JSON
// object response into out.
func (s *AIService) complete(ctx context.Context, cfg providerConfig, prompt string, out any) error {
	text, err := s.rawComplete(ctx, cfg, prompt, true)
	if err != nil {
		return err
	}
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return apperrors.New(apperrors.ErrorTypeExternal, "BAD_RESPONSE", "no valid JSON found in response")
	}
	if err := json.Unmarshal([]byte(jsonStr), out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeExternal, "BAD_RESPONSE", "failed to parse response")
	}
	return nil
}

func (s *AIService) completeText(ctx context.Context, cfg providerConfig, prompt string) (string, error) {
	return s.rawComplete(ctx, cfg, prompt, false)
}

func (s *AIService) rawComplete(ctx context.Context, cfg providerConfig, prompt string, jsonMode bool) (string, error) {
	if cfg.Provider == domain.ProviderDeepSeek && cfg.DeepSeekAPIKey != "" {
		return s.completeWithDeepSeek(ctx, cfg, prompt, jsonMode)
	}
	return s.completeWithGemini(ctx, cfg, prompt)
}

func (s *AIService) completeWithGemini(ctx context.Context, cfg providerConfig, prompt string) (string, error) {
	if cfg.GeminiAPIKey == "" {
		return "", apperrors.New(apperrors.ErrorTypeExternal, "NO_API_KEY", "no Gemini API key configured")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.GeminiAPIKey)}
	if cfg.GeminiBaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.GeminiBaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(geminiModelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "Gemini")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.New(apperrors.ErrorTypeExternal, "EMPTY_RESPONSE", "Gemini returned no content")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", apperrors.New(apperrors.ErrorTypeExternal, "BAD_RESPONSE", "Gemini returned a non-text part")
	}
	return string(text), nil
}

func (s *AIService) completeWithDeepSeek(ctx context.Context, cfg providerConfig, prompt string, jsonMode bool) (string, error) {
	clientCfg := openai.DefaultConfig(cfg.DeepSeekAPIKey)
	if cfg.DeepSeekBaseURL != "" {
		clientCfg.BaseURL = cfg.DeepSeekBaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	req := openai.ChatCompletionRequest{
		Model: deepSeekModelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful nutrition and fitness assistant. Always return JSON if requested.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "DeepSeek")
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrorTypeExternal, "EMPTY_RESPONSE", "DeepSeek returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
