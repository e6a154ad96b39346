package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/kvstore"
)

// AuthService manages the global username→pin credential map.
type AuthService struct {
	store domain.KeyValueStore
}

func NewAuthService(store domain.KeyValueStore) *AuthService {
	return &AuthService{store: store}
}

// NormalizeUsername lower-cases and trims a username so credentials and
// record keys agree on one canonical form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *AuthService) loadUsers(ctx context.Context) (map[string]string, error) {
	data, ok, err := s.store.Get(ctx, kvstore.UsersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	users := make(map[string]string)
	if !ok {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// Register stores a new credential. Returns false when the username is
// already taken, leaving the existing pin untouched.
func (s *AuthService) Register(ctx context.Context, username, pin string) (bool, error) {
	username = NormalizeUsername(username)
	if username == "" || pin == "" {
		return false, nil
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return false, err
	}
	if _, exists := users[username]; exists {
		return false, nil
	}

	users[username] = pin
	data, err := json.Marshal(users)
	if err != nil {
		return false, fmt.Errorf("failed to encode users: %w", err)
	}
	if err := s.store.Set(ctx, kvstore.UsersKey, data); err != nil {
		return false, fmt.Errorf("failed to save users: %w", err)
	}
	return true, nil
}

// Verify compares the pin against the stored one. Unknown usernames verify
// as false.
func (s *AuthService) Verify(ctx context.Context, username, pin string) (bool, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return false, err
	}
	stored, exists := users[NormalizeUsername(username)]
	return exists && stored == pin, nil
}
