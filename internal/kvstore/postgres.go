package kvstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Record is one row of the flat keyspace: a key and its serialized document.
type Record struct {
	Key   string `gorm:"primaryKey"`
	Value []byte
}

// PostgresStore is a KeyValueStore backed by a single PostgreSQL table,
// keeping the flat key scheme instead of per-entity tables.
type PostgresStore struct {
	db *gorm.DB
}

// PostgresConfig holds the connection parameters.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// NewPostgresStore opens the connection and migrates the records table.
func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Get returns the stored value and whether the key exists.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var record Record
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return record.Value, true, nil
}

// Set upserts the value under key.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	record := Record{Key: key, Value: value}
	err := s.db.WithContext(ctx).Save(&record).Error
	if err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// ListKeysWithPrefix returns all keys starting with prefix.
func (s *PostgresStore) ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("key LIKE ?", prefix+"%").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix %q: %w", prefix, err)
	}
	return keys, nil
}
