package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/caloflow/caloflow/internal/apperrors"
	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transferFixture struct {
	store    *kvstore.MemoryStore
	profiles *ProfileService
	logs     *DayLogService
	weights  *WeightService
	transfer *TransferService
}

func newTransferFixture() *transferFixture {
	store := kvstore.NewMemoryStore()
	weights := NewWeightService(store)
	profiles := NewProfileService(store, weights)
	logs := NewDayLogService(store)
	return &transferFixture{
		store:    store,
		profiles: profiles,
		logs:     logs,
		weights:  weights,
		transfer: NewTransferService(store, profiles, logs, weights),
	}
}

func seedAccount(t *testing.T, f *transferFixture, username string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.profiles.Save(ctx, username, &domain.UserProfile{
		HeightCm: 170, CurrentWeightKg: 70, Age: 25,
		Sex: domain.SexMale, ActivityLevel: domain.ActivityModerate,
		TargetWeightKg: 66, TargetDays: 60,
	})
	require.NoError(t, err)

	require.NoError(t, f.weights.AddEntry(ctx, username, domain.WeightEntry{Date: "2026-01-01", WeightKg: 72}))

	_, err = f.logs.AddFood(ctx, username, "2026-01-02", domain.FoodItem{ID: "1", Name: "rice", Calories: 200})
	require.NoError(t, err)
	_, err = f.logs.AddExercise(ctx, username, "2026-01-03", domain.ExerciseItem{ID: "2", Name: "walk", CaloriesBurned: 120, DurationMinutes: 30})
	require.NoError(t, err)
}

func TestTransferService_ExportGathersEverything(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()
	seedAccount(t, f, "ana")

	snapshot, err := f.transfer.Export(ctx, "ana")
	require.NoError(t, err)

	assert.Equal(t, "ana", snapshot.Username)
	require.NotNil(t, snapshot.Profile)
	assert.Equal(t, 70.0, snapshot.Profile.CurrentWeightKg)
	// seeded entry plus today's check-in from the profile save
	assert.Len(t, snapshot.WeightHistory, 2)
	require.Len(t, snapshot.Logs, 2)
	// logs sorted ascending by date
	assert.Equal(t, "2026-01-02", snapshot.Logs[0].Date)
	assert.Equal(t, "2026-01-03", snapshot.Logs[1].Date)
}

func TestTransferService_ExportEmptyAccount(t *testing.T) {
	f := newTransferFixture()

	snapshot, err := f.transfer.Export(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, snapshot.Profile)
	assert.Empty(t, snapshot.WeightHistory)
	assert.Empty(t, snapshot.Logs)
}

func TestTransferService_ImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTransferFixture()
	seedAccount(t, source, "ana")

	snapshot, err := source.transfer.Export(ctx, "ana")
	require.NoError(t, err)
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	target := newTransferFixture()
	require.NoError(t, target.transfer.Import(ctx, "bob", data))

	// profile re-derived and re-owned under the target identity
	profile, err := target.profiles.Get(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, snapshot.Profile.BMR, profile.BMR)
	assert.Equal(t, snapshot.Profile.TDEE, profile.TDEE)

	// history replaced wholesale with the snapshot's entries
	history, err := target.weights.History(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, snapshot.WeightHistory, history)

	log, err := target.logs.Get(ctx, "bob", "2026-01-02")
	require.NoError(t, err)
	require.Len(t, log.Foods, 1)
	assert.Equal(t, "rice", log.Foods[0].Name)
}

func TestTransferService_ImportRejectsMalformedDocument(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()

	err := f.transfer.Import(ctx, "bob", []byte(`{not json`))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	// nothing was written
	keys, listErr := f.store.ListKeysWithPrefix(ctx, "cp_")
	require.NoError(t, listErr)
	assert.Empty(t, keys)
}

func TestTransferService_ImportWithoutWeightHistoryKeepsExisting(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()
	require.NoError(t, f.weights.AddEntry(ctx, "bob", domain.WeightEntry{Date: "2026-01-01", WeightKg: 80}))

	// minimal valid document: username only
	require.NoError(t, f.transfer.Import(ctx, "bob", []byte(`{"username":"ana"}`)))

	history, err := f.weights.History(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 80.0, history[0].WeightKg)
}

func TestTransferService_ImportEmptyWeightHistoryReplaces(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()
	require.NoError(t, f.weights.AddEntry(ctx, "bob", domain.WeightEntry{Date: "2026-01-01", WeightKg: 80}))

	require.NoError(t, f.transfer.Import(ctx, "bob", []byte(`{"username":"ana","weightHistory":[]}`)))

	history, err := f.weights.History(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTransferService_ImportRequiresUsername(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()

	err := f.transfer.Import(ctx, "bob", []byte(`{"profile":null,"weightHistory":[],"logs":[]}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
