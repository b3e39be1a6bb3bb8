package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fee-api/internal/models"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

type fakeSettingsStore struct {
	settings *models.GlobalFeeSettings
	getErr   error
	created  *models.GlobalFeeSettings
	updated  *models.GlobalFeeSettings
}

func (f *fakeSettingsStore) Get(context.Context) (*models.GlobalFeeSettings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.settings, nil
}

func (f *fakeSettingsStore) Create(_ context.Context, settings *models.GlobalFeeSettings) error {
	f.created = settings
	f.settings = settings
	f.getErr = nil
	return nil
}

func (f *fakeSettingsStore) Update(_ context.Context, settings *models.GlobalFeeSettings) error {
	f.updated = settings
	f.settings = settings
	return nil
}

func TestSettingsGetCreatesDefaultsOnFirstRead(t *testing.T) {
	store := &fakeSettingsStore{getErr: sql.ErrNoRows}
	svc := NewSettingsService(store, nil, nil, 15, decimal.NewFromInt(20), nil)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, store.created)
	assert.Equal(t, 15, settings.FeeDueDay)
	assert.True(t, settings.LateFeePerDay.Equal(decimal.NewFromInt(20)))
}

func TestSettingsGetReturnsExistingRow(t *testing.T) {
	store := &fakeSettingsStore{settings: &models.GlobalFeeSettings{ID: "set-1", FeeDueDay: 10, LateFeePerDay: dec("5")}}
	svc := NewSettingsService(store, nil, nil, 15, decimal.NewFromInt(20), nil)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, settings.FeeDueDay)
	assert.Nil(t, store.created)
}

func TestSettingsUpdatePersistsNewValues(t *testing.T) {
	store := &fakeSettingsStore{settings: &models.GlobalFeeSettings{ID: "set-1", FeeDueDay: 15, LateFeePerDay: dec("20")}}
	svc := NewSettingsService(store, nil, nil, 15, decimal.NewFromInt(20), nil)

	settings, err := svc.Update(context.Background(), UpdateSettingsRequest{
		FeeDueDay:     10,
		LateFeePerDay: dec("12.50"),
	})
	require.NoError(t, err)
	require.NotNil(t, store.updated)
	assert.Equal(t, 10, settings.FeeDueDay)
	assert.True(t, settings.LateFeePerDay.Equal(dec("12.50")))
}

func TestSettingsUpdateRejectsInvalidDueDay(t *testing.T) {
	store := &fakeSettingsStore{settings: &models.GlobalFeeSettings{ID: "set-1", FeeDueDay: 15, LateFeePerDay: dec("20")}}
	svc := NewSettingsService(store, nil, nil, 15, decimal.NewFromInt(20), nil)

	for _, day := range []int{0, 29, -3} {
		_, err := svc.Update(context.Background(), UpdateSettingsRequest{
			FeeDueDay:     day,
			LateFeePerDay: dec("20"),
		})
		require.Error(t, err, day)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code, day)
	}
}

func TestSettingsUpdateRejectsNegativeLateFee(t *testing.T) {
	store := &fakeSettingsStore{settings: &models.GlobalFeeSettings{ID: "set-1", FeeDueDay: 15, LateFeePerDay: dec("20")}}
	svc := NewSettingsService(store, nil, nil, 15, decimal.NewFromInt(20), nil)

	_, err := svc.Update(context.Background(), UpdateSettingsRequest{
		FeeDueDay:     15,
		LateFeePerDay: dec("-1"),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
