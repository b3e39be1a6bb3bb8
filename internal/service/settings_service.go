package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fee-api/internal/models"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

type settingsStore interface {
	Get(ctx context.Context) (*models.GlobalFeeSettings, error)
	Create(ctx context.Context, settings *models.GlobalFeeSettings) error
	Update(ctx context.Context, settings *models.GlobalFeeSettings) error
}

// UpdateSettingsRequest carries new values for the settings singleton.
type UpdateSettingsRequest struct {
	FeeDueDay     int             `json:"fee_due_day" validate:"required,min=1,max=28"`
	LateFeePerDay decimal.Decimal `json:"late_fee_per_day"`
}

// SettingsService manages the global fee settings singleton. The row is
// lazily created with configured defaults on first read, so exactly one
// row exists from then on. Settings are fetched at the start of each
// ledger build and passed down explicitly, never read mid-computation.
type SettingsService struct {
	repo     settingsStore
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
	defaults models.GlobalFeeSettings
}

// NewSettingsService constructs a SettingsService. defaultDueDay and
// defaultLateFee seed the lazily created row.
func NewSettingsService(repo settingsStore, cache *CacheService, logger *zap.Logger, defaultDueDay int, defaultLateFee decimal.Decimal, validate *validator.Validate) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultDueDay < 1 || defaultDueDay > 28 {
		defaultDueDay = 15
	}
	if defaultLateFee.IsNegative() {
		defaultLateFee = decimal.NewFromInt(20)
	}
	return &SettingsService{
		repo:     repo,
		cache:    cache,
		validate: validate,
		logger:   logger,
		defaults: models.GlobalFeeSettings{FeeDueDay: defaultDueDay, LateFeePerDay: defaultLateFee},
	}
}

// Get returns the settings singleton, creating it with defaults when it
// does not exist yet.
func (s *SettingsService) Get(ctx context.Context) (*models.GlobalFeeSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee settings")
	}

	created := s.defaults
	if err := s.repo.Create(ctx, &created); err != nil {
		// A concurrent first read may have created the row already.
		if settings, getErr := s.repo.Get(ctx); getErr == nil {
			return settings, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to initialise fee settings")
	}
	s.logger.Info("fee settings initialised with defaults",
		zap.Int("fee_due_day", created.FeeDueDay),
		zap.String("late_fee_per_day", created.LateFeePerDay.String()))
	return &created, nil
}

// Update validates and persists new settings values, invalidating cached
// dashboard snapshots since every derived ledger depends on them.
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*models.GlobalFeeSettings, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	if req.LateFeePerDay.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "late fee per day must not be negative")
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	settings.FeeDueDay = req.FeeDueDay
	settings.LateFeePerDay = req.LateFeePerDay
	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update fee settings")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "finance:dashboard:*"); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
		}
	}
	return settings, nil
}
