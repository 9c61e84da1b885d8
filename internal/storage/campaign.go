package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitlab.com/timkado/api/lead-importer/internal/apperrors"
	"gitlab.com/timkado/api/lead-importer/internal/model"
	"gitlab.com/timkado/api/lead-importer/internal/observer"
	"gitlab.com/timkado/api/lead-importer/pkg/logger"
	"gitlab.com/timkado/api/lead-importer/pkg/utils"
)

// EnsureCampaign finds the campaign by name or creates it with
// flag = MAX(flag)+1 and a random emoji.
func (r *SQLRepo) EnsureCampaign(ctx context.Context, name string) (*model.Campaign, error) {
	log := logger.FromContext(ctx).With(zap.String("campaign", name))
	startTime := utils.Now()

	var existing model.Campaign
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "campaignName"}, Value: name}).
		First(&existing).Error
	if err == nil {
		observer.ObserveDbOperationDuration("find", "campaign", time.Since(startTime), nil)
		log.Debug("Found existing campaign", zap.Int64("flag", existing.Flag))
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		observer.ObserveDbOperationDuration("find", "campaign", time.Since(startTime), err)
		return nil, checkConstraintViolation(err)
	}

	var maxFlag int64
	if err := r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Select("COALESCE(MAX(flag), 0)").
		Scan(&maxFlag).Error; err != nil {
		observer.ObserveDbOperationDuration("create", "campaign", time.Since(startTime), err)
		return nil, fmt.Errorf("%w: failed to read max campaign flag: %w", apperrors.ErrDatabase, err)
	}

	campaign := model.Campaign{
		CampaignName:  name,
		Vertical:      model.DefaultCampaignVertical,
		TextingActive: model.DefaultCampaignTextingActive,
		Flag:          maxFlag + 1,
		Emoji:         r.randomEmoji(ctx),
	}
	if err := r.db.WithContext(ctx).Create(&campaign).Error; err != nil {
		observer.ObserveDbOperationDuration("create", "campaign", time.Since(startTime), err)
		log.Error("Failed to create campaign", zap.Error(err))
		return nil, checkConstraintViolation(err)
	}
	observer.ObserveDbOperationDuration("create", "campaign", time.Since(startTime), nil)

	log.Info("Created campaign", zap.Int64("flag", campaign.Flag), zap.String("emoji", campaign.Emoji))
	return &campaign, nil
}

// randomEmoji picks one row of the emoji table. Failures only cost the
// decoration, so they yield an empty string.
func (r *SQLRepo) randomEmoji(ctx context.Context) string {
	random := "RANDOM()"
	if r.driver == DriverMySQL {
		random = "RAND()"
	}

	var picked []string
	err := r.db.WithContext(ctx).
		Model(&model.Emoji{}).
		Order(random).
		Limit(1).
		Pluck("e", &picked).Error
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to pick campaign emoji", zap.Error(err))
		return ""
	}
	if len(picked) == 0 {
		return ""
	}
	return picked[0]
}
