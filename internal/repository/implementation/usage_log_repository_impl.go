// FILE: internal/repository/implementation/usage_log_repository_impl.go
// Implementation of UsageLogRepository
package implementation

import (
	"context"

	"ai-contentgen-be/internal/model"
	"ai-contentgen-be/internal/repository/contract"

	"gorm.io/gorm"
)

type UsageLogRepositoryImpl struct {
	db *gorm.DB
}

func NewUsageLogRepository(db *gorm.DB) contract.UsageLogRepository {
	return &UsageLogRepositoryImpl{db: db}
}

func (r *UsageLogRepositoryImpl) Create(ctx context.Context, usage *model.UsageLog) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

func (r *UsageLogRepositoryImpl) FindBySession(ctx context.Context, sessionID string, limit int) ([]*model.UsageLog, error) {
	var logs []*model.UsageLog
	query := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *UsageLogRepositoryImpl) TotalsByUser(ctx context.Context, userID string) (int64, int64, error) {
	var totals struct {
		TokensIn  int64
		TokensOut int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.UsageLog{}).
		Select("COALESCE(SUM(tokens_in), 0) AS tokens_in, COALESCE(SUM(tokens_out), 0) AS tokens_out").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, err
	}
	return totals.TokensIn, totals.TokensOut, nil
}
