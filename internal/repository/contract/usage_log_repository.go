// FILE: internal/repository/contract/usage_log_repository.go
// Repository interface for pipeline usage accounting records
package contract

import (
	"context"

	"ai-contentgen-be/internal/model"
)

type UsageLogRepository interface {
	Create(ctx context.Context, usage *model.UsageLog) error
	FindBySession(ctx context.Context, sessionID string, limit int) ([]*model.UsageLog, error)
	TotalsByUser(ctx context.Context, userID string) (tokensIn int64, tokensOut int64, err error)
}
