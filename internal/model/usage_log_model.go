package model

import (
	"time"

	"github.com/google/uuid"
)

type UsageLog struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      string    `gorm:"type:varchar(100);not null;index"`
	UserId         *string   `gorm:"type:varchar(100);index"`
	Intent         string    `gorm:"type:varchar(40);not null"`
	Model          string    `gorm:"type:varchar(80);not null"`
	TokensIn       int       `gorm:"not null;default:0"`
	TokensOut      int       `gorm:"not null;default:0"`
	LatencyMs      int64     `gorm:"not null;default:0"`
	QualityScore   float64   `gorm:"not null;default:0"`
	RepairAttempts int       `gorm:"not null;default:0"`
	Success        bool      `gorm:"not null"`
	CreatedAt      time.Time `gorm:"default:now();not null;index"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}
