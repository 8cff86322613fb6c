package dto

import (
	"time"

	"ai-contentgen-be/pkg/store"
)

type ProcessRequest struct {
	SessionId       string `json:"session_id" validate:"required,max=100"`
	Input           string `json:"input" validate:"required,max=4000"`
	SkipQualityGate bool   `json:"skip_quality_gate,omitempty"`
	SkipSelfHeal    bool   `json:"skip_self_heal,omitempty"`
}

type AnalyzeRequest struct {
	Input string `json:"input" validate:"required,max=4000"`
}

// OutputDTO is the flat wire shape of a structured output. Exactly one of
// Items, Content or Sections is populated, depending on Type.
type OutputDTO struct {
	Type     string                 `json:"type"`
	Items    []string               `json:"items,omitempty"`
	Content  string                 `json:"content,omitempty"`
	Sections []store.OutlineSection `json:"sections,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type RepairAttemptDTO struct {
	AttemptNumber  int      `json:"attempt_number"`
	FailedChecks   []string `json:"failed_checks"`
	RepairStrategy string   `json:"repair_strategy"`
	Success        bool     `json:"success"`
}

type ProcessResponse struct {
	Success          bool               `json:"success"`
	Intent           string             `json:"intent,omitempty"`
	Confidence       float64            `json:"confidence"`
	Output           *OutputDTO         `json:"output,omitempty"`
	QualityScore     float64            `json:"quality_score"`
	FailedChecks     []string           `json:"failed_checks,omitempty"`
	RepairAttempts   []RepairAttemptDTO `json:"repair_attempts"`
	TokensIn         int                `json:"tokens_in"`
	TokensOut        int                `json:"tokens_out"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
	Error            string             `json:"error,omitempty"`
}

type AnalyzeResponse struct {
	CleanedText  string              `json:"cleaned_text"`
	Language     string              `json:"language"`
	Intent       string              `json:"intent"`
	Confidence   float64             `json:"confidence"`
	MatchedRules []string            `json:"matched_rules"`
	Entities     store.InputEntities `json:"entities"`
	Metadata     store.InputMetadata `json:"metadata"`
	Constraints  store.Constraints   `json:"constraints"`
}

type SessionTurnDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionResponse struct {
	SessionId   string            `json:"session_id"`
	UserId      string            `json:"user_id,omitempty"`
	Domain      string            `json:"domain"`
	Constraints store.Constraints `json:"constraints"`
	History     []SessionTurnDTO  `json:"history"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	ActiveSessions int    `json:"active_sessions"`
}

// PublishUsageMessage is the in-process message emitted after every
// pipeline run for asynchronous usage accounting.
type PublishUsageMessage struct {
	SessionId      string  `json:"session_id"`
	UserId         string  `json:"user_id,omitempty"`
	Intent         string  `json:"intent"`
	Model          string  `json:"model"`
	TokensIn       int     `json:"tokens_in"`
	TokensOut      int     `json:"tokens_out"`
	LatencyMs      int64   `json:"latency_ms"`
	QualityScore   float64 `json:"quality_score"`
	RepairAttempts int     `json:"repair_attempts"`
	Success        bool    `json:"success"`
}
