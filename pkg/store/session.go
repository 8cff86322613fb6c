package store

import "time"

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one entry of the per-session history
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionState is the per-user conversational memory held by the session
// store. Every mutation slides ExpiresAt forward; the sweep deletes entries
// whose ExpiresAt has passed.
type SessionState struct {
	SessionID   string             `json:"session_id"`
	UserID      string             `json:"user_id"`
	Domain      string             `json:"domain"`
	Constraints Constraints        `json:"constraints"`
	History     []ConversationTurn `json:"history"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// Clone returns a deep copy of the state. History and Constraints get
// their own backing storage, so mutating the copy never touches the
// stored session.
func (s *SessionState) Clone() *SessionState {
	clone := *s
	clone.Constraints = s.Constraints.Clone()
	clone.History = append([]ConversationTurn{}, s.History...)
	return &clone
}

// PipelineContext threads the per-request working state through the stages
type PipelineContext struct {
	SessionState         *SessionState
	NormalizedInput      *NormalizedInput
	IntentClassification *IntentClassification
	Constraints          Constraints
	ResolverResult       *ResolverResult
	QualityResult        *QualityCheckResult
	RepairAttempts       []RepairAttempt
}

// ResolverResult is what a resolver call yields. Provider-level failures
// surface here as Success=false with the error detail kept in RawOutput.
type ResolverResult struct {
	Success   bool             `json:"success"`
	Data      StructuredOutput `json:"-"`
	RawOutput string           `json:"raw_output,omitempty"`
	TokensIn  int              `json:"tokens_in"`
	TokensOut int              `json:"tokens_out"`
	LatencyMs int64            `json:"latency_ms"`
}
