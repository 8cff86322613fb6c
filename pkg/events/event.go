package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PIPELINE_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation most publishers use.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewPipelineCompleted builds the event emitted after every processed
// pipeline request, for downstream consumers (dashboards, billing).
func NewPipelineCompleted(sessionID, userID, intent string, success bool, qualityScore float64, repairAttempts int, processingTimeMs int64) BaseEvent {
	return BaseEvent{
		Type: "PIPELINE_COMPLETED",
		Data: map[string]interface{}{
			"session_id":         sessionID,
			"user_id":            userID,
			"intent":             intent,
			"success":            success,
			"quality_score":      qualityScore,
			"repair_attempts":    repairAttempts,
			"processing_time_ms": processingTimeMs,
		},
		OccurredAt: time.Now(),
	}
}
