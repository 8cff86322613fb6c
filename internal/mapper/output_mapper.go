package mapper

import (
	"ai-contentgen-be/internal/dto"
	"ai-contentgen-be/pkg/store"
)

type OutputMapper struct{}

func NewOutputMapper() *OutputMapper {
	return &OutputMapper{}
}

// ToDTO flattens a structured output into its wire shape. The variant tag
// decides which of items/content/sections is carried.
func (m *OutputMapper) ToDTO(out store.StructuredOutput) *dto.OutputDTO {
	if out == nil {
		return nil
	}

	res := &dto.OutputDTO{Type: out.OutputType()}

	switch o := out.(type) {
	case *store.TitlesOutput:
		res.Items = o.ItemList
	case *store.ListOutput:
		res.Items = o.ItemList
	case *store.OutlineOutput:
		res.Sections = o.Sections
	case *store.SummaryOutput:
		res.Content = o.Content
	case *store.ContentOutput:
		res.Content = o.Content
	case *store.AnalysisOutput:
		res.Content = o.Content
		if len(o.Metadata) > 0 {
			res.Metadata = o.Metadata
		}
	default:
		res.Content = out.Flatten()
	}

	return res
}

func (m *OutputMapper) ToRepairAttemptDTOs(attempts []store.RepairAttempt) []dto.RepairAttemptDTO {
	res := make([]dto.RepairAttemptDTO, 0, len(attempts))
	for _, a := range attempts {
		res = append(res, dto.RepairAttemptDTO{
			AttemptNumber:  a.AttemptNumber,
			FailedChecks:   a.FailedChecks,
			RepairStrategy: a.RepairStrategy,
			Success:        a.Success,
		})
	}
	return res
}

func (m *OutputMapper) ToSessionResponse(state *store.SessionState) *dto.SessionResponse {
	if state == nil {
		return nil
	}

	history := make([]dto.SessionTurnDTO, 0, len(state.History))
	for _, turn := range state.History {
		history = append(history, dto.SessionTurnDTO{
			Role:      turn.Role,
			Content:   turn.Content,
			Intent:    turn.Intent,
			Timestamp: turn.Timestamp,
		})
	}

	return &dto.SessionResponse{
		SessionId:   state.SessionID,
		UserId:      state.UserID,
		Domain:      state.Domain,
		Constraints: state.Constraints,
		History:     history,
		CreatedAt:   state.CreatedAt,
		UpdatedAt:   state.UpdatedAt,
		ExpiresAt:   state.ExpiresAt,
	}
}
