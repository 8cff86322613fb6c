// FILE: internal/service/pipeline_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-contentgen-be/internal/dto"
	"ai-contentgen-be/internal/mapper"
	"ai-contentgen-be/pkg/engine/pipeline"
	"ai-contentgen-be/pkg/events"
	pkgNats "ai-contentgen-be/pkg/nats"
)

type IPipelineService interface {
	Process(ctx context.Context, userId string, req *dto.ProcessRequest) (*dto.ProcessResponse, error)
	Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error)
	ResetSession(ctx context.Context, sessionId string) error
	Health(ctx context.Context) (*dto.HealthResponse, error)
}

type pipelineService struct {
	orchestrator     *pipeline.Orchestrator
	outputMapper     *mapper.OutputMapper
	publisherService IPublisherService
	eventPublisher   *pkgNats.Publisher
	providerName     string
	modelName        string
}

func NewPipelineService(
	orchestrator *pipeline.Orchestrator,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	providerName string,
	modelName string,
) IPipelineService {
	return &pipelineService{
		orchestrator:     orchestrator,
		outputMapper:     mapper.NewOutputMapper(),
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		providerName:     providerName,
		modelName:        modelName,
	}
}

func (s *pipelineService) Process(ctx context.Context, userId string, req *dto.ProcessRequest) (*dto.ProcessResponse, error) {
	result := s.orchestrator.Process(ctx, req.Input, pipeline.Options{
		SessionID:       req.SessionId,
		UserID:          userId,
		SkipQualityGate: req.SkipQualityGate,
		SkipSelfHeal:    req.SkipSelfHeal,
	})

	res := &dto.ProcessResponse{
		Success:          result.Success,
		Intent:           result.Intent,
		Confidence:       result.Confidence,
		Output:           s.outputMapper.ToDTO(result.Output),
		QualityScore:     result.QualityScore,
		RepairAttempts:   s.outputMapper.ToRepairAttemptDTOs(result.RepairAttempts),
		TokensIn:         result.TokensIn,
		TokensOut:        result.TokensOut,
		ProcessingTimeMs: result.ProcessingTimeMs,
		Error:            result.Error,
	}
	if result.Quality != nil {
		res.FailedChecks = result.Quality.FailedChecks
	}

	// Usage accounting is asynchronous; the request never waits on it.
	s.publishUsage(ctx, userId, req.SessionId, res)

	if s.eventPublisher != nil {
		evt := events.NewPipelineCompleted(
			req.SessionId,
			userId,
			result.Intent,
			result.Success,
			result.QualityScore,
			len(result.RepairAttempts),
			result.ProcessingTimeMs,
		)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish PIPELINE_COMPLETED event: %v\n", err)
		}
	}

	return res, nil
}

func (s *pipelineService) publishUsage(ctx context.Context, userId, sessionId string, res *dto.ProcessResponse) {
	if s.publisherService == nil {
		return
	}

	msgPayload := dto.PublishUsageMessage{
		SessionId:      sessionId,
		UserId:         userId,
		Intent:         res.Intent,
		Model:          s.modelName,
		TokensIn:       res.TokensIn,
		TokensOut:      res.TokensOut,
		LatencyMs:      res.ProcessingTimeMs,
		QualityScore:   res.QualityScore,
		RepairAttempts: len(res.RepairAttempts),
		Success:        res.Success,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		fmt.Printf("[WARN] Failed to marshal usage message: %v\n", err)
		return
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		fmt.Printf("[WARN] Failed to publish usage message: %v\n", err)
	}
}

func (s *pipelineService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	analysis := s.orchestrator.AnalyzeOnly(req.Input)

	return &dto.AnalyzeResponse{
		CleanedText:  analysis.NormalizedInput.CleanedText,
		Language:     analysis.NormalizedInput.Language,
		Intent:       analysis.Classification.Intent,
		Confidence:   analysis.Classification.Confidence,
		MatchedRules: analysis.Classification.MatchedRules,
		Entities:     analysis.NormalizedInput.Entities,
		Metadata:     analysis.NormalizedInput.Metadata,
		Constraints:  analysis.Constraints,
	}, nil
}

func (s *pipelineService) GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error) {
	state := s.orchestrator.GetSessionState(sessionId)
	if state == nil {
		return nil, nil // Not found or expired
	}
	return s.outputMapper.ToSessionResponse(state), nil
}

func (s *pipelineService) ResetSession(ctx context.Context, sessionId string) error {
	s.orchestrator.ResetSession(sessionId)
	return nil
}

func (s *pipelineService) Health(ctx context.Context) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{
		Status:         "ok",
		Provider:       s.providerName,
		Model:          s.modelName,
		ActiveSessions: s.orchestrator.ActiveSessionCount(),
	}, nil
}
