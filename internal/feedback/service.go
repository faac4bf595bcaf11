package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iam-sarthakdev/MockMate-AI/internal/llm"
	"github.com/iam-sarthakdev/MockMate-AI/internal/metrics"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
	"github.com/iam-sarthakdev/MockMate-AI/internal/parsing"
	"github.com/iam-sarthakdev/MockMate-AI/internal/prompts"
	"github.com/iam-sarthakdev/MockMate-AI/internal/repositories"
)

type PromptBuilder interface {
	BuildPrompt(name, variant string, data any) (string, error)
}

type GenerateParams struct {
	InterviewID string
	UserID      string
	Transcript  []models.TranscriptTurn
}

// Service scores finished interviews and stores one assessment per (interview, user)
type Service struct {
	provider   llm.Provider
	prompts    PromptBuilder
	feedback   repositories.FeedbackRepository
	interviews repositories.InterviewRepository
	logger     *zap.Logger
	timeout    time.Duration
}

func NewService(provider llm.Provider, prompts PromptBuilder, feedback repositories.FeedbackRepository, interviews repositories.InterviewRepository, logger *zap.Logger, timeout time.Duration) *Service {
	return &Service{
		provider:   provider,
		prompts:    prompts,
		feedback:   feedback,
		interviews: interviews,
		logger:     logger,
		timeout:    timeout,
	}
}

// Generate scores the transcript once and upserts the result. A previous
// assessment for the same interview and user is replaced in place.
func (s *Service) Generate(ctx context.Context, p GenerateParams) (fb *models.Feedback, err error) {
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = string(models.FailureKindOf(err))
		}
		metrics.ObserveFeedbackGeneration(outcome)
	}()

	if len(p.Transcript) == 0 {
		return nil, models.NewFailure(models.FailureInvalid, "transcript is empty", nil)
	}
	if p.InterviewID == "" || p.UserID == "" {
		return nil, models.NewFailure(models.FailureInvalid, "interview and user are required", nil)
	}
	if _, err := s.interviews.GetByID(ctx, p.InterviewID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewFailure(models.FailureNotFound, "interview not found", err)
		}
		return nil, models.NewFailure(models.FailurePersistence, "failed to load interview", err)
	}

	prompt, err := s.prompts.BuildPrompt(prompts.TemplateFeedback, prompts.DefaultVariant, map[string]any{
		"Transcript": FormatTranscript(p.Transcript),
	})
	if err != nil {
		return nil, models.NewFailure(models.FailureUpstream, "failed to build prompt", err)
	}

	requestID := uuid.NewString()
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.provider.GenerateContent(genCtx, prompt, llm.GenerateOptions{
		RequestID: requestID,
		JSON:      true,
		Schema:    llm.SchemaFeedback,
	})
	if err != nil {
		s.logger.Error("Feedback generation failed",
			zap.String("request_id", requestID),
			zap.String("interview_id", p.InterviewID),
			zap.Error(err))
		return nil, models.NewFailure(models.FailureUpstream, "feedback generation failed", err)
	}

	assessment, err := parsing.ParseFeedback(resp.Content)
	if err != nil {
		s.logger.Warn("Rejected malformed feedback",
			zap.String("request_id", requestID),
			zap.String("interview_id", p.InterviewID),
			zap.Error(err))
		return nil, models.NewFailure(models.FailureMalformed, "model returned an invalid assessment", err)
	}

	stored, err := s.feedback.Upsert(ctx, &models.Feedback{
		InterviewID:         p.InterviewID,
		UserID:              p.UserID,
		TotalScore:          assessment.TotalScore,
		CategoryScores:      assessment.CategoryScores,
		Strengths:           assessment.Strengths,
		AreasForImprovement: assessment.AreasForImprovement,
		FinalAssessment:     assessment.FinalAssessment,
	})
	if err != nil {
		s.logger.Error("Failed to persist feedback", zap.String("request_id", requestID), zap.Error(err))
		return nil, models.NewFailure(models.FailurePersistence, "failed to save feedback", err)
	}

	s.logger.Info("Feedback generated",
		zap.String("request_id", requestID),
		zap.String("feedback_id", stored.ID),
		zap.String("interview_id", stored.InterviewID),
		zap.Float64("total_score", stored.TotalScore))
	return stored, nil
}

func (s *Service) GetForInterview(ctx context.Context, interviewID, userID string) (*models.Feedback, error) {
	fb, err := s.feedback.GetByInterviewAndUser(ctx, interviewID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewFailure(models.FailureNotFound, "feedback not found", err)
		}
		return nil, models.NewFailure(models.FailurePersistence, "failed to load feedback", err)
	}
	return fb, nil
}

// Get returns one feedback record. Records owned by another user are reported
// as not found.
func (s *Service) Get(ctx context.Context, id, userID string) (*models.Feedback, error) {
	fb, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewFailure(models.FailureNotFound, "feedback not found", err)
		}
		return nil, models.NewFailure(models.FailurePersistence, "failed to load feedback", err)
	}
	if fb.UserID != userID {
		return nil, models.NewFailure(models.FailureNotFound, "feedback not found", nil)
	}
	return fb, nil
}

// History returns the user's feedback, oldest first.
func (s *Service) History(ctx context.Context, userID string) ([]models.Feedback, error) {
	out, err := s.feedback.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewFailure(models.FailurePersistence, "failed to list feedback", err)
	}
	return out, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (*models.FeedbackStats, error) {
	history, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ComputeStats(history)
}

// FormatTranscript renders turns as "- role: content" lines.
func FormatTranscript(turns []models.TranscriptTurn) string {
	var b strings.Builder
	for _, turn := range turns {
		b.WriteString("- ")
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return b.String()
}
