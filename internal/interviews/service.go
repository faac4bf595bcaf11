package interviews

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
	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

// PromptBuilder renders a named prompt template
type PromptBuilder interface {
	BuildPrompt(name, variant string, data any) (string, error)
}

type GenerateParams struct {
	Role      string
	Level     string
	TechStack string // comma separated
	Type      string
	Amount    int
	UserID    string
}

// Service generates interview question sets and persists them
type Service struct {
	provider llm.Provider
	prompts  PromptBuilder
	repo     repositories.InterviewRepository
	logger   *zap.Logger
	timeout  time.Duration
	cover    func() string
}

func NewService(provider llm.Provider, prompts PromptBuilder, repo repositories.InterviewRepository, logger *zap.Logger, timeout time.Duration) *Service {
	return &Service{
		provider: provider,
		prompts:  prompts,
		repo:     repo,
		logger:   logger,
		timeout:  timeout,
		cover:    utils.RandomInterviewCover,
	}
}

// Generate asks the provider for questions once and stores the resulting interview.
// Nothing is persisted unless the output validates as a non-empty list of questions.
func (s *Service) Generate(ctx context.Context, p GenerateParams) (interview *models.Interview, err error) {
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = string(models.FailureKindOf(err))
		}
		metrics.ObserveInterviewGeneration(outcome)
	}()

	p.Level = utils.NormalizeLevel(p.Level)
	techStack := models.SplitTechStack(p.TechStack)
	if len(techStack) == 0 {
		return nil, models.NewFailure(models.FailureInvalid, "tech stack must contain at least one technology", nil)
	}
	if strings.TrimSpace(p.Role) == "" || strings.TrimSpace(p.UserID) == "" || p.Amount < models.MinQuestionAmount {
		return nil, models.NewFailure(models.FailureInvalid, "role, user and a positive amount are required", nil)
	}

	prompt, err := s.prompts.BuildPrompt(prompts.TemplateQuestions, promptVariant(p.Type), map[string]any{
		"Role":      p.Role,
		"Level":     p.Level,
		"TechStack": strings.Join(techStack, ","),
		"Type":      p.Type,
		"Amount":    p.Amount,
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
		Schema:    llm.SchemaQuestionList,
	})
	if err != nil {
		s.logger.Error("Question generation failed",
			zap.String("request_id", requestID),
			zap.String("provider", s.provider.GetProviderName()),
			zap.Error(err))
		return nil, models.NewFailure(models.FailureUpstream, "question generation failed", err)
	}

	questions, err := parsing.ParseStringArray(resp.Content)
	if err != nil {
		s.logger.Warn("Rejected malformed question list",
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, models.NewFailure(models.FailureMalformed, "model returned an invalid question list", err)
	}
	if len(questions) != p.Amount {
		s.logger.Info("Question count differs from requested amount",
			zap.String("request_id", requestID),
			zap.Int("requested", p.Amount),
			zap.Int("returned", len(questions)))
	}

	created, err := s.repo.Create(ctx, &models.Interview{
		Role:       p.Role,
		Type:       p.Type,
		Level:      p.Level,
		TechStack:  techStack,
		Questions:  questions,
		UserID:     p.UserID,
		Finalized:  true,
		CoverImage: s.cover(),
		Amount:     p.Amount,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("Failed to persist interview", zap.String("request_id", requestID), zap.Error(err))
		return nil, models.NewFailure(models.FailurePersistence, "failed to save interview", err)
	}

	s.logger.Info("Interview generated",
		zap.String("request_id", requestID),
		zap.String("interview_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.Int("questions", len(created.Questions)))
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Interview, error) {
	interview, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFailure("interview", err)
	}
	return interview, nil
}

func (s *Service) List(ctx context.Context) ([]models.Interview, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, models.NewFailure(models.FailurePersistence, "failed to list interviews", err)
	}
	return out, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewFailure(models.FailurePersistence, "failed to list user interviews", err)
	}
	return out, nil
}

func (s *Service) ListLatest(ctx context.Context, excludeUserID string, limit int) ([]models.Interview, error) {
	out, err := s.repo.ListLatest(ctx, excludeUserID, limit)
	if err != nil {
		return nil, models.NewFailure(models.FailurePersistence, "failed to list latest interviews", err)
	}
	return out, nil
}

func lookupFailure(what string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NewFailure(models.FailureNotFound, what+" not found", err)
	}
	return models.NewFailure(models.FailurePersistence, "failed to load "+what, err)
}

// picks the template variant matching the normalized interview focus
func promptVariant(interviewType string) string {
	switch models.NormalizeInterviewType(interviewType) {
	case models.InterviewTypeBehavioral:
		return models.InterviewTypeBehavioral
	case models.InterviewTypeTechnical:
		return models.InterviewTypeTechnical
	default:
		return prompts.DefaultVariant
	}
}
