package repositories

import (
	"context"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

// InterviewRepository persists generated interviews. Records are immutable once created.
// Lookups that match nothing return models.ErrNotFound.
type InterviewRepository interface {
	Create(ctx context.Context, interview *models.Interview) (*models.Interview, error)
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	List(ctx context.Context) ([]models.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]models.Interview, error)
	// ListLatest returns finalized interviews owned by anyone but excludeUserID, newest first.
	ListLatest(ctx context.Context, excludeUserID string, limit int) ([]models.Interview, error)
}

// FeedbackRepository persists feedback, at most one record per (interview, user).
type FeedbackRepository interface {
	// Upsert inserts feedback or replaces the assessment already stored for the
	// same interview and user, keeping its id and creation time.
	Upsert(ctx context.Context, feedback *models.Feedback) (*models.Feedback, error)
	GetByID(ctx context.Context, id string) (*models.Feedback, error)
	GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (*models.Feedback, error)
	// ListByUser returns the user's feedback, oldest first.
	ListByUser(ctx context.Context, userID string) ([]models.Feedback, error)
}
