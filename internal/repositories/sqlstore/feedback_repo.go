package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

type FeedbackRepo struct {
	DB *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{DB: db}
}

// Upsert replaces the assessment for (interview, user) in place, or inserts it
func (r *FeedbackRepo) Upsert(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	rec := FeedbackRecord{
		InterviewID:         fb.InterviewID,
		UserID:              fb.UserID,
		TotalScore:          fb.TotalScore,
		CategoryScores:      fb.CategoryScores,
		Strengths:           fb.Strengths,
		AreasForImprovement: fb.AreasForImprovement,
		FinalAssessment:     fb.FinalAssessment,
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing FeedbackRecord
		err := tx.Where("interview_id = ? AND user_id = ?", fb.InterviewID, fb.UserID).First(&existing).Error
		now := time.Now().UTC()
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec.ID = uuid.NewString()
			rec.CreatedAt, rec.UpdatedAt = now, now
			return tx.Create(&rec).Error
		case err != nil:
			return err
		}
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = now
		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	out := rec.toModel()
	return &out, nil
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	return r.first(r.DB.WithContext(ctx).Where("id = ?", id))
}

func (r *FeedbackRepo) GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (*models.Feedback, error) {
	return r.first(r.DB.WithContext(ctx).Where("interview_id = ? AND user_id = ?", interviewID, userID))
}

func (r *FeedbackRepo) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	var recs []FeedbackRecord
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]models.Feedback, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel())
	}
	return out, nil
}

func (r *FeedbackRepo) first(query *gorm.DB) (*models.Feedback, error) {
	var rec FeedbackRecord
	if err := query.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	out := rec.toModel()
	return &out, nil
}
