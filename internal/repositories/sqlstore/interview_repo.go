package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

type InterviewRepo struct {
	DB *gorm.DB
}

func NewInterviewRepo(db *gorm.DB) *InterviewRepo {
	return &InterviewRepo{DB: db}
}

func (r *InterviewRepo) Create(ctx context.Context, in *models.Interview) (*models.Interview, error) {
	rec := &InterviewRecord{
		ID:         uuid.NewString(),
		Role:       in.Role,
		Type:       in.Type,
		Level:      in.Level,
		TechStack:  in.TechStack,
		Questions:  in.Questions,
		UserID:     in.UserID,
		Finalized:  in.Finalized,
		CoverImage: in.CoverImage,
		Amount:     in.Amount,
		CreatedAt:  in.CreatedAt,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.UpdatedAt = rec.CreatedAt

	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	out := rec.toModel()
	return &out, nil
}

func (r *InterviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	var rec InterviewRecord
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	out := rec.toModel()
	return &out, nil
}

func (r *InterviewRepo) List(ctx context.Context) ([]models.Interview, error) {
	return r.find(r.DB.WithContext(ctx).Order("created_at DESC"))
}

func (r *InterviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	return r.find(r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC"))
}

func (r *InterviewRepo) ListLatest(ctx context.Context, excludeUserID string, limit int) ([]models.Interview, error) {
	query := r.DB.WithContext(ctx).Where("finalized = ?", true)
	if excludeUserID != "" {
		query = query.Where("user_id <> ?", excludeUserID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(query.Order("created_at DESC"))
}

func (r *InterviewRepo) find(query *gorm.DB) ([]models.Interview, error) {
	var recs []InterviewRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]models.Interview, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel())
	}
	return out, nil
}
