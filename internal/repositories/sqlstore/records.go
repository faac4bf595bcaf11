package sqlstore

import (
	"time"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

// InterviewRecord is the relational row for models.Interview
type InterviewRecord struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Role       string    `gorm:"not null"`
	Type       string
	Level      string
	TechStack  []string  `gorm:"serializer:json;type:text"`
	Questions  []string  `gorm:"serializer:json;type:text"`
	UserID     string    `gorm:"not null;index;size:64"`
	Finalized  bool      `gorm:"index"`
	CoverImage string
	Amount     int
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (InterviewRecord) TableName() string { return "interviews" }

func (r *InterviewRecord) toModel() models.Interview {
	return models.Interview{
		ID:         r.ID,
		Role:       r.Role,
		Type:       r.Type,
		Level:      r.Level,
		TechStack:  r.TechStack,
		Questions:  r.Questions,
		UserID:     r.UserID,
		Finalized:  r.Finalized,
		CoverImage: r.CoverImage,
		Amount:     r.Amount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FeedbackRecord is the relational row for models.Feedback
type FeedbackRecord struct {
	ID                  string                 `gorm:"primaryKey;size:36"`
	InterviewID         string                 `gorm:"not null;size:64;uniqueIndex:idx_feedback_interview_user"`
	UserID              string                 `gorm:"not null;size:64;uniqueIndex:idx_feedback_interview_user;index"`
	TotalScore          float64
	CategoryScores      []models.CategoryScore `gorm:"serializer:json;type:text"`
	Strengths           []string               `gorm:"serializer:json;type:text"`
	AreasForImprovement []string               `gorm:"serializer:json;type:text"`
	FinalAssessment     string                 `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (FeedbackRecord) TableName() string { return "feedback" }

func (r *FeedbackRecord) toModel() models.Feedback {
	return models.Feedback{
		ID:                  r.ID,
		InterviewID:         r.InterviewID,
		UserID:              r.UserID,
		TotalScore:          r.TotalScore,
		CategoryScores:      r.CategoryScores,
		Strengths:           r.Strengths,
		AreasForImprovement: r.AreasForImprovement,
		FinalAssessment:     r.FinalAssessment,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}
