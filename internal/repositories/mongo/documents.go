package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

const (
	InterviewsCollection = "interviews"
	FeedbackCollection   = "feedback"
)

type interviewDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Role       string             `bson:"role"`
	Type       string             `bson:"type"`
	Level      string             `bson:"level"`
	TechStack  []string           `bson:"techstack"`
	Questions  []string           `bson:"questions"`
	UserID     string             `bson:"userId"`
	Finalized  bool               `bson:"finalized"`
	CoverImage string             `bson:"coverImage"`
	Amount     int                `bson:"amount"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d *interviewDocument) toModel() models.Interview {
	return models.Interview{
		ID:         d.ID.Hex(),
		Role:       d.Role,
		Type:       d.Type,
		Level:      d.Level,
		TechStack:  d.TechStack,
		Questions:  d.Questions,
		UserID:     d.UserID,
		Finalized:  d.Finalized,
		CoverImage: d.CoverImage,
		Amount:     d.Amount,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func interviewFromModel(in *models.Interview) *interviewDocument {
	return &interviewDocument{
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
		UpdatedAt:  in.UpdatedAt,
	}
}

type categoryScoreDocument struct {
	Name    string  `bson:"name"`
	Score   float64 `bson:"score"`
	Comment string  `bson:"comment"`
}

type feedbackDocument struct {
	ID                  primitive.ObjectID      `bson:"_id,omitempty"`
	InterviewID         string                  `bson:"interviewId"`
	UserID              string                  `bson:"userId"`
	TotalScore          float64                 `bson:"totalScore"`
	CategoryScores      []categoryScoreDocument `bson:"categoryScores"`
	Strengths           []string                `bson:"strengths"`
	AreasForImprovement []string                `bson:"areasForImprovement"`
	FinalAssessment     string                  `bson:"finalAssessment"`
	CreatedAt           time.Time               `bson:"createdAt"`
	UpdatedAt           time.Time               `bson:"updatedAt"`
}

func (d *feedbackDocument) toModel() models.Feedback {
	scores := make([]models.CategoryScore, 0, len(d.CategoryScores))
	for _, s := range d.CategoryScores {
		scores = append(scores, models.CategoryScore{Name: s.Name, Score: s.Score, Comment: s.Comment})
	}
	return models.Feedback{
		ID:                  d.ID.Hex(),
		InterviewID:         d.InterviewID,
		UserID:              d.UserID,
		TotalScore:          d.TotalScore,
		CategoryScores:      scores,
		Strengths:           d.Strengths,
		AreasForImprovement: d.AreasForImprovement,
		FinalAssessment:     d.FinalAssessment,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

func categoryScoresToDocuments(scores []models.CategoryScore) []categoryScoreDocument {
	out := make([]categoryScoreDocument, 0, len(scores))
	for _, s := range scores {
		out = append(out, categoryScoreDocument{Name: s.Name, Score: s.Score, Comment: s.Comment})
	}
	return out
}
