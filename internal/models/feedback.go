package models

import "time"

// fixed, closed set of scoring categories
const (
	CategoryCommunication = "Communication Skills"
	CategoryTechnical     = "Technical Knowledge"
	CategoryProblemSolve  = "Problem Solving"
	CategoryCulturalFit   = "Cultural Fit"
	CategoryConfidence    = "Confidence and Clarity"
)

func FeedbackCategories() []string {
	return []string{
		CategoryCommunication,
		CategoryTechnical,
		CategoryProblemSolve,
		CategoryCulturalFit,
		CategoryConfidence,
	}
}

const (
	MinScore = 0
	MaxScore = 100
)

type CategoryScore struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

// Feedback is the scored assessment of one interview attempt.
// At most one exists per (InterviewID, UserID); regeneration replaces it in place.
type Feedback struct {
	ID                  string          `json:"id"`
	InterviewID         string          `json:"interviewId"`
	UserID              string          `json:"userId"`
	TotalScore          float64         `json:"totalScore"`
	CategoryScores      []CategoryScore `json:"categoryScores"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// single finalized speaker turn
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// aggregate view over a user's feedback history
type FeedbackStats struct {
	Count          int                `json:"count"`
	MeanScore      float64            `json:"meanScore"`
	MedianScore    float64            `json:"medianScore"`
	BestScore      float64            `json:"bestScore"`
	LatestScore    float64            `json:"latestScore"`
	CategoryMeans  map[string]float64 `json:"categoryMeans"`
	ScoreTrendDiff float64            `json:"scoreTrendDiff"` // latest minus mean
}
