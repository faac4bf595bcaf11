package feedback

import (
	"github.com/montanaflynn/stats"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

// ComputeStats summarizes a feedback history ordered oldest first.
func ComputeStats(history []models.Feedback) (*models.FeedbackStats, error) {
	out := &models.FeedbackStats{
		Count:         len(history),
		CategoryMeans: make(map[string]float64),
	}
	if len(history) == 0 {
		return out, nil
	}

	totals := make(stats.Float64Data, 0, len(history))
	perCategory := make(map[string]stats.Float64Data)
	for _, fb := range history {
		totals = append(totals, fb.TotalScore)
		for _, c := range fb.CategoryScores {
			perCategory[c.Name] = append(perCategory[c.Name], c.Score)
		}
	}

	var err error
	if out.MeanScore, err = stats.Mean(totals); err != nil {
		return nil, err
	}
	if out.MedianScore, err = stats.Median(totals); err != nil {
		return nil, err
	}
	if out.BestScore, err = stats.Max(totals); err != nil {
		return nil, err
	}
	out.LatestScore = totals[len(totals)-1]
	out.ScoreTrendDiff = out.LatestScore - out.MeanScore

	for name, scores := range perCategory {
		mean, err := stats.Mean(scores)
		if err != nil {
			return nil, err
		}
		out.CategoryMeans[name] = mean
	}
	return out, nil
}
