package parsing

import (
	"fmt"
	"math"
	"strings"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

// Assessment is a validated scoring result, not yet tied to an interview or user.
type Assessment struct {
	TotalScore          float64
	CategoryScores      []models.CategoryScore // canonical category order
	Strengths           []string
	AreasForImprovement []string
	FinalAssessment     string
}

// ParseFeedback decodes a scoring response and validates it against the fixed category set.
func ParseFeedback(raw string) (*Assessment, error) {
	v, err := decode(utils.StripFences(raw))
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("", "expected an object, got %T", v)
	}

	total, err := score("totalScore", obj["totalScore"])
	if err != nil {
		return nil, err
	}

	categories, err := categoryScores(obj["categoryScores"])
	if err != nil {
		return nil, err
	}

	strengths, err := optionalList("strengths", obj["strengths"])
	if err != nil {
		return nil, err
	}
	areas, err := optionalList("areasForImprovement", obj["areasForImprovement"])
	if err != nil {
		return nil, err
	}

	final, _ := obj["finalAssessment"].(string)
	final = strings.TrimSpace(final)
	if final == "" {
		return nil, invalid("finalAssessment", "missing or empty")
	}

	return &Assessment{
		TotalScore:          total,
		CategoryScores:      categories,
		Strengths:           strengths,
		AreasForImprovement: areas,
		FinalAssessment:     final,
	}, nil
}

func score(path string, v any) (float64, error) {
	n, ok := v.(float64)
	if !ok {
		return 0, invalid(path, "expected a number, got %T", v)
	}
	if math.IsNaN(n) || n < models.MinScore || n > models.MaxScore {
		return 0, invalid(path, "score %v outside %d-%d", n, models.MinScore, models.MaxScore)
	}
	return n, nil
}

// lists may be absent, but when present must hold strings only
func optionalList(path string, v any) ([]string, error) {
	if v == nil {
		return []string{}, nil
	}
	return validateStringList(path, v, false)
}

func categoryScores(v any) ([]models.CategoryScore, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, invalid("categoryScores", "expected an array, got %T", v)
	}
	canonical := models.FeedbackCategories()
	if len(items) != len(canonical) {
		return nil, invalid("categoryScores", "expected %d categories, got %d", len(canonical), len(items))
	}

	byName := make(map[string]models.CategoryScore, len(items))
	for i, item := range items {
		path := fmt.Sprintf("categoryScores[%d]", i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalid(path, "expected an object, got %T", item)
		}
		rawName, _ := obj["name"].(string)
		name, known := canonicalCategory(rawName)
		if !known {
			return nil, invalid(path+".name", "unknown category %q", rawName)
		}
		if _, dup := byName[name]; dup {
			return nil, invalid(path+".name", "duplicate category %q", name)
		}
		s, err := score(path+".score", obj["score"])
		if err != nil {
			return nil, err
		}
		comment, _ := obj["comment"].(string)
		byName[name] = models.CategoryScore{Name: name, Score: s, Comment: strings.TrimSpace(comment)}
	}

	out := make([]models.CategoryScore, 0, len(canonical))
	for _, name := range canonical {
		out = append(out, byName[name])
	}
	return out, nil
}

func canonicalCategory(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range models.FeedbackCategories() {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
