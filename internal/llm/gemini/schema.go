package gemini

import (
	"google.golang.org/genai"

	"github.com/iam-sarthakdev/MockMate-AI/internal/llm"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

func scoreSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeNumber,
		Description: description,
		Minimum:     genai.Ptr[float64](models.MinScore),
		Maximum:     genai.Ptr[float64](models.MaxScore),
	}
}

// responseSchema maps a named llm schema onto the Gemini structured output schema.
// Output is still validated by the caller; the schema only makes well-formed output likelier.
func responseSchema(name string) *genai.Schema {
	switch name {
	case llm.SchemaQuestionList:
		return &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		}
	case llm.SchemaFeedback:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"totalScore": scoreSchema("overall score from 0 to 100"),
				"categoryScores": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":    {Type: genai.TypeString, Enum: models.FeedbackCategories()},
							"score":   scoreSchema("category score from 0 to 100"),
							"comment": {Type: genai.TypeString},
						},
						Required: []string{"name", "score", "comment"},
					},
				},
				"strengths":           {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"areasForImprovement": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"finalAssessment":     {Type: genai.TypeString},
			},
			Required: []string{"totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"},
		}
	}
	return nil
}
