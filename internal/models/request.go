package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	MinQuestionAmount = 1
	MaxQuestionAmount = 20
)

// FlexInt accepts both JSON numbers and numeric strings.
// The voice workflow posts tool arguments as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// body of POST /api/v1/vapi/generate, field names fixed by the voice workflow
type GenerateInterviewRequest struct {
	Type      string  `json:"type"`
	Role      string  `json:"role"`
	Level     string  `json:"level"`
	TechStack string  `json:"techstack"`
	Amount    FlexInt `json:"amount"`
	UserID    string  `json:"userid"`
}

func (r *GenerateInterviewRequest) Validate() error {
	r.Role = strings.TrimSpace(r.Role)
	r.Level = strings.TrimSpace(r.Level)
	r.UserID = strings.TrimSpace(r.UserID)
	r.Type = NormalizeInterviewType(r.Type)

	if r.Role == "" {
		return &ErrorResponse{Code: "missing_role", Message: "role is required"}
	}
	if r.Level == "" {
		return &ErrorResponse{Code: "missing_level", Message: "level is required"}
	}
	if r.Type == "" {
		return &ErrorResponse{Code: "missing_type", Message: "type is required"}
	}
	if len(SplitTechStack(r.TechStack)) == 0 {
		return &ErrorResponse{Code: "missing_techstack", Message: "techstack must contain at least one technology"}
	}
	if r.Amount < MinQuestionAmount || r.Amount > MaxQuestionAmount {
		return &ErrorResponse{
			Code:    "invalid_amount",
			Message: "amount must be between 1 and 20",
			Details: []ValidationErrorDetail{{Field: "amount", Reason: "out of range"}},
		}
	}
	if r.UserID == "" {
		return &ErrorResponse{Code: "missing_userid", Message: "userid is required"}
	}
	return nil
}

// body of POST /api/v1/feedback
type CreateFeedbackRequest struct {
	InterviewID string           `json:"interviewId"`
	UserID      string           `json:"userId"`
	Transcript  []TranscriptTurn `json:"transcript"`
}

func (r *CreateFeedbackRequest) Validate() error {
	r.InterviewID = strings.TrimSpace(r.InterviewID)
	r.UserID = strings.TrimSpace(r.UserID)

	if r.InterviewID == "" {
		return &ErrorResponse{Code: "missing_interview_id", Message: "interviewId is required"}
	}
	if len(r.Transcript) == 0 {
		return &ErrorResponse{Code: "empty_transcript", Message: "transcript must contain at least one turn"}
	}
	for i, turn := range r.Transcript {
		if strings.TrimSpace(turn.Role) == "" || strings.TrimSpace(turn.Content) == "" {
			return &ErrorResponse{
				Code:    "invalid_transcript",
				Message: "transcript turns need a role and content",
				Details: []ValidationErrorDetail{{Field: "transcript[" + strconv.Itoa(i) + "]", Reason: "empty role or content"}},
			}
		}
	}
	return nil
}

// body of POST /api/v1/calls
type CreateCallRequest struct {
	Type        string `json:"type"` // "generate" | "interview"
	InterviewID string `json:"interviewId,omitempty"`
}

func (r *CreateCallRequest) Validate() error {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.InterviewID = strings.TrimSpace(r.InterviewID)

	switch r.Type {
	case "generate":
		return nil
	case "interview":
		if r.InterviewID == "" {
			return &ErrorResponse{Code: "missing_interview_id", Message: "interviewId is required for interview calls"}
		}
		return nil
	default:
		return &ErrorResponse{Code: "invalid_call_type", Message: "type must be generate or interview"}
	}
}

// NormalizeInterviewType lower-cases the focus and folds common spellings.
// Unrecognized values are kept as free text.
func NormalizeInterviewType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "behavioural", "behavior", "behaviour":
		return InterviewTypeBehavioral
	case "technical", "tech":
		return InterviewTypeTechnical
	case "mix", "mixed", "balanced":
		return InterviewTypeMixed
	}
	return t
}

// SplitTechStack splits a comma separated tech stack, trimming entries and dropping empties.
func SplitTechStack(techStack string) []string {
	var out []string
	for _, tech := range strings.Split(techStack, ",") {
		if tech = strings.TrimSpace(tech); tech != "" {
			out = append(out, tech)
		}
	}
	return out
}
