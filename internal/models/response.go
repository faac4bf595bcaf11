package models

// uniform error payload
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// envelope kept compatible with the web client, which reads success/message/data/error
type GenerateInterviewResponse struct {
	Success bool           `json:"success"`
	Message *Interview     `json:"message,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ListResponse[T any] struct {
	Success bool `json:"success"`
	Total   int  `json:"total"`
	Data    []T  `json:"data"`
}

type CreateFeedbackResponse struct {
	Success    bool           `json:"success"`
	FeedbackID string         `json:"feedbackId,omitempty"`
	Error      *ErrorResponse `json:"error,omitempty"`
}

type DashboardResponse struct {
	Success          bool        `json:"success"`
	UserInterviews   []Interview `json:"userInterviews"`
	LatestInterviews []Interview `json:"latestInterviews"`
}
