package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iam-sarthakdev/MockMate-AI/internal/calls"
	"github.com/iam-sarthakdev/MockMate-AI/internal/feedback"
	"github.com/iam-sarthakdev/MockMate-AI/internal/interviews"
	"github.com/iam-sarthakdev/MockMate-AI/internal/llm"
	"github.com/iam-sarthakdev/MockMate-AI/internal/middleware"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
	"github.com/iam-sarthakdev/MockMate-AI/internal/prompts"
	"github.com/iam-sarthakdev/MockMate-AI/internal/repositories"
	"github.com/iam-sarthakdev/MockMate-AI/internal/testhelpers"
)

const scoredResponse = `{
  "totalScore": 64,
  "categoryScores": [
    {"name": "Communication Skills", "score": 70, "comment": "clear"},
    {"name": "Technical Knowledge", "score": 60, "comment": "shallow"},
    {"name": "Problem Solving", "score": 65, "comment": "ok"},
    {"name": "Cultural Fit", "score": 60, "comment": "fine"},
    {"name": "Confidence and Clarity", "score": 65, "comment": "steady"}
  ],
  "strengths": ["listens well"],
  "areasForImprovement": ["depth"],
  "finalAssessment": "Keep practicing."
}`

type testEnv struct {
	store      *repositories.Store
	interviews *InterviewHandler
	feedback   *FeedbackHandler
	calls      *CallHandler
	manager    *calls.Manager
}

// newTestEnv wires real services over an in-memory store. The same provider
// answers both generation and scoring prompts.
func newTestEnv(t *testing.T, provider llm.Provider) *testEnv {
	t.Helper()
	store := testhelpers.SetupTestStore(t)
	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)

	logger := zap.NewNop()
	interviewSvc := interviews.NewService(provider, pm, store.Interviews, logger, time.Second)
	feedbackSvc := feedback.NewService(provider, pm, store.Feedback, store.Interviews, logger, time.Second)
	manager := calls.NewManager(calls.ManagerConfig{
		WorkflowID:     "workflow",
		InterviewerID:  "interviewer",
		ConnectTimeout: time.Minute,
		IdleTTL:        time.Hour,
	}, store.Interviews, feedbackSvc, logger)

	return &testEnv{
		store:      store,
		interviews: NewInterviewHandler(interviewSvc, logger),
		feedback:   NewFeedbackHandler(feedbackSvc, logger),
		calls:      NewCallHandler(manager, nil, []string{"*"}, logger),
		manager:    manager,
	}
}

func (e *testEnv) seedInterview(t *testing.T, userID string, questions ...string) *models.Interview {
	t.Helper()
	iv, err := e.store.Interviews.Create(context.Background(), &models.Interview{
		Role:      "Backend Engineer",
		Level:     "Senior",
		Type:      models.InterviewTypeTechnical,
		TechStack: []string{"Go"},
		Questions: questions,
		UserID:    userID,
		Finalized: true,
		Amount:    len(questions),
	})
	require.NoError(t, err)
	return iv
}

func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithIdentity(r.Context(), middleware.Identity{UserID: userID, Name: "Ada"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// router mounts the handlers the same way the routers package does, with a
// fixed user in place of token auth.
func (e *testEnv) router(userID string) *chi.Mux {
	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.GenerateInterviewRequest]()).Post("/api/v1/vapi/generate", e.interviews.GenerateHandler)
	r.Get("/api/v1/vapi/generate", e.interviews.ListHandler)

	r.Group(func(r chi.Router) {
		if userID != "" {
			r.Use(asUser(userID))
		}
		r.Get("/api/v1/dashboard", e.interviews.DashboardHandler)
		r.Get("/api/v1/interviews/mine", e.interviews.MineHandler)
		r.Get("/api/v1/interviews/latest", e.interviews.LatestHandler)
		r.Get("/api/v1/interviews/{id}", e.interviews.GetHandler)
		r.Get("/api/v1/interviews/{id}/feedback", e.feedback.GetForInterviewHandler)

		r.With(middleware.ValidateRequest[*models.CreateFeedbackRequest]()).Post("/api/v1/feedback", e.feedback.CreateHandler)
		r.Get("/api/v1/feedback/stats", e.feedback.StatsHandler)
		r.Get("/api/v1/feedback/export", e.feedback.ExportHandler)
		r.Get("/api/v1/feedback/{id}", e.feedback.GetHandler)

		r.With(middleware.ValidateRequest[*models.CreateCallRequest]()).Post("/api/v1/calls", e.calls.CreateHandler)
		r.Get("/api/v1/calls/{id}", e.calls.GetHandler)
		r.Post("/api/v1/calls/{id}/start", e.calls.StartHandler)
		r.Post("/api/v1/calls/{id}/events", e.calls.EventsHandler)
		r.Post("/api/v1/calls/{id}/disconnect", e.calls.DisconnectHandler)
		r.Get("/api/v1/calls/{id}/ws", e.calls.SocketHandler)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type envelope[T any] struct {
	Success bool                  `json:"success"`
	Data    T                     `json:"data"`
	Error   *models.ErrorResponse `json:"error"`
}
