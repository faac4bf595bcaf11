package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
	"github.com/iam-sarthakdev/MockMate-AI/internal/testhelpers"
)

func generateBody(amount any) map[string]any {
	return map[string]any{
		"type":      "technical",
		"role":      "Frontend Engineer",
		"level":     "Junior",
		"techstack": "React,CSS",
		"amount":    amount,
		"userid":    "user-1",
	}
}

func TestGenerateHandlerPersistsInterview(t *testing.T) {
	provider := testhelpers.Respond(`["What is the virtual DOM?", "Explain flexbox.", "How do hooks work?"]`)
	env := newTestEnv(t, provider)
	router := env.router("")

	rec := do(t, router, http.MethodPost, "/api/v1/vapi/generate", generateBody("3"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.GenerateInterviewResponse](t, rec)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Message)
	assert.Len(t, resp.Message.Questions, 3)
	assert.Equal(t, []string{"React", "CSS"}, resp.Message.TechStack)
	assert.Equal(t, "user-1", resp.Message.UserID)
	assert.True(t, resp.Message.Finalized)
	assert.NotEmpty(t, resp.Message.CoverImage)

	list := decode[models.ListResponse[models.Interview]](t, do(t, router, http.MethodGet, "/api/v1/vapi/generate", nil))
	assert.True(t, list.Success)
	assert.Equal(t, 1, list.Total)
}

func TestGenerateHandlerMalformedOutput(t *testing.T) {
	env := newTestEnv(t, testhelpers.Respond("Q1, Q2, Q3"))
	router := env.router("")

	rec := do(t, router, http.MethodPost, "/api/v1/vapi/generate", generateBody(3))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decode[envelope[any]](t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(models.FailureMalformed), resp.Error.Code)

	list := decode[models.ListResponse[models.Interview]](t, do(t, router, http.MethodGet, "/api/v1/vapi/generate", nil))
	assert.Zero(t, list.Total)
	assert.NotNil(t, list.Data)
}

func TestGenerateHandlerRejectsInvalidInput(t *testing.T) {
	provider := testhelpers.Respond(`["Q1"]`)
	env := newTestEnv(t, provider)

	rec := do(t, env.router(""), http.MethodPost, "/api/v1/vapi/generate", generateBody(0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, env.router(""), http.MethodPost, "/api/v1/vapi/generate", `{"role":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, provider.Calls())
}

func TestInterviewLookups(t *testing.T) {
	env := newTestEnv(t, testhelpers.Respond(`[]`))
	mine := env.seedInterview(t, "user-1", "Q1")
	theirs := env.seedInterview(t, "user-2", "Q2")
	router := env.router("user-1")

	t.Run("by id", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/interviews/"+theirs.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, theirs.ID, decode[envelope[models.Interview]](t, rec).Data.ID)

		rec = do(t, router, http.MethodGet, "/api/v1/interviews/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("mine", func(t *testing.T) {
		resp := decode[models.ListResponse[models.Interview]](t, do(t, router, http.MethodGet, "/api/v1/interviews/mine", nil))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, mine.ID, resp.Data[0].ID)
	})

	t.Run("latest excludes own", func(t *testing.T) {
		resp := decode[models.ListResponse[models.Interview]](t, do(t, router, http.MethodGet, "/api/v1/interviews/latest?limit=5", nil))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, theirs.ID, resp.Data[0].ID)

		rec := do(t, router, http.MethodGet, "/api/v1/interviews/latest?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dashboard", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/dashboard", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[models.DashboardResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Len(t, resp.UserInterviews, 1)
		assert.Len(t, resp.LatestInterviews, 1)
	})

	t.Run("requires identity", func(t *testing.T) {
		rec := do(t, env.router(""), http.MethodGet, "/api/v1/interviews/mine", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestParseLimit(t *testing.T) {
	n, err := parseLimit("")
	require.NoError(t, err)
	assert.Equal(t, defaultLatestLimit, n)

	n, err = parseLimit("500")
	require.NoError(t, err)
	assert.Equal(t, maxLatestLimit, n)

	_, err = parseLimit("-1")
	assert.Error(t, err)
}
