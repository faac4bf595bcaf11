package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := Open(DriverSQLite, dsn)
	require.NoError(t, err)
	return db
}

func TestInterviewRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewInterviewRepo(setupDB(t))

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seed := []models.Interview{
		{Role: "Frontend", UserID: "alice", Finalized: true, TechStack: []string{"React"}, Questions: []string{"Q1"}, CreatedAt: base},
		{Role: "Backend", UserID: "bob", Finalized: true, TechStack: []string{"Go"}, Questions: []string{"Q1", "Q2"}, CreatedAt: base.Add(time.Hour)},
		{Role: "Data", UserID: "carol", Finalized: false, TechStack: []string{"SQL"}, Questions: []string{"Q1"}, CreatedAt: base.Add(2 * time.Hour)},
		{Role: "Mobile", UserID: "alice", Finalized: true, TechStack: []string{"Swift"}, Questions: []string{"Q1"}, CreatedAt: base.Add(3 * time.Hour)},
	}
	var ids []string
	for i := range seed {
		created, err := repo.Create(ctx, &seed[i])
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		ids = append(ids, created.ID)
	}

	t.Run("get by id round trips lists", func(t *testing.T) {
		got, err := repo.GetByID(ctx, ids[1])
		require.NoError(t, err)
		assert.Equal(t, []string{"Go"}, got.TechStack)
		assert.Equal(t, []string{"Q1", "Q2"}, got.Questions)

		_, err = repo.GetByID(ctx, "missing")
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run("list newest first", func(t *testing.T) {
		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "Mobile", all[0].Role)
	})

	t.Run("list by user", func(t *testing.T) {
		mine, err := repo.ListByUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, "Mobile", mine[0].Role)
		assert.Equal(t, "Frontend", mine[1].Role)
	})

	t.Run("list latest excludes user and drafts", func(t *testing.T) {
		latest, err := repo.ListLatest(ctx, "alice", 10)
		require.NoError(t, err)
		require.Len(t, latest, 1)
		assert.Equal(t, "bob", latest[0].UserID)

		limited, err := repo.ListLatest(ctx, "", 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, "Mobile", limited[0].Role)
	})
}

func TestFeedbackRepoUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedbackRepo(setupDB(t))

	first, err := repo.Upsert(ctx, &models.Feedback{
		InterviewID:     "interview-1",
		UserID:          "alice",
		TotalScore:      55,
		CategoryScores:  []models.CategoryScore{{Name: models.CategoryTechnical, Score: 50, Comment: "shaky"}},
		Strengths:       []string{"polite"},
		FinalAssessment: "needs work",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := repo.Upsert(ctx, &models.Feedback{
		InterviewID:     "interview-1",
		UserID:          "alice",
		TotalScore:      80,
		FinalAssessment: "much better",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "regeneration keeps the record id")
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt), "creation time is preserved")
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	stored, err := repo.GetByInterviewAndUser(ctx, "interview-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 80.0, stored.TotalScore)
	assert.Equal(t, "much better", stored.FinalAssessment)

	list, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1, "one feedback per interview and user")

	other, err := repo.Upsert(ctx, &models.Feedback{InterviewID: "interview-1", UserID: "bob", TotalScore: 40, FinalAssessment: "ok"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	byID, err := repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.UserID)

	_, err = repo.GetByInterviewAndUser(ctx, "interview-2", "alice")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
