package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestInterviewRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		repo := NewInterviewRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Create(ctx, &models.Interview{
			Role:      "Frontend Engineer",
			TechStack: []string{"React", "CSS"},
			Questions: []string{"Q1"},
			UserID:    "user-1",
			Finalized: true,
		})
		require.NoError(mt, err)
		assert.Len(mt, created.ID, 24)
		assert.False(mt, created.CreatedAt.IsZero())
		assert.Equal(mt, created.CreatedAt, created.UpdatedAt)
		assert.Equal(mt, []string{"React", "CSS"}, created.TechStack)
	})

	mt.Run("create surfaces write errors", func(mt *mtest.T) {
		repo := NewInterviewRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		_, err := repo.Create(ctx, &models.Interview{Role: "x", UserID: "u"})
		assert.Error(mt, err)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewInterviewRepo(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "role", Value: "Backend Engineer"},
			{Key: "techstack", Value: bson.A{"Go"}},
			{Key: "questions", Value: bson.A{"Q1", "Q2"}},
			{Key: "userId", Value: "user-1"},
			{Key: "finalized", Value: true},
		}))

		got, err := repo.GetByID(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), got.ID)
		assert.Equal(mt, []string{"Q1", "Q2"}, got.Questions)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewInterviewRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetByID(ctx, primitive.NewObjectID().Hex())
		assert.True(mt, errors.Is(err, models.ErrNotFound))

		_, err = repo.GetByID(ctx, "not-an-object-id")
		assert.True(mt, errors.Is(err, models.ErrNotFound))
	})

	mt.Run("list latest excludes user", func(mt *mtest.T) {
		repo := NewInterviewRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "userId", Value: "user-2"}, {Key: "finalized", Value: true}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "userId", Value: "user-3"}, {Key: "finalized", Value: true}},
		))

		got, err := repo.ListLatest(ctx, "user-1", 20)
		require.NoError(mt, err)
		assert.Len(mt, got, 2)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		filter := started.Command.Lookup("filter").Document()
		assert.Equal(mt, "user-1", filter.Lookup("userId", "$ne").StringValue())
		assert.Equal(mt, int64(20), started.Command.Lookup("limit").AsInt64())
	})
}

func TestFeedbackRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("upsert returns stored document", func(mt *mtest.T) {
		repo := NewFeedbackRepo(mt.Coll)
		id := primitive.NewObjectID()
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "interviewId", Value: "interview-1"},
				{Key: "userId", Value: "user-1"},
				{Key: "totalScore", Value: 72.0},
				{Key: "categoryScores", Value: bson.A{
					bson.D{{Key: "name", Value: models.CategoryCommunication}, {Key: "score", Value: 80.0}, {Key: "comment", Value: "clear"}},
				}},
				{Key: "finalAssessment", Value: "good"},
				{Key: "createdAt", Value: created},
			}},
		})

		got, err := repo.Upsert(ctx, &models.Feedback{
			InterviewID:     "interview-1",
			UserID:          "user-1",
			TotalScore:      72,
			FinalAssessment: "good",
		})
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), got.ID)
		assert.Equal(mt, created, got.CreatedAt.UTC())
		require.Len(mt, got.CategoryScores, 1)
		assert.Equal(mt, 80.0, got.CategoryScores[0].Score)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "findAndModify", started.CommandName)
		assert.True(mt, started.Command.Lookup("upsert").Boolean())
		query := started.Command.Lookup("query").Document()
		assert.Equal(mt, "interview-1", query.Lookup("interviewId").StringValue())
		assert.Equal(mt, "user-1", query.Lookup("userId").StringValue())
	})

	mt.Run("upsert retries after losing an insert race", func(mt *mtest.T) {
		repo := NewFeedbackRepo(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11000,
				Name:    "DuplicateKey",
				Message: "E11000 duplicate key error collection: feedback index: interviewId_1_userId_1",
			}),
			bson.D{
				{Key: "ok", Value: 1},
				{Key: "value", Value: bson.D{
					{Key: "_id", Value: id},
					{Key: "interviewId", Value: "interview-1"},
					{Key: "userId", Value: "user-1"},
					{Key: "totalScore", Value: 55.0},
				}},
			},
		)

		got, err := repo.Upsert(ctx, &models.Feedback{InterviewID: "interview-1", UserID: "user-1", TotalScore: 55})
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), got.ID)
	})

	mt.Run("upsert surfaces a second duplicate key error", func(mt *mtest.T) {
		repo := NewFeedbackRepo(mt.Coll)
		dup := mtest.CommandError{Code: 11000, Name: "DuplicateKey", Message: "E11000 duplicate key error"}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(dup), mtest.CreateCommandErrorResponse(dup))

		_, err := repo.Upsert(ctx, &models.Feedback{InterviewID: "interview-1", UserID: "user-1"})
		require.Error(mt, err)
	})

	mt.Run("get by interview and user not found", func(mt *mtest.T) {
		repo := NewFeedbackRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetByInterviewAndUser(ctx, "interview-1", "user-1")
		assert.True(mt, errors.Is(err, models.ErrNotFound))
	})

	mt.Run("list by user", func(mt *mtest.T) {
		repo := NewFeedbackRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "userId", Value: "user-1"}, {Key: "totalScore", Value: 60.0}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "userId", Value: "user-1"}, {Key: "totalScore", Value: 80.0}},
		))

		got, err := repo.ListByUser(ctx, "user-1")
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, 80.0, got[1].TotalScore)
	})
}

func TestClientLifecycle(t *testing.T) {
	c := NewClient("", "mockinterview")

	err := c.Connect(context.Background())
	assert.Error(t, err, "empty uri must be rejected")

	_, err = c.DB()
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Disconnect(context.Background()), "disconnect before connect is a no-op")
}
