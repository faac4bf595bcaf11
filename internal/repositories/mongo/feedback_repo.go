package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

// FeedbackRepo wraps the feedback collection
type FeedbackRepo struct{ col *mongo.Collection }

func NewFeedbackRepo(col *mongo.Collection) *FeedbackRepo {
	return &FeedbackRepo{col: col}
}

// EnsureIndexes adds the unique (interviewId, userId) index backing Upsert
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "interviewId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *FeedbackRepo) Upsert(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	now := time.Now().UTC()
	filter := bson.D{
		{Key: "interviewId", Value: fb.InterviewID},
		{Key: "userId", Value: fb.UserID},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "totalScore", Value: fb.TotalScore},
			{Key: "categoryScores", Value: categoryScoresToDocuments(fb.CategoryScores)},
			{Key: "strengths", Value: fb.Strengths},
			{Key: "areasForImprovement", Value: fb.AreasForImprovement},
			{Key: "finalAssessment", Value: fb.FinalAssessment},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc feedbackDocument
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// a concurrent first upsert inserted the document; this attempt now matches it
		err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}
	if err != nil {
		return nil, err
	}
	out := doc.toModel()
	return &out, nil
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *FeedbackRepo) GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (*models.Feedback, error) {
	return r.findOne(ctx, bson.D{
		{Key: "interviewId", Value: interviewID},
		{Key: "userId", Value: userID},
	})
}

func (r *FeedbackRepo) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []feedbackDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Feedback, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

func (r *FeedbackRepo) findOne(ctx context.Context, filter bson.D) (*models.Feedback, error) {
	var doc feedbackDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	out := doc.toModel()
	return &out, nil
}
