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

// InterviewRepo wraps the interviews collection
type InterviewRepo struct{ col *mongo.Collection }

func NewInterviewRepo(col *mongo.Collection) *InterviewRepo {
	return &InterviewRepo{col: col}
}

// EnsureIndexes creates the per-user listing index
func (r *InterviewRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "finalized", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

// Create inserts a new interview
func (r *InterviewRepo) Create(ctx context.Context, in *models.Interview) (*models.Interview, error) {
	now := time.Now().UTC()
	doc := interviewFromModel(in)
	doc.ID = primitive.NewObjectID()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	created := doc.toModel()
	return &created, nil
}

func (r *InterviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	var doc interviewDocument
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	out := doc.toModel()
	return &out, nil
}

// List retrieves every interview, newest first
func (r *InterviewRepo) List(ctx context.Context) ([]models.Interview, error) {
	return r.find(ctx, bson.D{}, newestFirst())
}

func (r *InterviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	return r.find(ctx, bson.D{{Key: "userId", Value: userID}}, newestFirst())
}

func (r *InterviewRepo) ListLatest(ctx context.Context, excludeUserID string, limit int) ([]models.Interview, error) {
	filter := bson.D{{Key: "finalized", Value: true}}
	if excludeUserID != "" {
		filter = append(filter, bson.E{Key: "userId", Value: bson.D{{Key: "$ne", Value: excludeUserID}}})
	}
	opts := newestFirst()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, filter, opts)
}

func (r *InterviewRepo) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]models.Interview, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []interviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Interview, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}
