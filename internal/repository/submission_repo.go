package repository

import (
	"context"
	"time"

	"heartquiz/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmissionRepo handles MongoDB operations for completed questionnaires
type SubmissionRepo interface {
	Create(ctx context.Context, record *model.SubmissionRecord) (string, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.SubmissionRecord, error)
	ListRecent(ctx context.Context, limit int64) ([]*model.SubmissionRecord, error)
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepo) Create(ctx context.Context, record *model.SubmissionRecord) (string, error) {
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *submissionRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.SubmissionRecord, error) {
	var record model.SubmissionRecord
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *submissionRepo) ListRecent(ctx context.Context, limit int64) ([]*model.SubmissionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.SubmissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
