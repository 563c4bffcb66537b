package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
	"devopsgen/internal/infrastructure/metrics"
)

// MongoAttemptRepo stores attempt metadata. Generated text is never written.
type MongoAttemptRepo struct {
	col *mongo.Collection
}

func NewMongoAttemptRepo(db *mongo.Database) repository.AttemptRepository {
	col := db.Collection("generation_attempts")

	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{bson.E{Key: "status", Value: 1}}},
	})

	return &MongoAttemptRepo{
		col: col,
	}
}

func (r *MongoAttemptRepo) Save(ctx context.Context, attempt *entity.Attempt) error {
	metrics.IncDBOp("put")

	_, err := r.col.ReplaceOne(ctx, bson.M{"id": attempt.ID}, attempt, options.Replace().SetUpsert(true))
	if err != nil {
		metrics.IncError("mongo_attempt_repo", "save_error")
		return err
	}
	return nil
}

func (r *MongoAttemptRepo) CountByStatus(ctx context.Context, status entity.AttemptStatus) (int, error) {
	metrics.IncDBOp("count")

	count, err := r.col.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		metrics.IncError("mongo_attempt_repo", "count_by_status_error")
		return 0, err
	}
	return int(count), nil
}
