package repositories

import (
	"context"
	"errors"
	"fmt"

	"visualcaption/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const historyCollection = "history"

// MongoHistoryRepository reads and writes the history collection.
type MongoHistoryRepository struct {
	coll *mongo.Collection
}

// ConnectMongo opens a client that decodes nested documents as maps, so
// records serialize to plain JSON objects.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// NewMongoHistoryRepository uses the history collection of database.
func NewMongoHistoryRepository(client *mongo.Client, database string) *MongoHistoryRepository {
	return &MongoHistoryRepository{
		coll: client.Database(database).Collection(historyCollection),
	}
}

// List returns up to limit documents.
func (r *MongoHistoryRepository) List(ctx context.Context, limit int64) ([]models.HistoryRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.HistoryRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return records, nil
}

// GetByID finds a document by _id.
func (r *MongoHistoryRepository) GetByID(ctx context.Context, id string) (models.HistoryRecord, error) {
	var record models.HistoryRecord
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("history %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get history %s: %w", id, err)
	}
	return record, nil
}

// Append inserts a document. A duplicate _id yields ErrDuplicate.
func (r *MongoHistoryRepository) Append(ctx context.Context, record models.HistoryRecord) error {
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("history %v: %w", record["_id"], ErrDuplicate)
		}
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}
