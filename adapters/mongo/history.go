package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Tagaingne/dream-synthesizer/domain/entities"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
)

// HistoryRepository is the MongoDB-backed dream history. Records go into
// an append-only collection; nothing ever updates or deletes them.
type HistoryRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository creates a MongoDB dream history over the "dreams"
// collection
func NewHistoryRepository(db *mongo.Database) repositories.DreamHistory {
	return &HistoryRepository{
		collection: db.Collection("dreams"),
	}
}

// Append implements repositories.DreamHistory
func (r *HistoryRepository) Append(ctx context.Context, record *entities.DreamRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}

	doc := bson.M{
		"timestamp":  record.Timestamp,
		"text":       record.Text,
		"emotions":   record.Emotions,
		"image_path": record.ImagePath,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to append dream record: %w", err)
	}
	return nil
}

// ListAll implements repositories.DreamHistory. Records come back in
// append order; the ISO-8601 timestamp sorts lexicographically in
// chronological order.
func (r *HistoryRepository) ListAll(ctx context.Context) ([]entities.DreamRecord, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list dream history: %w", err)
	}
	defer cursor.Close(ctx)

	records := []entities.DreamRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dream history: %w", err)
	}
	return records, nil
}
