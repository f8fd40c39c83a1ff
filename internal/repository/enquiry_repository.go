package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/relentron/website/internal/models"
)

// enquiryRepository implements EnquiryRepository on a Mongo collection
type enquiryRepository struct {
	collection   *mongo.Collection
	writeTimeout time.Duration
}

// NewEnquiryRepository creates a new EnquiryRepository instance
func NewEnquiryRepository(collection *mongo.Collection, writeTimeout time.Duration) EnquiryRepository {
	return &enquiryRepository{
		collection:   collection,
		writeTimeout: writeTimeout,
	}
}

// Insert writes one document. InsertOne is atomic at the document level,
// so concurrent submissions never interleave.
func (r *enquiryRepository) Insert(ctx context.Context, record *models.EnquiryRecord) (string, error) {
	if r.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.writeTimeout)
		defer cancel()
	}

	// The store owns the identifier
	doc := *record
	doc.ID = primitive.NilObjectID

	res, err := r.collection.InsertOne(ctx, &doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert enquiry: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	record.ID = id

	return id.Hex(), nil
}

// EnsureIndexes creates a descending createdAt index for operator lookups
func (r *enquiryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		return fmt.Errorf("failed to create enquiry indexes: %w", err)
	}
	return nil
}
