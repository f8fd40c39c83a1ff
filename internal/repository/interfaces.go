package repository

import (
	"context"

	"github.com/relentron/website/internal/models"
)

// EnquiryRepository defines the interface for enquiry storage.
// From the intake pipeline's point of view the store is append-only.
type EnquiryRepository interface {
	// Insert stores a new record and returns its store-assigned ID
	Insert(ctx context.Context, record *models.EnquiryRecord) (string, error)
	// EnsureIndexes creates the indexes the collection relies on
	EnsureIndexes(ctx context.Context) error
}
