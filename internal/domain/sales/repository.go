package sales

import (
	"context"

	"github.com/google/uuid"
)

// SaleRepository defines persistence operations for sales
type SaleRepository interface {
	// FindByID loads a sale with its items and payments
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// Save persists the sale's mutable fields (status, observation)
	Save(ctx context.Context, sale *Sale) error
}
