package analyses

import "context"

// Repo defines persistence operations for analysis history.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
}
