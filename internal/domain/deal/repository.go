package deal

import "context"

type Repository interface {
	Create(ctx context.Context, d *Deal) error
	GetByID(ctx context.Context, id uint64) (*Deal, error)
	GetByLoanNumber(ctx context.Context, loanNumber string) (*Deal, error)
	// Search matches address or loan number by substring; archived filters
	// by the archived flag. Results are ordered by updated_at descending.
	Search(ctx context.Context, query string, archived bool) ([]Deal, error)
	Save(ctx context.Context, d *Deal) error
	Delete(ctx context.Context, id uint64) error
	SetArchived(ctx context.Context, id uint64, archived bool) error
}
