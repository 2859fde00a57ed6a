package portfolio

import "context"

type Repository interface {
	Create(ctx context.Context, p *PortfolioReview) error
	GetByID(ctx context.Context, id uint64) (*PortfolioReview, error)
	// Search matches investor name by substring; archived filters by the
	// archived flag. Results are ordered by updated_at descending.
	Search(ctx context.Context, query string, archived bool) ([]PortfolioReview, error)
	Save(ctx context.Context, p *PortfolioReview) error
	Delete(ctx context.Context, id uint64) error
	SetArchived(ctx context.Context, id uint64, archived bool) error
}
