package portfoliomock

import (
	"context"

	domain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/portfolio"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, p *domain.PortfolioReview) error
	GetByIDFn     func(ctx context.Context, id uint64) (*domain.PortfolioReview, error)
	SearchFn      func(ctx context.Context, query string, archived bool) ([]domain.PortfolioReview, error)
	SaveFn        func(ctx context.Context, p *domain.PortfolioReview) error
	DeleteFn      func(ctx context.Context, id uint64) error
	SetArchivedFn func(ctx context.Context, id uint64, archived bool) error
}

func (m *Repo) Create(ctx context.Context, p *domain.PortfolioReview) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.PortfolioReview, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Search(ctx context.Context, query string, archived bool) ([]domain.PortfolioReview, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, archived)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, p *domain.PortfolioReview) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) SetArchived(ctx context.Context, id uint64, archived bool) error {
	if m.SetArchivedFn != nil {
		return m.SetArchivedFn(ctx, id, archived)
	}
	return nil
}
