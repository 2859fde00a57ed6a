package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	portfolioDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/portfolio"
)

type PortfolioRepository struct{ db *gorm.DB }

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) Create(ctx context.Context, p *portfolioDomain.PortfolioReview) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PortfolioRepository) GetByID(ctx context.Context, id uint64) (*portfolioDomain.PortfolioReview, error) {
	var out portfolioDomain.PortfolioReview
	res := r.db.WithContext(ctx).First(&out, id)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, portfolioDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *PortfolioRepository) Search(ctx context.Context, query string, archived bool) ([]portfolioDomain.PortfolioReview, error) {
	var out []portfolioDomain.PortfolioReview
	q := r.db.WithContext(ctx).Where("archived = ?", archived)
	if query != "" {
		q = q.Where("investor_name LIKE ?", "%"+query+"%")
	}
	res := q.Order("updated_at DESC").Find(&out)
	return out, res.Error
}

func (r *PortfolioRepository) Save(ctx context.Context, p *portfolioDomain.PortfolioReview) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PortfolioRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&portfolioDomain.PortfolioReview{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return portfolioDomain.ErrNotFound
	}
	return nil
}

func (r *PortfolioRepository) SetArchived(ctx context.Context, id uint64, archived bool) error {
	res := r.db.WithContext(ctx).Model(&portfolioDomain.PortfolioReview{}).Where("id = ?", id).Update("archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return portfolioDomain.ErrNotFound
	}
	return nil
}
