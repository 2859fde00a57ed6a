package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	dealDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/deal"
)

type DealRepository struct{ db *gorm.DB }

func NewDealRepository(db *gorm.DB) *DealRepository { return &DealRepository{db: db} }

func (r *DealRepository) Create(ctx context.Context, d *dealDomain.Deal) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id uint64) (*dealDomain.Deal, error) {
	var out dealDomain.Deal
	res := r.db.WithContext(ctx).First(&out, id)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, dealDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *DealRepository) GetByLoanNumber(ctx context.Context, loanNumber string) (*dealDomain.Deal, error) {
	var out dealDomain.Deal
	res := r.db.WithContext(ctx).Where("loan_number = ?", loanNumber).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, dealDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *DealRepository) Search(ctx context.Context, query string, archived bool) ([]dealDomain.Deal, error) {
	var out []dealDomain.Deal
	q := r.db.WithContext(ctx).Where("archived = ?", archived)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("address LIKE ? OR loan_number LIKE ?", like, like)
	}
	res := q.Order("updated_at DESC").Find(&out)
	return out, res.Error
}

// Save overwrites the whole row. Concurrent edits are last-write-wins; the
// tool does no conflict detection.
func (r *DealRepository) Save(ctx context.Context, d *dealDomain.Deal) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DealRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&dealDomain.Deal{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return dealDomain.ErrNotFound
	}
	return nil
}

func (r *DealRepository) SetArchived(ctx context.Context, id uint64, archived bool) error {
	res := r.db.WithContext(ctx).Model(&dealDomain.Deal{}).Where("id = ?", id).Update("archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return dealDomain.ErrNotFound
	}
	return nil
}
