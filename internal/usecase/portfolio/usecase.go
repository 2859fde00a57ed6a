package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io"

	domain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/portfolio"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/importer"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

// Input carries an investor's roster. The three stored totals are never
// taken from the caller; they are recomputed from the rows on every save.
type Input struct {
	InvestorName string        `json:"investorName" validate:"required"`
	Loans        domain.Roster `json:"loans"`
}

func (u *Usecase) Create(ctx context.Context, in Input) (*domain.PortfolioReview, error) {
	if in.InvestorName == "" {
		return nil, fmt.Errorf("%w: investor name is required", ErrInvalidInput)
	}
	p := &domain.PortfolioReview{
		InvestorName: in.InvestorName,
		Loans:        in.Loans,
	}
	p.CurrentInvestmentTotal, p.LifetimeInvestmentTotal, p.LifetimeInterestPaid = in.Loans.Totals()
	if err := u.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *Usecase) Update(ctx context.Context, reviewID uint64, in Input) (*domain.PortfolioReview, error) {
	if in.InvestorName == "" {
		return nil, fmt.Errorf("%w: investor name is required", ErrInvalidInput)
	}
	p, err := u.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	p.InvestorName = in.InvestorName
	p.Loans = in.Loans
	p.CurrentInvestmentTotal, p.LifetimeInvestmentTotal, p.LifetimeInterestPaid = in.Loans.Totals()
	if err := u.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Import parses an uploaded spreadsheet into a new review.
func (u *Usecase) Import(ctx context.Context, r io.Reader) (*domain.PortfolioReview, error) {
	parsed, err := importer.ParseRoster(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if parsed.InvestorName == "" {
		return nil, fmt.Errorf("%w: spreadsheet has no investor name", ErrInvalidInput)
	}
	return u.Create(ctx, Input{InvestorName: parsed.InvestorName, Loans: parsed.Loans})
}

func (u *Usecase) Get(ctx context.Context, reviewID uint64) (*domain.PortfolioReview, error) {
	return u.repo.GetByID(ctx, reviewID)
}

func (u *Usecase) Search(ctx context.Context, query string, archived bool) ([]domain.PortfolioReview, error) {
	return u.repo.Search(ctx, query, archived)
}

func (u *Usecase) Delete(ctx context.Context, reviewID uint64) error {
	return u.repo.Delete(ctx, reviewID)
}

func (u *Usecase) SetArchived(ctx context.Context, reviewID uint64, archived bool) error {
	return u.repo.SetArchived(ctx, reviewID, archived)
}
