package deal

import (
	"context"
	"errors"
	"fmt"

	"github.com/brandonreed984/safeguard-deal-sheet/internal/attachment"
	domain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/deal"
	"github.com/brandonreed984/safeguard-deal-sheet/pkg/id"
)

var ErrInvalidInput = errors.New("invalid input")

// loanNumberAttempts bounds retries when a generated loan number collides
// with an existing row.
const loanNumberAttempts = 5

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

// AttachmentInput is one uploaded PDF in a create/update payload.
type AttachmentInput struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	DataURL string `json:"dataUrl"`
}

// Input carries the full editable record. Image fields hold data URLs;
// empty strings mean "leave this slot as it is" on update.
type Input struct {
	LoanNumber string `json:"loanNumber"`

	Amount        string `json:"amount"`
	RateType      string `json:"rateType"`
	Term          string `json:"term"`
	MonthlyReturn string `json:"monthlyReturn"`
	LTV           string `json:"ltv"`

	Address        string `json:"address" validate:"required"`
	Appraisal      string `json:"appraisal"`
	Rent           string `json:"rent"`
	Sqft           string `json:"sqft"`
	BedsBaths      string `json:"bedsBaths"`
	MarketLocation string `json:"marketLocation"`

	MarketOverview  string `json:"marketOverview"`
	DealInformation string `json:"dealInformation"`

	HeroImage string `json:"heroImage"`
	Int1Image string `json:"int1Image"`
	Int2Image string `json:"int2Image"`
	Int3Image string `json:"int3Image"`
	Int4Image string `json:"int4Image"`

	AttachedPDFs []AttachmentInput `json:"attachedPdfs"`

	LendingEntity   string `json:"lendingEntity"`
	ClientName      string `json:"clientName"`
	ClientAddress   string `json:"clientAddress"`
	BorrowerName    string `json:"borrowerName"`
	BorrowerAddress string `json:"borrowerAddress"`
}

func (u *Usecase) Create(ctx context.Context, in Input) (*domain.Deal, error) {
	if in.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}

	d := &domain.Deal{}
	applyScalars(d, in)

	if err := applyImages(d, in); err != nil {
		return nil, err
	}
	pdfs, err := encodePDFs(in.AttachedPDFs)
	if err != nil {
		return nil, err
	}
	d.AttachedPDFs = pdfs

	if in.LoanNumber != "" {
		d.LoanNumber = in.LoanNumber
		if _, err := u.repo.GetByLoanNumber(ctx, d.LoanNumber); err == nil {
			return nil, domain.ErrDuplicateLoanNumber
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if err := u.repo.Create(ctx, d); err != nil {
			return nil, err
		}
		return d, nil
	}

	for attempt := 0; attempt < loanNumberAttempts; attempt++ {
		d.LoanNumber = id.NewLoanNumber()
		if _, err := u.repo.GetByLoanNumber(ctx, d.LoanNumber); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if err := u.repo.Create(ctx, d); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, errors.New("could not allocate a unique loan number")
}

// Update overwrites the text fields wholesale and applies attachment slot
// semantics: a non-empty payload replaces the slot, an empty one preserves
// whatever is stored. A non-empty PDF list replaces the stored list.
func (u *Usecase) Update(ctx context.Context, dealID uint64, in Input) (*domain.Deal, error) {
	if in.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}

	d, err := u.repo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if in.LoanNumber != "" && in.LoanNumber != d.LoanNumber {
		if _, err := u.repo.GetByLoanNumber(ctx, in.LoanNumber); err == nil {
			return nil, domain.ErrDuplicateLoanNumber
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		d.LoanNumber = in.LoanNumber
	}

	applyScalars(d, in)
	if err := applyImages(d, in); err != nil {
		return nil, err
	}
	if len(in.AttachedPDFs) > 0 {
		pdfs, err := encodePDFs(in.AttachedPDFs)
		if err != nil {
			return nil, err
		}
		d.AttachedPDFs = pdfs
	}

	if err := u.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (u *Usecase) Get(ctx context.Context, dealID uint64) (*domain.Deal, error) {
	return u.repo.GetByID(ctx, dealID)
}

func (u *Usecase) Search(ctx context.Context, query string, archived bool) ([]domain.Deal, error) {
	return u.repo.Search(ctx, query, archived)
}

func (u *Usecase) Delete(ctx context.Context, dealID uint64) error {
	return u.repo.Delete(ctx, dealID)
}

func (u *Usecase) SetArchived(ctx context.Context, dealID uint64, archived bool) error {
	return u.repo.SetArchived(ctx, dealID, archived)
}

func applyScalars(d *domain.Deal, in Input) {
	d.Amount = in.Amount
	d.RateType = in.RateType
	d.Term = in.Term
	d.MonthlyReturn = in.MonthlyReturn
	d.LTV = in.LTV
	d.Address = in.Address
	d.Appraisal = in.Appraisal
	d.Rent = in.Rent
	d.Sqft = in.Sqft
	d.BedsBaths = in.BedsBaths
	d.MarketLocation = in.MarketLocation
	d.MarketOverview = in.MarketOverview
	d.DealInformation = in.DealInformation
	d.LendingEntity = in.LendingEntity
	d.ClientName = in.ClientName
	d.ClientAddress = in.ClientAddress
	d.BorrowerName = in.BorrowerName
	d.BorrowerAddress = in.BorrowerAddress
}

func applyImages(d *domain.Deal, in Input) error {
	slots := []struct {
		name    string
		payload string
		dst     *string
	}{
		{"heroImage", in.HeroImage, &d.HeroImage},
		{"int1Image", in.Int1Image, &d.Int1Image},
		{"int2Image", in.Int2Image, &d.Int2Image},
		{"int3Image", in.Int3Image, &d.Int3Image},
		{"int4Image", in.Int4Image, &d.Int4Image},
	}
	for _, s := range slots {
		if s.payload == "" {
			continue
		}
		normalized, err := attachment.NormalizeImage(s.payload)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		*s.dst = normalized
	}
	return nil
}

func encodePDFs(in []AttachmentInput) (domain.PDFList, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(domain.PDFList, 0, len(in))
	for i, a := range in {
		normalized, err := attachment.NormalizePDF(a.DataURL)
		if err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i+1, err)
		}
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("attachment-%d.pdf", i+1)
		}
		size := a.Size
		if size == 0 {
			if data, err := attachment.Decode(normalized); err == nil {
				size = int64(len(data))
			}
		}
		out = append(out, domain.PDFAttachment{Name: name, Size: size, DataURL: normalized})
	}
	return out, nil
}
