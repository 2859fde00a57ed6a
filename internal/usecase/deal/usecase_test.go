package deal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/brandonreed984/safeguard-deal-sheet/internal/attachment"
	domain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/deal"
)

// ----- test doubles -----

type mockRepo struct {
	CreateFn          func(ctx context.Context, d *domain.Deal) error
	GetByIDFn         func(ctx context.Context, id uint64) (*domain.Deal, error)
	GetByLoanNumberFn func(ctx context.Context, loanNumber string) (*domain.Deal, error)
	SearchFn          func(ctx context.Context, query string, archived bool) ([]domain.Deal, error)
	SaveFn            func(ctx context.Context, d *domain.Deal) error
	DeleteFn          func(ctx context.Context, id uint64) error
	SetArchivedFn     func(ctx context.Context, id uint64, archived bool) error
}

func (m *mockRepo) Create(ctx context.Context, d *domain.Deal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uint64) (*domain.Deal, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRepo) GetByLoanNumber(ctx context.Context, loanNumber string) (*domain.Deal, error) {
	if m.GetByLoanNumberFn != nil {
		return m.GetByLoanNumberFn(ctx, loanNumber)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRepo) Search(ctx context.Context, query string, archived bool) ([]domain.Deal, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, archived)
	}
	return nil, nil
}

func (m *mockRepo) Save(ctx context.Context, d *domain.Deal) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepo) SetArchived(ctx context.Context, id uint64, archived bool) error {
	if m.SetArchivedFn != nil {
		return m.SetArchivedFn(ctx, id, archived)
	}
	return nil
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return attachment.Encode("image/png", buf.Bytes())
}

func pdfDataURL(content string) string {
	return attachment.Encode("application/pdf", []byte(content))
}

// ----- tests -----

func TestCreate_RequiresAddress(t *testing.T) {
	u := NewUsecase(&mockRepo{})
	if _, err := u.Create(context.Background(), Input{LoanNumber: "123456"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreate_DuplicateLoanNumber(t *testing.T) {
	repo := &mockRepo{
		GetByLoanNumberFn: func(ctx context.Context, ln string) (*domain.Deal, error) {
			return &domain.Deal{ID: 7, LoanNumber: ln}, nil
		},
	}
	u := NewUsecase(repo)
	_, err := u.Create(context.Background(), Input{LoanNumber: "123456", Address: "1 Main St"})
	if !errors.Is(err, domain.ErrDuplicateLoanNumber) {
		t.Fatalf("err = %v, want ErrDuplicateLoanNumber", err)
	}
}

func TestCreate_GeneratesLoanNumber(t *testing.T) {
	var created *domain.Deal
	repo := &mockRepo{
		CreateFn: func(ctx context.Context, d *domain.Deal) error {
			created = d
			return nil
		},
	}
	u := NewUsecase(repo)
	got, err := u.Create(context.Background(), Input{Address: "1 Main St"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created == nil || got != created {
		t.Fatal("deal was not persisted")
	}
	if !regexp.MustCompile(`^[1-9]\d{5}$`).MatchString(got.LoanNumber) {
		t.Errorf("loan number = %q, want six digits", got.LoanNumber)
	}
}

func TestCreate_RetriesOnGeneratedCollision(t *testing.T) {
	calls := 0
	repo := &mockRepo{
		GetByLoanNumberFn: func(ctx context.Context, ln string) (*domain.Deal, error) {
			calls++
			if calls == 1 {
				return &domain.Deal{LoanNumber: ln}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	u := NewUsecase(repo)
	if _, err := u.Create(context.Background(), Input{Address: "1 Main St"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if calls != 2 {
		t.Errorf("uniqueness checks = %d, want 2", calls)
	}
}

func TestCreate_NormalizesAttachments(t *testing.T) {
	var created *domain.Deal
	repo := &mockRepo{
		CreateFn: func(ctx context.Context, d *domain.Deal) error {
			created = d
			return nil
		},
	}
	u := NewUsecase(repo)

	hero := pngDataURL(t, 10, 10)
	_, err := u.Create(context.Background(), Input{
		Address:   "1 Main St",
		HeroImage: hero,
		AttachedPDFs: []AttachmentInput{
			{DataURL: pdfDataURL("%PDF-1.4 a")},
			{Name: "survey.pdf", Size: 99, DataURL: pdfDataURL("%PDF-1.4 b")},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// small images are embedded verbatim
	if created.HeroImage != hero {
		t.Error("small hero image was not kept verbatim")
	}
	if len(created.AttachedPDFs) != 2 {
		t.Fatalf("attachments = %d", len(created.AttachedPDFs))
	}
	if created.AttachedPDFs[0].Name != "attachment-1.pdf" {
		t.Errorf("default name = %q", created.AttachedPDFs[0].Name)
	}
	if created.AttachedPDFs[0].Size != int64(len("%PDF-1.4 a")) {
		t.Errorf("computed size = %d", created.AttachedPDFs[0].Size)
	}
	if created.AttachedPDFs[1].Name != "survey.pdf" || created.AttachedPDFs[1].Size != 99 {
		t.Errorf("provided metadata not kept: %+v", created.AttachedPDFs[1])
	}
}

func TestCreate_RejectsMalformedImage(t *testing.T) {
	u := NewUsecase(&mockRepo{})
	_, err := u.Create(context.Background(), Input{Address: "1 Main St", HeroImage: "not-a-data-url"})
	if !errors.Is(err, attachment.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestUpdate_PreservesSlotsAndPDFs(t *testing.T) {
	existingHero := pngDataURL(t, 8, 8)
	stored := &domain.Deal{
		ID:         1,
		LoanNumber: "123456",
		Address:    "1 Main St",
		HeroImage:  existingHero,
		Int1Image:  pngDataURL(t, 8, 8),
		AttachedPDFs: domain.PDFList{
			{Name: "old.pdf", Size: 3, DataURL: pdfDataURL("old")},
		},
	}
	repo := &mockRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.Deal, error) { return stored, nil },
	}
	u := NewUsecase(repo)

	newInt1 := pngDataURL(t, 12, 12)
	got, err := u.Update(context.Background(), 1, Input{
		Address:   "1 Main St",
		Int1Image: newInt1,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.HeroImage != existingHero {
		t.Error("empty slot input should preserve the stored image")
	}
	if got.Int1Image != newInt1 {
		t.Error("non-empty slot input should replace the stored image")
	}
	if len(got.AttachedPDFs) != 1 || got.AttachedPDFs[0].Name != "old.pdf" {
		t.Error("empty PDF list should preserve the stored list")
	}
}

func TestUpdate_ReplacesPDFListWholesale(t *testing.T) {
	stored := &domain.Deal{
		ID:      1,
		Address: "1 Main St",
		AttachedPDFs: domain.PDFList{
			{Name: "old-1.pdf", DataURL: pdfDataURL("a")},
			{Name: "old-2.pdf", DataURL: pdfDataURL("b")},
		},
	}
	repo := &mockRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.Deal, error) { return stored, nil },
	}
	u := NewUsecase(repo)

	got, err := u.Update(context.Background(), 1, Input{
		Address:      "1 Main St",
		AttachedPDFs: []AttachmentInput{{Name: "new.pdf", DataURL: pdfDataURL("c")}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(got.AttachedPDFs) != 1 || got.AttachedPDFs[0].Name != "new.pdf" {
		t.Errorf("list = %+v, want it replaced wholesale", got.AttachedPDFs)
	}
}

func TestUpdate_LoanNumberChangeConflicts(t *testing.T) {
	repo := &mockRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.Deal, error) {
			return &domain.Deal{ID: 1, LoanNumber: "111111", Address: "1 Main St"}, nil
		},
		GetByLoanNumberFn: func(ctx context.Context, ln string) (*domain.Deal, error) {
			return &domain.Deal{ID: 2, LoanNumber: ln}, nil
		},
	}
	u := NewUsecase(repo)
	_, err := u.Update(context.Background(), 1, Input{LoanNumber: "222222", Address: "1 Main St"})
	if !errors.Is(err, domain.ErrDuplicateLoanNumber) {
		t.Fatalf("err = %v, want ErrDuplicateLoanNumber", err)
	}
}

func TestUpdate_IsIdempotent(t *testing.T) {
	stored := &domain.Deal{ID: 1, LoanNumber: "123456", Address: "1 Main St"}
	repo := &mockRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.Deal, error) { return stored, nil },
	}
	u := NewUsecase(repo)

	in := Input{
		LoanNumber: "123456",
		Address:    "1 Main St",
		Amount:     "$250,000",
		HeroImage:  pngDataURL(t, 6, 6),
		AttachedPDFs: []AttachmentInput{
			{Name: "a.pdf", DataURL: pdfDataURL("a")},
		},
	}
	first, err := u.Update(context.Background(), 1, in)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	snapshot := fmt.Sprintf("%+v", *first)

	second, err := u.Update(context.Background(), 1, in)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if fmt.Sprintf("%+v", *second) != snapshot {
		t.Error("re-saving the same payload changed the record")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	u := NewUsecase(&mockRepo{})
	if _, err := u.Update(context.Background(), 42, Input{Address: "1 Main St"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
