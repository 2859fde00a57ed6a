package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brandonreed984/safeguard-deal-sheet/internal/attachment"
	dealDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/deal"
	portfolioDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/portfolio"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/infrastructure/storage"
	dealUC "github.com/brandonreed984/safeguard-deal-sheet/internal/usecase/deal"
	portfolioUC "github.com/brandonreed984/safeguard-deal-sheet/internal/usecase/portfolio"
)

// DocumentRenderer produces the printable documents.
type DocumentRenderer interface {
	DealSheet(ctx context.Context, d *dealDomain.Deal) ([]byte, error)
	PortfolioReview(ctx context.Context, p *portfolioDomain.PortfolioReview) ([]byte, error)
	EngagementAgreement(ctx context.Context, d *dealDomain.Deal) ([]byte, error)
}

type DocumentHandler struct {
	deals      *dealUC.Usecase
	portfolios *portfolioUC.Usecase
	renderer   DocumentRenderer
	files      *storage.FileStore
}

func NewDocumentHandler(deals *dealUC.Usecase, portfolios *portfolioUC.Usecase, renderer DocumentRenderer, files *storage.FileStore) *DocumentHandler {
	return &DocumentHandler{deals: deals, portfolios: portfolios, renderer: renderer, files: files}
}

func servePDF(c echo.Context, name string, pdf []byte) error {
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// GenerateDealPDF renders a deal sheet, archives a copy on disk and returns
// the bytes.
func (h *DocumentHandler) GenerateDealPDF(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid deal id"})
	}
	d, err := h.deals.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.renderer.DealSheet(c.Request().Context(), d)
	if err != nil {
		return writeError(c, err)
	}
	name := fmt.Sprintf("deal_%s.pdf", d.LoanNumber)
	if _, err := h.files.Save(name, d.LoanNumber, bytes.NewReader(pdf)); err != nil {
		return writeError(c, err)
	}
	return servePDF(c, name, pdf)
}

func (h *DocumentHandler) GeneratePortfolioPDF(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid review id"})
	}
	p, err := h.portfolios.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.renderer.PortfolioReview(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	name := fmt.Sprintf("portfolio_%s.pdf", storage.Sanitize(p.InvestorName))
	if _, err := h.files.Save(name, p.InvestorName, bytes.NewReader(pdf)); err != nil {
		return writeError(c, err)
	}
	return servePDF(c, name, pdf)
}

// EngagementAgreement renders the agreement without archiving a copy.
func (h *DocumentHandler) EngagementAgreement(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid deal id"})
	}
	d, err := h.deals.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.renderer.EngagementAgreement(c.Request().Context(), d)
	if err != nil {
		return writeError(c, err)
	}
	return servePDF(c, fmt.Sprintf("engagement_%s.pdf", d.LoanNumber), pdf)
}

// UploadPDF stores a standalone PDF file, outside any deal record.
func (h *DocumentHandler) UploadPDF(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing file upload"})
	}
	if fh.Size > attachment.MaxPDFBytes {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("pdf is %d bytes (max %d)", fh.Size, attachment.MaxPDFBytes),
		})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	path, err := h.files.Save(fh.Filename, c.FormValue("loanNumber"), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"path": path,
		"name": fh.Filename,
		"size": fh.Size,
	})
}

const listPDFLimit = 50

func (h *DocumentHandler) ListPDFs(c echo.Context) error {
	out, err := h.files.ListRecent(listPDFLimit)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []storage.StoredPDF{}
	}
	return c.JSON(http.StatusOK, out)
}
