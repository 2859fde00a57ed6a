// Package render produces the printable documents: deal sheets, portfolio
// reviews and engagement agreements. HTML templates are printed through an
// Engine, then any attached PDFs are appended page by page.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brandonreed984/safeguard-deal-sheet/internal/attachment"
	dealDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/deal"
	portfolioDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/portfolio"
)

var ErrMissingParties = errors.New("engagement agreement needs client name, client address and lending entity")

type Renderer struct {
	engine Engine
	now    func() time.Time
}

func New(engine Engine) *Renderer {
	return &Renderer{engine: engine, now: time.Now}
}

// DealSheet renders the one-page sheet and appends every attached PDF
// after it, in stored order.
func (r *Renderer) DealSheet(ctx context.Context, d *dealDomain.Deal) ([]byte, error) {
	html, err := renderTemplate("deal.html.tmpl", d)
	if err != nil {
		return nil, err
	}
	cover, err := r.engine.RenderPDF(ctx, html)
	if err != nil {
		return nil, err
	}

	attachments := make([][]byte, 0, len(d.AttachedPDFs))
	for i, a := range d.AttachedPDFs {
		data, err := attachment.Decode(a.DataURL)
		if err != nil {
			return nil, fmt.Errorf("attachment %d (%s): %w", i+1, a.Name, err)
		}
		attachments = append(attachments, data)
	}
	return AppendPages(cover, attachments)
}

type rosterSection struct {
	Rows     portfolioDomain.Roster
	Balance  decimal.Decimal
	Interest decimal.Decimal
}

func newRosterSection(rows portfolioDomain.Roster) rosterSection {
	s := rosterSection{Rows: rows}
	for _, e := range rows {
		s.Balance = s.Balance.Add(e.Balance)
		s.Interest = s.Interest.Add(e.InterestPaid)
	}
	return s
}

type portfolioView struct {
	Review      *portfolioDomain.PortfolioReview
	Current     rosterSection
	PaidOff     rosterSection
	GeneratedAt time.Time
}

// PortfolioReview renders the investor summary with the roster split into
// current and paid-off sections.
func (r *Renderer) PortfolioReview(ctx context.Context, p *portfolioDomain.PortfolioReview) ([]byte, error) {
	current, paidOff := p.Loans.Partition()
	html, err := renderTemplate("portfolio.html.tmpl", portfolioView{
		Review:      p,
		Current:     newRosterSection(current),
		PaidOff:     newRosterSection(paidOff),
		GeneratedAt: r.now(),
	})
	if err != nil {
		return nil, err
	}
	return r.engine.RenderPDF(ctx, html)
}

type engagementView struct {
	Deal *dealDomain.Deal
	Date time.Time
}

// EngagementAgreement renders the agreement for a deal. The deal must name
// both parties before one can be produced.
func (r *Renderer) EngagementAgreement(ctx context.Context, d *dealDomain.Deal) ([]byte, error) {
	if d.ClientName == "" || d.ClientAddress == "" || d.LendingEntity == "" {
		return nil, ErrMissingParties
	}
	html, err := renderTemplate("engagement.html.tmpl", engagementView{Deal: d, Date: r.now()})
	if err != nil {
		return nil, err
	}
	return r.engine.RenderPDF(ctx, html)
}
