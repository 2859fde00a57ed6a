package portfolio

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("portfolio review not found")

const (
	StatusCurrent       = "Current"
	StatusInDefault     = "In Default"
	StatusLate          = "Late"
	StatusPaidOff       = "Paid Off"
	StatusPayoffPending = "Payoff Pending"
)

// LoanEntry is one roster row. Balance and InterestPaid are true decimals,
// unlike the display-string money fields on a Deal.
type LoanEntry struct {
	Address      string          `json:"address"`
	Balance      decimal.Decimal `json:"balance"`
	InterestPaid decimal.Decimal `json:"interestPaid"`
	Status       string          `json:"status"`
}

// Roster is the ordered loan list, stored as a JSON array column.
type Roster []LoanEntry

func (r Roster) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]LoanEntry(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *Roster) Scan(v any) error {
	if v == nil {
		*r = nil
		return nil
	}
	var b []byte
	switch t := v.(type) {
	case []byte:
		b = t
	case string:
		b = []byte(t)
	default:
		return fmt.Errorf("cannot scan %T into Roster", v)
	}
	if len(b) == 0 {
		*r = nil
		return nil
	}
	return json.Unmarshal(b, (*[]LoanEntry)(r))
}

// Partition splits the roster into current (status != Paid Off) and paid-off
// rows, preserving original order within each part.
func (r Roster) Partition() (current, paidOff Roster) {
	for _, e := range r {
		if e.Status == StatusPaidOff {
			paidOff = append(paidOff, e)
		} else {
			current = append(current, e)
		}
	}
	return current, paidOff
}

// Totals recomputes the three aggregate figures from the roster rows:
// current investment (balances of non-paid-off rows), lifetime investment
// (all balances), lifetime interest (all interest paid).
func (r Roster) Totals() (current, lifetime, interest decimal.Decimal) {
	for _, e := range r {
		if e.Status != StatusPaidOff {
			current = current.Add(e.Balance)
		}
		lifetime = lifetime.Add(e.Balance)
		interest = interest.Add(e.InterestPaid)
	}
	return current, lifetime, interest
}

// PortfolioReview is one investor's loan roster snapshot.
type PortfolioReview struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"id"`

	InvestorName string `gorm:"size:255;index:idx_portfolio_reviews_investor" json:"investorName"`

	Loans Roster `gorm:"type:longtext" json:"loans"`

	// Stored redundantly for display; recomputed from the roster on every save.
	CurrentInvestmentTotal  decimal.Decimal `gorm:"type:decimal(18,2)" json:"currentInvestmentTotal"`
	LifetimeInvestmentTotal decimal.Decimal `gorm:"type:decimal(18,2)" json:"lifetimeInvestmentTotal"`
	LifetimeInterestPaid    decimal.Decimal `gorm:"type:decimal(18,2)" json:"lifetimeInterestPaid"`

	Archived bool `gorm:"default:false" json:"archived"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (PortfolioReview) TableName() string { return "portfolio_reviews" }
