// Package importer parses an uploaded loan-roster spreadsheet into
// portfolio roster rows.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/brandonreed984/safeguard-deal-sheet/internal/domain/portfolio"
)

// Result is the outcome of parsing one roster spreadsheet.
type Result struct {
	InvestorName string           `json:"investorName"`
	Loans        portfolio.Roster `json:"loans"`
}

// ParseRoster reads the first sheet of an xlsx workbook and walks its rows
// through the section state machine.
func ParseRoster(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return parseRows(rows), nil
}

// parseRows runs the section state machine over raw cell rows.
//
// The machine starts in no section. A row whose first cell contains
// "Address" switches to the current-loans section; one containing
// "Paid Off" switches to the paid-off section. Rows containing
// "Investment Total" or "Interest Paid" are summary rows and always
// skipped. Any other row with a non-empty first cell, while in a section,
// becomes a roster row; its status defaults from the active section when
// the status cell is empty.
func parseRows(rows [][]string) *Result {
	res := &Result{}
	inCurrent, inPaidOff := false, false

	for i, row := range rows {
		first := strings.TrimSpace(cell(row, 0))

		if i == 0 && first != "" {
			res.InvestorName = first
		}

		if first == "" {
			continue
		}
		if strings.Contains(first, "Address") {
			inCurrent, inPaidOff = true, false
			continue
		}
		if strings.Contains(first, "Paid Off") {
			inCurrent, inPaidOff = false, true
			continue
		}
		if strings.Contains(first, "Investment Total") || strings.Contains(first, "Interest Paid") {
			continue
		}
		if !inCurrent && !inPaidOff {
			continue
		}

		status := strings.TrimSpace(cell(row, 3))
		if status == "" {
			if inPaidOff {
				status = portfolio.StatusPaidOff
			} else {
				status = portfolio.StatusCurrent
			}
		}
		res.Loans = append(res.Loans, portfolio.LoanEntry{
			Address:      first,
			Balance:      parseAmount(cell(row, 1)),
			InterestPaid: parseAmount(cell(row, 2)),
			Status:       status,
		})
	}
	return res
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

var amountCleaner = strings.NewReplacer("$", "", ",", "")

// parseAmount strips currency formatting and parses a decimal, defaulting
// to zero on failure.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(amountCleaner.Replace(s)))
	if err != nil {
		return decimal.Zero
	}
	return d
}
