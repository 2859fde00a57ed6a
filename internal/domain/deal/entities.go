package deal

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound            = errors.New("deal not found")
	ErrDuplicateLoanNumber = errors.New("loan number already in use")
)

// PDFAttachment is one entry of a deal's attached-PDF list. Name and Size
// are informational (UI display); DataURL carries the embedded payload.
type PDFAttachment struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	DataURL string `json:"dataUrl"`
}

// PDFList is stored as a JSON array. Legacy rows hold bare data-URL strings
// instead of objects; both forms are accepted on read and normalized to the
// object form.
type PDFList []PDFAttachment

func (l *PDFList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(PDFList, 0, len(raw))
	for i, entry := range raw {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			out = append(out, PDFAttachment{
				Name:    fmt.Sprintf("attachment-%d.pdf", i+1),
				DataURL: s,
			})
			continue
		}
		var a PDFAttachment
		if err := json.Unmarshal(entry, &a); err != nil {
			return fmt.Errorf("attachment %d: %w", i+1, err)
		}
		out = append(out, a)
	}
	*l = out
	return nil
}

func (l PDFList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]PDFAttachment(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *PDFList) Scan(v any) error {
	if v == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch t := v.(type) {
	case []byte:
		b = t
	case string:
		b = []byte(t)
	default:
		return fmt.Errorf("cannot scan %T into PDFList", v)
	}
	if len(b) == 0 {
		*l = nil
		return nil
	}
	return l.UnmarshalJSON(b)
}

// Deal is one property/loan listing. Financial fields are opaque display
// strings ("$250,000", "10% / Interest Only"); they are never parsed.
type Deal struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"id"`

	LoanNumber string `gorm:"size:32;uniqueIndex:ux_deals_loan_number" json:"loanNumber"`

	Amount        string `gorm:"size:64" json:"amount"`
	RateType      string `gorm:"size:64" json:"rateType"`
	Term          string `gorm:"size:64" json:"term"`
	MonthlyReturn string `gorm:"size:64" json:"monthlyReturn"`
	LTV           string `gorm:"size:64" json:"ltv"`

	Address        string `gorm:"size:255;index:idx_deals_address" json:"address"`
	Appraisal      string `gorm:"size:64" json:"appraisal"`
	Rent           string `gorm:"size:64" json:"rent"`
	Sqft           string `gorm:"size:64" json:"sqft"`
	BedsBaths      string `gorm:"size:64" json:"bedsBaths"`
	MarketLocation string `gorm:"size:255" json:"marketLocation"`

	MarketOverview  string `gorm:"type:text" json:"marketOverview"`
	DealInformation string `gorm:"type:text" json:"dealInformation"`

	// Embedded image payloads (data URLs), one per photo slot.
	HeroImage string `gorm:"type:mediumtext" json:"heroImage"`
	Int1Image string `gorm:"type:mediumtext" json:"int1Image"`
	Int2Image string `gorm:"type:mediumtext" json:"int2Image"`
	Int3Image string `gorm:"type:mediumtext" json:"int3Image"`
	Int4Image string `gorm:"type:mediumtext" json:"int4Image"`

	AttachedPDFs PDFList `gorm:"type:longtext" json:"attachedPdfs"`

	// Engagement-agreement parties.
	LendingEntity   string `gorm:"size:255" json:"lendingEntity"`
	ClientName      string `gorm:"size:255" json:"clientName"`
	ClientAddress   string `gorm:"size:255" json:"clientAddress"`
	BorrowerName    string `gorm:"size:255" json:"borrowerName"`
	BorrowerAddress string `gorm:"size:255" json:"borrowerAddress"`

	Archived bool `gorm:"default:false" json:"archived"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Deal) TableName() string { return "deals" }

// ImageSlots returns the five photo slots keyed by slot name, in layout order.
func (d *Deal) ImageSlots() []struct{ Name, Payload string } {
	return []struct{ Name, Payload string }{
		{"hero", d.HeroImage},
		{"int1", d.Int1Image},
		{"int2", d.Int2Image},
		{"int3", d.Int3Image},
		{"int4", d.Int4Image},
	}
}
