package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// IST is the Asia/Kolkata zone used for ledger numbers, dates and schedules.
var IST = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// DateLayout is the dd/mm/yyyy layout used on the wire.
const DateLayout = "02/01/2006"

// ParseDate parses a dd/mm/yyyy date at midnight IST.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be dd/mm/yyyy", ErrInvalidRequest, s)
	}
	return t, nil
}

// FormatDate renders t as dd/mm/yyyy in IST.
func FormatDate(t time.Time) string {
	return t.In(IST).Format(DateLayout)
}

// FinancialYear returns the April to March financial year containing t,
// formatted as "2024-2025".
func FinancialYear(t time.Time) string {
	t = t.In(IST)
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}

// LedgerNumber builds the merchant facing ledger number:
// merchant id, IST timestamp as ddMMyyyyHHmmss, ledger row id.
func LedgerNumber(merchantID int64, at time.Time, ledgerID int64) string {
	return fmt.Sprintf("%d%s%d", merchantID, at.In(IST).Format("02012006150405"), ledgerID)
}

// FlexString decodes a JSON string or number into a string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// EWBDocument is the subset of a downloaded e-way-bill used for verification.
type EWBDocument struct {
	EWBNo     FlexString `json:"ewbNo"`
	DocNo     string     `json:"docNo"`
	DocDate   string     `json:"docDate"`
	FromGSTIN string     `json:"fromGstin"`
	ToGSTIN   string     `json:"toGstin"`
}

// Matches reports whether the document agrees with the stored invoice on
// invoice date, invoice number, seller GSTIN and buyer GSTIN.
func (d EWBDocument) Matches(inv *Invoice) bool {
	if inv == nil || strings.TrimSpace(d.FromGSTIN) == "" || strings.TrimSpace(d.ToGSTIN) == "" {
		return false
	}
	return FormatDate(inv.InvoiceDate) == strings.TrimSpace(d.DocDate) &&
		inv.InvoiceNo == strings.TrimSpace(d.DocNo) &&
		inv.SellerGST() == strings.TrimSpace(d.FromGSTIN) &&
		inv.BuyerGST() == strings.TrimSpace(d.ToGSTIN)
}
