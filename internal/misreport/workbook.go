// Package misreport renders the ledger summary MIS report as an xlsx workbook.
package misreport

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"invoicefin/internal/domain"
)

// SheetName is the worksheet holding the ledger summary.
const SheetName = "Ledger Summary"

// columns defines the header row (12 columns).
var columns = []string{
	"Merchant ID",
	"Merchant Name",
	"Ledger No",
	"Ledger Status",
	"Invoice Count",
	"Total Amount",
	"Funded Amount",
	"Disbursed Amount",
	"Repaid Amount",
	"GST Verified",
	"Ledger Created",
	"Last Activity",
}

// Render writes rows into a new workbook and returns its bytes.
func Render(rows []domain.MISLedgerRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := rowValues(&rows[i])
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// rowValues converts a summary row into cell values. Amounts are written as
// fixed two decimal strings so NUMERIC precision survives.
func rowValues(r *domain.MISLedgerRow) []any {
	return []any{
		r.MerchantID,
		r.MerchantName,
		r.LedgerNo,
		r.LedgerStatus,
		r.InvoiceCount,
		r.TotalAmt.StringFixed(2),
		r.FundedAmt.StringFixed(2),
		r.DisbursedAmt.StringFixed(2),
		r.RepaidAmt.StringFixed(2),
		r.GSTVerified,
		formatTime(r.LedgerCreated),
		formatTime(r.LastActivityAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(domain.IST).Format("02/01/2006 15:04:05")
}

// ObjectKey returns the storage key of the report generated on day.
// Format: mis/{YYYY-MM-DD}/ledger_summary.xlsx
func ObjectKey(day time.Time) string {
	return fmt.Sprintf("mis/%s/ledger_summary.xlsx", day.In(domain.IST).Format("2006-01-02"))
}
