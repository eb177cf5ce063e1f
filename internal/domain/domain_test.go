package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/domain"
)

func TestFinancialYear(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"april first starts new year", time.Date(2024, time.April, 1, 0, 0, 0, 0, domain.IST), "2024-2025"},
		{"march end belongs to previous", time.Date(2024, time.March, 31, 23, 59, 0, 0, domain.IST), "2023-2024"},
		{"january", time.Date(2024, time.January, 2, 10, 0, 0, 0, domain.IST), "2023-2024"},
		{"december", time.Date(2024, time.December, 31, 10, 0, 0, 0, domain.IST), "2024-2025"},
		// 31 March 20:00 UTC is already 1 April in IST.
		{"utc input converted to ist", time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC), "2024-2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FinancialYear(tt.at))
		})
	}
}

func TestLedgerNumber(t *testing.T) {
	at := time.Date(2024, time.January, 17, 10, 21, 10, 0, domain.IST)
	assert.Equal(t, "717012024102110"+"42", domain.LedgerNumber(7, at, 42))
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("01/02/2024")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 1, d.Day())
	assert.Equal(t, "01/02/2024", domain.FormatDate(d))

	_, err = domain.ParseDate("2024-02-01")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, domain.CodeBadRequest, domain.CodeOf(err))
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	var doc struct {
		A domain.FlexString `json:"a"`
		B domain.FlexString `json:"b"`
		C domain.FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"331001","b":331002,"c":null}`), &doc))
	assert.Equal(t, domain.FlexString("331001"), doc.A)
	assert.Equal(t, domain.FlexString("331002"), doc.B)
	assert.Equal(t, domain.FlexString(""), doc.C)
}

func TestJSONMap_ScanPreservesNumbers(t *testing.T) {
	var m domain.JSONMap
	require.NoError(t, m.Scan([]byte(`{"financierHistory":[7],"amt":100.50}`)))
	assert.Equal(t, json.Number("100.50"), m["amt"])

	var empty domain.JSONMap
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)

	assert.Error(t, m.Scan(42))
}

func TestJSONMap_IdentifierNo(t *testing.T) {
	m := domain.JSONMap{
		domain.SellerIdentifierKey: []any{
			map[string]any{"sellerIdType": "PAN", "sellerIdNo": "ABCDE1234F"},
			map[string]any{"sellerIdType": "GSTIN", "sellerIdNo": "29ABCDE1234F1Z5"},
		},
	}
	assert.Equal(t, "29ABCDE1234F1Z5", m.IdentifierNo(domain.SellerIdentifierKey, "seller", domain.IdentifierTypeGSTIN))
	assert.Equal(t, "", m.IdentifierNo(domain.BuyerIdentifierKey, "buyer", domain.IdentifierTypeGSTIN))
}

func TestNaturalKey_Complete(t *testing.T) {
	key := domain.NaturalKey{
		SellerGSTIN: "S", BuyerGSTIN: "B", InvoiceNo: "INV-1",
		InvoiceDate: time.Now(), InvoiceAmt: decimal.NewFromInt(100),
	}
	assert.True(t, key.Complete())

	key.BuyerGSTIN = ""
	assert.False(t, key.Complete())

	key.BuyerGSTIN = "B"
	key.SellerGSTIN = "  "
	assert.False(t, key.Complete())

	key.SellerGSTIN = "S"
	key.InvoiceDate = time.Time{}
	assert.False(t, key.Complete())
}

func invoiceForEWB() *domain.Invoice {
	return &domain.Invoice{
		InvoiceNo:   "INV-1",
		InvoiceDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, domain.IST),
		ExtraData: domain.JSONMap{
			"seller_gst": "29SELLER",
			"buyer_gst":  "27BUYER",
		},
	}
}

func TestEWBDocument_Matches(t *testing.T) {
	doc := domain.EWBDocument{DocNo: "INV-1", DocDate: "01/01/2024", FromGSTIN: "29SELLER", ToGSTIN: "27BUYER"}
	assert.True(t, doc.Matches(invoiceForEWB()))

	seller := doc
	seller.FromGSTIN = "29OTHER"
	assert.False(t, seller.Matches(invoiceForEWB()))

	date := doc
	date.DocDate = "02/01/2024"
	assert.False(t, date.Matches(invoiceForEWB()))

	assert.False(t, doc.Matches(nil))
}

func TestInvoice_GSTFallsBackToIdentifiers(t *testing.T) {
	inv := &domain.Invoice{ExtraData: domain.JSONMap{
		domain.SellerIdentifierKey: []any{map[string]any{"sellerIdType": "GSTIN", "sellerIdNo": "29S"}},
		domain.BuyerIdentifierKey:  []any{map[string]any{"buyerIdType": "GSTIN", "buyerIdNo": "27B"}},
	}}
	assert.Equal(t, "29S", inv.SellerGST())
	assert.Equal(t, "27B", inv.BuyerGST())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, domain.CodeOK, domain.CodeOf(nil))
	assert.Equal(t, domain.CodeLedgerNotFound, domain.CodeOf(fmt.Errorf("wrap: %w", domain.ErrLedgerNotFound)))
	assert.Equal(t, domain.CodeInternal, domain.CodeOf(errors.New("boom")))
	assert.Equal(t, "ledger not found", domain.ErrLedgerNotFound.Error())
	assert.Equal(t, "code 9999", domain.Code(9999).Message())
}

func TestInvoiceRef(t *testing.T) {
	assert.False(t, domain.LiveRef(3).IsArchived())
	assert.True(t, domain.ArchivedRef(3).IsArchived())
	assert.Equal(t, "archived:3", domain.ArchivedRef(3).String())
}

func TestTaskFlag_AcceptanceCode(t *testing.T) {
	assert.Equal(t, domain.CodeFinancingAccepted, domain.TaskFinancing.AcceptanceCode())
	assert.Equal(t, domain.CodeDisbursementAccepted, domain.TaskDisbursement.AcceptanceCode())
	assert.Equal(t, domain.CodeRepaymentAccepted, domain.TaskRepayment.AcceptanceCode())
	assert.Equal(t, domain.CodeLedgerStatusAccepted, domain.TaskLedgerStatusCheck.AcceptanceCode())
	assert.Equal(t, domain.CodeRequestAccepted, domain.TaskInvoiceRegistration.AcceptanceCode())
	assert.Len(t, domain.AllTaskFlags, 6)
}

func TestInvoiceStatus_IsDisbursed(t *testing.T) {
	assert.False(t, domain.InvoiceStatusFunded.IsDisbursed())
	assert.True(t, domain.InvoiceStatusPartialDisbursed.IsDisbursed())
	assert.True(t, domain.InvoiceStatusFullPaid.IsDisbursed())
}
