package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Hub is an aggregator that calls the API on behalf of its merchants.
type Hub struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	UniqueID  string    `db:"unique_id" json:"unique_id"`
	HubKey    string    `db:"hub_key" json:"-"`
	HubSecret string    `db:"hub_secret" json:"-"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	ExtraData JSONMap   `db:"extra_data" json:"extra_data"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Merchant is an API client identified by its merchant key.
type Merchant struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	MerchantKey     string    `db:"merchant_key" json:"-"`
	MerchantSecret  string    `db:"merchant_secret" json:"-"`
	WebhookEndpoint string    `db:"webhook_endpoint" json:"webhook_endpoint"`
	HubID           *int64    `db:"hub_id" json:"hub_id,omitempty"`
	UniqueID        string    `db:"unique_id" json:"unique_id"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	ExtraData       JSONMap   `db:"extra_data" json:"extra_data"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Ledger is a batch of invoices submitted together for financing.
type Ledger struct {
	ID           int64        `db:"id" json:"id"`
	MerchantID   int64        `db:"merchant_id" json:"merchant_id"`
	LedgerNo     string       `db:"ledger_id" json:"ledger_no"`
	InvoiceCount int          `db:"invoice_count" json:"invoice_count"`
	LedgerHash   *string      `db:"ledger_hash" json:"ledger_hash,omitempty"`
	Status       LedgerStatus `db:"status" json:"status"`
	IsActive     bool         `db:"is_active" json:"is_active"`
	ExtraData    JSONMap      `db:"extra_data" json:"extra_data"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// Invoice is one seller/buyer commercial invoice. Live and archived rows share
// this shape; the table they come from is carried by InvoiceRef.
type Invoice struct {
	ID             int64               `db:"id" json:"id"`
	InvoiceNo      string              `db:"invoice_no" json:"invoice_no"`
	InvoiceDate    time.Time           `db:"invoice_date" json:"invoice_date"`
	InvoiceDueDate *time.Time          `db:"invoice_due_date" json:"invoice_due_date,omitempty"`
	InvoiceAmt     decimal.Decimal     `db:"invoice_amt" json:"invoice_amt"`
	InvoiceHash    string              `db:"invoice_hash" json:"invoice_hash"`
	FundedAmt      decimal.NullDecimal `db:"funded_amt" json:"funded_amt"`
	GSTStatus      *bool               `db:"gst_status" json:"gst_status"`
	FundStatus     bool                `db:"fund_status" json:"fund_status"`
	FinancialYear  string              `db:"financial_year" json:"financial_year"`
	Status         InvoiceStatus       `db:"status" json:"status"`
	IsActive       bool                `db:"is_active" json:"is_active"`
	ExtraData      JSONMap             `db:"extra_data" json:"extra_data"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at" json:"updated_at"`
}

// SellerGST returns the seller GSTIN stored for GSP verification, falling back
// to the first GSTIN seller identifier.
func (i *Invoice) SellerGST() string {
	if v := i.ExtraData.String("seller_gst"); v != "" {
		return v
	}
	return i.ExtraData.IdentifierNo(SellerIdentifierKey, "seller", IdentifierTypeGSTIN)
}

// BuyerGST returns the buyer GSTIN stored for GSP verification, falling back
// to the first GSTIN buyer identifier.
func (i *Invoice) BuyerGST() string {
	if v := i.ExtraData.String("buyer_gst"); v != "" {
		return v
	}
	return i.ExtraData.IdentifierNo(BuyerIdentifierKey, "buyer", IdentifierTypeGSTIN)
}

// NaturalKey identifies "the same" real-world invoice across resubmissions.
type NaturalKey struct {
	SellerGSTIN   string
	BuyerGSTIN    string
	InvoiceNo     string
	InvoiceDate   time.Time
	InvoiceAmt    decimal.Decimal
	FinancialYear string
}

// Complete reports whether every identifying part of the key is present.
func (k NaturalKey) Complete() bool {
	return strings.TrimSpace(k.SellerGSTIN) != "" && strings.TrimSpace(k.BuyerGSTIN) != "" &&
		k.InvoiceNo != "" && !k.InvoiceDate.IsZero()
}

// LedgerMember is one invoice attached to a funded ledger, live or archived.
type LedgerMember struct {
	Ref        InvoiceRef
	InvoiceNo  string
	FundStatus bool
}

// InvoiceSnapshot is the per-invoice view returned in status responses and webhooks.
type InvoiceSnapshot struct {
	InvoiceID             int64           `db:"invoice_id" json:"invoiceId"`
	InvoiceNo             string          `db:"invoice_no" json:"invoiceNo"`
	InvoiceStatus         string          `db:"invoice_status" json:"invoiceStatus"`
	InvoiceAmt            decimal.Decimal `db:"invoice_amt" json:"invoiceAmt"`
	InvoiceDate           time.Time       `db:"invoice_date" json:"invoiceDate"`
	GSTVerificationStatus bool            `db:"gst_verification_status" json:"gstVerificationStatus"`
	FundedAmt             string          `db:"funded_amt" json:"fundedAmt"`
	BuyerIdentifierData   JSONList        `db:"buyer_identifier_data" json:"buyerIdentifierData"`
	SellerIdentifierData  JSONList        `db:"seller_identifier_data" json:"sellerIdentifierData"`
}

// FundingUpdate carries the per-invoice effect of a financing request.
type FundingUpdate struct {
	InvoiceID  int64
	MerchantID int64
	FundedAmt  decimal.Decimal
	LenderCode string
}

// InvoiceEncryptedData binds an invoice to its content hash key.
type InvoiceEncryptedData struct {
	ID            int64     `db:"id"`
	InvoiceID     *int64    `db:"invoice_id"`
	OldInvoiceID  *int64    `db:"old_invoice_id"`
	InvoiceHasKey string    `db:"invoice_has_key"`
	Status        bool      `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

// Lender is a financier institution identified by its code.
type Lender struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Code     string `db:"code"`
	Category string `db:"category"`
}

// LenderInvoiceAssociation links a live or archived invoice to its lender.
type LenderInvoiceAssociation struct {
	ID           int64  `db:"id"`
	InvoiceID    *int64 `db:"invoice_id"`
	OldInvoiceID *int64 `db:"old_invoice_id"`
	LenderID     *int64 `db:"lender_id"`
}

// SettlementEvent is a disbursement or repayment recorded against an invoice.
type SettlementEvent struct {
	ID           int64           `db:"id"`
	InvoiceID    *int64          `db:"invoice_id"`
	OldInvoiceID *int64          `db:"old_invoice_id"`
	Amount       decimal.Decimal `db:"amount"`
	EventDate    time.Time       `db:"event_date"`
	CreatedAt    time.Time       `db:"created_at"`
}

// GSPUser holds the GSP credentials registered for a GSTIN.
type GSPUser struct {
	ID           int64       `db:"id"`
	GSTIN        string      `db:"gstin"`
	GSP          GSPProvider `db:"gsp"`
	Username     string      `db:"username"`
	Password     string      `db:"password"`
	Name         string      `db:"name"`
	PAN          string      `db:"pan"`
	Email        string      `db:"email"`
	MobileNumber string      `db:"mobile_number"`
	ExtraData    JSONMap     `db:"extra_data"`
	CreatedAt    time.Time   `db:"created_at"`
}

// GSPSession is an authenticated provider session.
type GSPSession struct {
	Token string
	OrgID string
}

// VayanaTask is one outstanding e-way-bill verification task.
type VayanaTask struct {
	ID             int64     `db:"id"`
	TaskID         string    `db:"task_id"`
	UserID         int64     `db:"user_id"`
	TaskIDStatus   string    `db:"task_id_status"`
	DownloadStatus *string   `db:"download_status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// RequestLog records one signed API request and its response.
type RequestLog struct {
	ID           int64     `db:"id"`
	RequestID    string    `db:"request_id"`
	APIURL       string    `db:"api_url"`
	RequestData  JSONMap   `db:"request_data"`
	ResponseData JSONMap   `db:"response_data"`
	MerchantID   string    `db:"merchant_id"`
	HubID        string    `db:"hub_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PostProcessingRequest records an async request, its result and webhook outcome.
type PostProcessingRequest struct {
	ID               int64     `db:"id"`
	RequestID        string    `db:"request_id"`
	RequestExtraData JSONMap   `db:"request_extra_data"`
	APIResponse      JSONMap   `db:"api_response"`
	WebhookResponse  JSONMap   `db:"webhook_response"`
	MerchantID       string    `db:"merchant_id"`
	Type             TaskFlag  `db:"type"`
	ExtraData        JSONMap   `db:"extra_data"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// HubTransaction is one hub callback outcome reported at end of day.
type HubTransaction struct {
	TxnCode       string `db:"txn_code" json:"txnCode"`
	CorrelationID string `db:"correlation_id" json:"correlationId"`
	Status        string `db:"status" json:"status"`
}

// MISLedgerRow is one row of the ledger summary MIS report.
type MISLedgerRow struct {
	MerchantID     int64           `db:"merchant_id"`
	MerchantName   string          `db:"merchant_name"`
	LedgerNo       string          `db:"ledger_no"`
	LedgerStatus   string          `db:"ledger_status"`
	InvoiceCount   int             `db:"invoice_count"`
	TotalAmt       decimal.Decimal `db:"total_amt"`
	FundedAmt      decimal.Decimal `db:"funded_amt"`
	DisbursedAmt   decimal.Decimal `db:"disbursed_amt"`
	RepaidAmt      decimal.Decimal `db:"repaid_amt"`
	GSTVerified    int             `db:"gst_verified"`
	LedgerCreated  time.Time       `db:"ledger_created"`
	LastActivityAt time.Time       `db:"last_activity_at"`
}

// ItemError records one failed item of a best-effort batch.
type ItemError struct {
	ID  int64
	Err error
}

// ArchivalReport summarizes one archival batch.
type ArchivalReport struct {
	Scanned  int
	Moved    int
	Failures []ItemError
}

// GSPReport summarizes one GSP reconciliation pass.
type GSPReport struct {
	Scanned   int
	Updated   int
	Failures  []ItemError
	// Unmatched lists e-way-bill numbers of downloaded batches that verified no invoice.
	Unmatched []string
}
