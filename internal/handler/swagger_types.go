package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.
// Every request body also carries its signature: sha256 over the canonical
// JSON of the body without "signature", followed by the merchant secret.

// --- Request Types ---

// InvoiceLineRequest is one invoice of a registration request.
type InvoiceLineRequest struct {
	ValidationType  string  `json:"validationType" example:"EWB"`
	ValidationRefNo string  `json:"validationRefNo" example:"331008543210"`
	InvoiceNo       string  `json:"invoiceNo" binding:"required" example:"INV-2024-0042"`
	InvoiceDate     string  `json:"invoiceDate" binding:"required" example:"15/03/2024"`
	InvoiceDueDate  string  `json:"invoiceDueDate" example:"14/05/2024"`
	InvoiceAmt      float64 `json:"invoiceAmt" example:"125000.50"`
	VerifyGSTNFlag  bool    `json:"verifyGSTNFlag" example:"true"`
}

// RegisterLedgerRequest represents the ledger registration request body.
type RegisterLedgerRequest struct {
	RequestID  string               `json:"requestId" binding:"required" example:"REQ20240315000001"`
	SellerGST  string               `json:"sellerGst" example:"27AAPFU0939F1ZV"`
	BuyerGST   string               `json:"buyerGst" example:"29AAGCB7383J1Z4"`
	GroupingID string               `json:"groupingId" example:"GRP-17"`
	LedgerData []InvoiceLineRequest `json:"ledgerData" binding:"required"`
	Signature  string               `json:"signature" binding:"required" example:"9f2c4e..."`
}

// LedgerStatusRequest represents the ledger status request body.
type LedgerStatusRequest struct {
	RequestID  string `json:"requestId" binding:"required" example:"REQ20240315000002"`
	LedgerNo   string `json:"ledgerNo" binding:"required" example:"70201202410300012"`
	GroupingID string `json:"groupingId" example:"GRP-17"`
	Signature  string `json:"signature" binding:"required" example:"9f2c4e..."`
}

// FinanceLineRequest is one invoice of a financing request.
type FinanceLineRequest struct {
	InvoiceNo          string  `json:"invoiceNo" binding:"required" example:"INV-2024-0042"`
	InvoiceDate        string  `json:"invoiceDate" example:"15/03/2024"`
	InvoiceAmt         float64 `json:"invoiceAmt" example:"125000.50"`
	FinanceRequestAmt  float64 `json:"financeRequestAmt" example:"100000"`
	FinanceRequestDate string  `json:"financeRequestDate" example:"20/03/2024"`
	DueDate            string  `json:"dueDate" example:"14/05/2024"`
	AdjustmentType     string  `json:"adjustmentType" example:"none"`
	AdjustmentAmt      float64 `json:"adjustmentAmt" example:"0"`
}

// FinanceRequest represents the ledger financing request body.
type FinanceRequest struct {
	RequestID      string               `json:"requestId" binding:"required" example:"REQ20240320000001"`
	LedgerNo       string               `json:"ledgerNo" binding:"required" example:"70201202410300012"`
	LenderCategory string               `json:"lenderCategory" example:"NBFC"`
	LenderName     string               `json:"lenderName" example:"Acme Capital"`
	LenderCode     string               `json:"lenderCode" example:"ACAP01"`
	LedgerData     []FinanceLineRequest `json:"ledgerData" binding:"required"`
	Signature      string               `json:"signature" binding:"required" example:"9f2c4e..."`
}

// CancelRequest represents the financing cancellation request body.
type CancelRequest struct {
	RequestID          string `json:"requestId" binding:"required" example:"REQ20240321000001"`
	LedgerNo           string `json:"ledgerNo" binding:"required" example:"70201202410300012"`
	CancellationReason string `json:"cancellationReason" example:"borrower withdrew"`
	Signature          string `json:"signature" binding:"required" example:"9f2c4e..."`
}

// DisburseLineRequest is one invoice of a disbursement request.
type DisburseLineRequest struct {
	InvoiceNo     string  `json:"invoiceNo" binding:"required" example:"INV-2024-0042"`
	DisbursedAmt  float64 `json:"disbursedAmt" example:"50000"`
	DisbursedDate string  `json:"disbursedDate" binding:"required" example:"22/03/2024"`
	DueAmt        float64 `json:"dueAmt" example:"100000"`
	DueDate       string  `json:"dueDate" example:"14/05/2024"`
}

// DisburseRequest represents the disbursement request body.
type DisburseRequest struct {
	RequestID  string                `json:"requestId" binding:"required" example:"REQ20240322000001"`
	LedgerNo   string                `json:"ledgerNo" binding:"required" example:"70201202410300012"`
	LedgerData []DisburseLineRequest `json:"ledgerData" binding:"required"`
	Signature  string                `json:"signature" binding:"required" example:"9f2c4e..."`
}

// RepayLineRequest is one invoice of a repayment request.
type RepayLineRequest struct {
	InvoiceNo     string  `json:"invoiceNo" binding:"required" example:"INV-2024-0042"`
	RepaymentAmt  float64 `json:"repaymentAmt" example:"100000"`
	RepaymentDate string  `json:"repaymentDate" binding:"required" example:"10/05/2024"`
	DueAmt        float64 `json:"dueAmt" example:"100000"`
	DueDate       string  `json:"dueDate" example:"14/05/2024"`
	DPD           int     `json:"dpd" example:"0"`
}

// RepayRequest represents the repayment request body.
type RepayRequest struct {
	RequestID  string             `json:"requestId" binding:"required" example:"REQ20240510000001"`
	LedgerNo   string             `json:"ledgerNo" binding:"required" example:"70201202410300012"`
	LedgerData []RepayLineRequest `json:"ledgerData" binding:"required"`
	Signature  string             `json:"signature" binding:"required" example:"9f2c4e..."`
}

// GSPVerificationRequest represents the GSP verification request body.
type GSPVerificationRequest struct {
	RequestID string `json:"requestId" binding:"required" example:"REQ20240315000003"`
	SellerGST string `json:"sellerGst" example:"27AAPFU0939F1ZV"`
	BuyerGST  string `json:"buyerGst" example:"29AAGCB7383J1Z4"`
	EWBNo     string `json:"ewbNo" binding:"required" example:"331008543210"`
	Signature string `json:"signature" binding:"required" example:"9f2c4e..."`
}

// HubEncryptData carries the merchant and the operation body of a hub callback.
type HubEncryptData struct {
	MerchantUniqueID string         `json:"merchantUniqueId" example:"MER-0007"`
	Data             map[string]any `json:"data"`
}

// HubCallbackRequest represents the body a hub posts for its callbacks.
type HubCallbackRequest struct {
	RequestID     string         `json:"requestId" binding:"required" example:"HUB20240320000001"`
	TxnCode       string         `json:"txnCode" binding:"required" example:"FIN"`
	CorrelationID string         `json:"correlationId" binding:"required" example:"c0ffee-42"`
	Signature     string         `json:"signature" binding:"required" example:"sha256(txnCode+correlationId+secret)"`
	EncryptData   HubEncryptData `json:"encryptData"`
}

// --- Response Types ---

// EnvelopeBody is the signed envelope every response is wrapped in.
type EnvelopeBody struct {
	RequestID string `json:"requestId" example:"REQ20240315000001"`
	Code      int    `json:"code" example:"200"`
	Message   string `json:"message" example:"success"`
	Signature string `json:"signature" example:"3b7d1a..."`
}

// LedgerResponse is the envelope of registration, financing and cancellation.
type LedgerResponse struct {
	EnvelopeBody
	LedgerNo string `json:"ledgerNo" example:"70201202410300012"`
}

// InvoiceSnapshotBody is one invoice in a ledger status response.
type InvoiceSnapshotBody struct {
	InvoiceNo     string  `json:"invoiceNo" example:"INV-2024-0042"`
	InvoiceStatus string  `json:"invoiceStatus" example:"funded"`
	InvoiceAmt    float64 `json:"invoiceAmt" example:"125000.50"`
	GSTVerified   bool    `json:"gstVerificationStatus" example:"true"`
}

// LedgerStatusResponse is the envelope of a ledger status check.
type LedgerStatusResponse struct {
	EnvelopeBody
	LedgerNo   string                `json:"ledgerNo" example:"70201202410300012"`
	LedgerData []InvoiceSnapshotBody `json:"ledgerData"`
}

// SettlementLineBody reports the status one invoice reached.
type SettlementLineBody struct {
	InvoiceNo     string `json:"invoiceNo" example:"INV-2024-0042"`
	InvoiceStatus string `json:"invoiceStatus" example:"partial_disbursed"`
}

// SettlementResponse is the envelope of disbursement and repayment.
type SettlementResponse struct {
	EnvelopeBody
	LedgerNo   string               `json:"ledgerNo" example:"70201202410300012"`
	LedgerData []SettlementLineBody `json:"ledgerData"`
}
