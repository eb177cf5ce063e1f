package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"invoicefin/internal/domain"
	"invoicefin/internal/logger"
	"invoicefin/internal/port"
)

// DisburseInput is the DTO for recording disbursements on a funded ledger.
type DisburseInput struct {
	RequestID      string         `json:"requestId" binding:"required,max=30"`
	LedgerNo       string         `json:"ledgerNo" binding:"required"`
	LenderCategory string         `json:"lenderCategory"`
	LenderName     string         `json:"lenderName"`
	LenderCode     string         `json:"lenderCode"`
	LedgerData     []DisburseLine `json:"ledgerData" binding:"required,min=1,dive"`
}

// DisburseLine is one invoice of a disbursement request.
type DisburseLine struct {
	ValidationType  string          `json:"validationType"`
	ValidationRefNo string          `json:"validationRefNo"`
	InvoiceNo       string          `json:"invoiceNo" binding:"required,max=100"`
	DisbursedFlag   string          `json:"disbursedFlag"`
	DisbursedAmt    decimal.Decimal `json:"disbursedAmt"`
	DisbursedDate   string          `json:"disbursedDate" binding:"required"`
	DueAmt          decimal.Decimal `json:"dueAmt"`
	DueDate         string          `json:"dueDate"`
	InvoiceDate     string          `json:"invoiceDate"`
	InvoiceAmt      decimal.Decimal `json:"invoiceAmt"`
}

// RepayInput is the DTO for recording repayments on a disbursed ledger.
type RepayInput struct {
	RequestID        string      `json:"requestId" binding:"required,max=30"`
	LedgerNo         string      `json:"ledgerNo" binding:"required"`
	BorrowerCategory string      `json:"borrowerCategory"`
	LedgerData       []RepayLine `json:"ledgerData" binding:"required,min=1,dive"`
}

// RepayLine is one invoice of a repayment request.
type RepayLine struct {
	ValidationType      string          `json:"validationType"`
	ValidationRefNo     string          `json:"validationRefNo"`
	InvoiceNo           string          `json:"invoiceNo" binding:"required,max=100"`
	AssetClassification string          `json:"assetClassification"`
	DueAmt              decimal.Decimal `json:"dueAmt"`
	DueDate             string          `json:"dueDate"`
	RepaymentType       string          `json:"repaymentType"`
	RepaymentFlag       string          `json:"repaymentFlag"`
	RepaymentAmt        decimal.Decimal `json:"repaymentAmt"`
	RepaymentDate       string          `json:"repaymentDate" binding:"required"`
	PendingDueAmt       decimal.Decimal `json:"pendingDueAmt"`
	DPD                 int             `json:"dpd"`
	InvoiceDate         string          `json:"invoiceDate"`
	InvoiceAmt          decimal.Decimal `json:"invoiceAmt"`
}

// SettlementResult reports the status an invoice reached.
type SettlementResult struct {
	InvoiceNo     string               `json:"invoiceNo"`
	InvoiceStatus domain.InvoiceStatus `json:"invoiceStatus"`
}

// SettlementOutput is the result of a disbursement or repayment call.
type SettlementOutput struct {
	Code       domain.Code        `json:"-"`
	LedgerNo   string             `json:"ledgerNo"`
	LedgerData []SettlementResult `json:"ledgerData"`
}

// SettlementService records disbursements and repayments and advances
// invoice status accordingly.
type SettlementService interface {
	Disburse(ctx context.Context, merchant *domain.Merchant, input *DisburseInput) (*SettlementOutput, error)
	Repay(ctx context.Context, merchant *domain.Merchant, input *RepayInput) (*SettlementOutput, error)
}

type settlementService struct {
	ledgerRepo     port.LedgerRepository
	invoiceRepo    port.InvoiceRepository
	settlementRepo port.SettlementRepository
	now            func() time.Time
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	ledgerRepo port.LedgerRepository,
	invoiceRepo port.InvoiceRepository,
	settlementRepo port.SettlementRepository,
) SettlementService {
	return &settlementService{
		ledgerRepo:     ledgerRepo,
		invoiceRepo:    invoiceRepo,
		settlementRepo: settlementRepo,
		now:            time.Now,
	}
}

type settlementLine struct {
	invoice *domain.Invoice
	amount  decimal.Decimal
	date    time.Time
	target  decimal.Decimal
}

func (s *settlementService) Disburse(ctx context.Context, merchant *domain.Merchant, input *DisburseInput) (*SettlementOutput, error) {
	now := s.now()
	ledger, err := s.ledgerRepo.GetByLedgerNo(ctx, merchant.ID, input.LedgerNo)
	if err != nil {
		return nil, err
	}

	lines := make([]settlementLine, 0, len(input.LedgerData))
	for i := range input.LedgerData {
		line := &input.LedgerData[i]
		inv, err := s.invoiceRepo.FindByLedgerAndNo(ctx, ledger.ID, line.InvoiceNo)
		if err != nil {
			return nil, err
		}
		facts, err := invoiceFacts(inv, line.InvoiceDate, line.DueDate)
		if err != nil {
			return nil, err
		}
		disbursedDate, err := domain.ParseDate(line.DisbursedDate)
		if err != nil {
			return nil, err
		}
		facts.DisbursedDate = &disbursedDate
		facts.DisbursedAmt = line.DisbursedAmt
		if err := ValidateLine(facts, now); err != nil {
			return nil, err
		}
		if !inv.FundStatus {
			return nil, domain.ErrInvoiceNotFunded
		}
		lines = append(lines, settlementLine{
			invoice: inv,
			amount:  line.DisbursedAmt,
			date:    disbursedDate,
			target:  fundedAmount(inv),
		})
	}

	out := &SettlementOutput{Code: domain.CodeOK, LedgerNo: ledger.LedgerNo}
	for _, line := range lines {
		total, err := s.settlementRepo.AddDisbursement(ctx, line.invoice.ID, line.amount, line.date)
		if err != nil {
			return nil, fmt.Errorf("recording disbursement for invoice %d: %w", line.invoice.ID, err)
		}
		status := disbursementStatus(total, line.target)
		if err := s.invoiceRepo.UpdateStatus(ctx, line.invoice.ID, status); err != nil {
			return nil, fmt.Errorf("updating invoice %d: %w", line.invoice.ID, err)
		}
		out.LedgerData = append(out.LedgerData, SettlementResult{InvoiceNo: line.invoice.InvoiceNo, InvoiceStatus: status})
	}

	log := logger.WithComponent("settlement_service")
	log.Info().Int64("ledger_id", ledger.ID).Int("invoices", len(lines)).Msg("disbursement recorded")
	return out, nil
}

func (s *settlementService) Repay(ctx context.Context, merchant *domain.Merchant, input *RepayInput) (*SettlementOutput, error) {
	now := s.now()
	ledger, err := s.ledgerRepo.GetByLedgerNo(ctx, merchant.ID, input.LedgerNo)
	if err != nil {
		return nil, err
	}

	lines := make([]settlementLine, 0, len(input.LedgerData))
	for i := range input.LedgerData {
		line := &input.LedgerData[i]
		inv, err := s.invoiceRepo.FindByLedgerAndNo(ctx, ledger.ID, line.InvoiceNo)
		if err != nil {
			return nil, err
		}
		facts, err := invoiceFacts(inv, line.InvoiceDate, line.DueDate)
		if err != nil {
			return nil, err
		}
		repaymentDate, err := domain.ParseDate(line.RepaymentDate)
		if err != nil {
			return nil, err
		}
		facts.RepaymentDate = &repaymentDate
		facts.RepaymentAmt = line.RepaymentAmt
		if err := ValidateLine(facts, now); err != nil {
			return nil, err
		}
		if !inv.Status.IsDisbursed() {
			return nil, domain.ErrInvoiceNotDisbursed
		}

		owed := line.DueAmt
		if !owed.IsPositive() {
			owed = fundedAmount(inv)
		}
		lines = append(lines, settlementLine{invoice: inv, amount: line.RepaymentAmt, date: repaymentDate, target: owed})
	}

	out := &SettlementOutput{Code: domain.CodeOK, LedgerNo: ledger.LedgerNo}
	for _, line := range lines {
		total, err := s.settlementRepo.AddRepayment(ctx, line.invoice.ID, line.amount, line.date)
		if err != nil {
			return nil, fmt.Errorf("recording repayment for invoice %d: %w", line.invoice.ID, err)
		}
		status := repaymentStatus(total, line.target)
		if err := s.invoiceRepo.UpdateStatus(ctx, line.invoice.ID, status); err != nil {
			return nil, fmt.Errorf("updating invoice %d: %w", line.invoice.ID, err)
		}
		out.LedgerData = append(out.LedgerData, SettlementResult{InvoiceNo: line.invoice.InvoiceNo, InvoiceStatus: status})
	}

	log := logger.WithComponent("settlement_service")
	log.Info().Int64("ledger_id", ledger.ID).Int("invoices", len(lines)).Msg("repayment recorded")
	return out, nil
}

// invoiceFacts starts the rule facts from the stored invoice, letting the
// request override the invoice date and supply a due date.
func invoiceFacts(inv *domain.Invoice, invoiceDate, dueDate string) (LineFacts, error) {
	facts := LineFacts{InvoiceDate: inv.InvoiceDate, InvoiceAmt: inv.InvoiceAmt, DueDate: inv.InvoiceDueDate}
	if invoiceDate != "" {
		d, err := domain.ParseDate(invoiceDate)
		if err != nil {
			return facts, err
		}
		facts.InvoiceDate = d
	}
	due, err := parseOptionalDate(dueDate)
	if err != nil {
		return facts, err
	}
	if due != nil {
		facts.DueDate = due
	}
	return facts, nil
}

func fundedAmount(inv *domain.Invoice) decimal.Decimal {
	if inv.FundedAmt.Valid {
		return inv.FundedAmt.Decimal
	}
	return inv.InvoiceAmt
}
