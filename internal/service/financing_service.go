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

// FinanceInput is the DTO for financing a registered ledger.
type FinanceInput struct {
	RequestID        string        `json:"requestId" binding:"required,max=30"`
	LedgerNo         string        `json:"ledgerNo" binding:"required"`
	LedgerAmtFlag    string        `json:"ledgerAmtFlag"`
	LenderCategory   string        `json:"lenderCategory"`
	LenderName       string        `json:"lenderName"`
	LenderCode       string        `json:"lenderCode"`
	BorrowerCategory string        `json:"borrowerCategory"`
	LedgerData       []FinanceLine `json:"ledgerData" binding:"required,min=1,dive"`
}

// FinanceLine is one invoice of a financing request. FundingAmt and
// FundingDate are accepted in place of FinanceRequestAmt and FinanceRequestDate.
type FinanceLine struct {
	ValidationType     string          `json:"validationType"`
	ValidationRefNo    string          `json:"validationRefNo"`
	InvoiceNo          string          `json:"invoiceNo" binding:"required,max=100"`
	FinanceRequestAmt  decimal.Decimal `json:"financeRequestAmt"`
	FinanceRequestDate string          `json:"financeRequestDate"`
	FundingAmt         decimal.Decimal `json:"fundingAmt"`
	FundingDate        string          `json:"fundingDate"`
	DueDate            string          `json:"dueDate"`
	FundingAmtFlag     string          `json:"fundingAmtFlag"`
	AdjustmentType     string          `json:"adjustmentType"`
	AdjustmentAmt      decimal.Decimal `json:"adjustmentAmt"`
	InvoiceDate        string          `json:"invoiceDate"`
	InvoiceAmt         decimal.Decimal `json:"invoiceAmt"`
}

func (l *FinanceLine) amount() decimal.Decimal {
	if !l.FinanceRequestAmt.IsZero() {
		return l.FinanceRequestAmt
	}
	return l.FundingAmt
}

func (l *FinanceLine) requestDate() string {
	if l.FinanceRequestDate != "" {
		return l.FinanceRequestDate
	}
	return l.FundingDate
}

// CancelInput is the DTO for cancelling the financing of a ledger.
type CancelInput struct {
	RequestID          string `json:"requestId" binding:"required,max=30"`
	LedgerNo           string `json:"ledgerNo" binding:"required"`
	CancellationReason string `json:"cancellationReason"`
}

// FinancingOutput is the result of a financing or cancellation call.
type FinancingOutput struct {
	Code     domain.Code `json:"-"`
	LedgerNo string      `json:"ledgerNo"`
}

// FinancingService finances ledgers and cancels their financing.
type FinancingService interface {
	Finance(ctx context.Context, merchant *domain.Merchant, input *FinanceInput) (*FinancingOutput, error)
	Cancel(ctx context.Context, merchant *domain.Merchant, input *CancelInput) (*FinancingOutput, error)
}

type financingService struct {
	ledgerRepo     port.LedgerRepository
	invoiceRepo    port.InvoiceRepository
	settlementRepo port.SettlementRepository
	archival       ArchivalService
	now            func() time.Time
}

// NewFinancingService creates a new FinancingService. Archived invoices met
// during cancellation are restored through archival.
func NewFinancingService(
	ledgerRepo port.LedgerRepository,
	invoiceRepo port.InvoiceRepository,
	settlementRepo port.SettlementRepository,
	archival ArchivalService,
) FinancingService {
	return &financingService{
		ledgerRepo:     ledgerRepo,
		invoiceRepo:    invoiceRepo,
		settlementRepo: settlementRepo,
		archival:       archival,
		now:            time.Now,
	}
}

type fundingLine struct {
	invoice *domain.Invoice
	amount  decimal.Decimal
}

func (s *financingService) Finance(ctx context.Context, merchant *domain.Merchant, input *FinanceInput) (*FinancingOutput, error) {
	log := logger.WithComponent("financing_service")
	now := s.now()

	ledger, err := s.ledgerRepo.GetByLedgerNo(ctx, merchant.ID, input.LedgerNo)
	if err != nil {
		return nil, err
	}
	linked, err := s.ledgerRepo.LinkedInvoices(ctx, ledger.ID)
	if err != nil {
		return nil, fmt.Errorf("loading ledger invoices: %w", err)
	}
	if len(linked) != len(input.LedgerData) {
		return nil, domain.ErrInvoiceCountMismatch
	}

	// Every line is resolved and validated before anything is written.
	lines := make([]fundingLine, 0, len(input.LedgerData))
	for i := range input.LedgerData {
		line := &input.LedgerData[i]
		inv, err := s.resolveLine(ctx, ledger.ID, line, now)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fundingLine{invoice: inv, amount: line.amount()})
	}
	for i := range linked {
		if linked[i].FundStatus {
			return nil, domain.ErrLedgerFunded
		}
	}

	for _, line := range lines {
		if err := s.invoiceRepo.MarkFunded(ctx, domain.FundingUpdate{
			InvoiceID:  line.invoice.ID,
			MerchantID: merchant.ID,
			FundedAmt:  line.amount,
			LenderCode: input.LenderCode,
		}); err != nil {
			return nil, fmt.Errorf("funding invoice %d: %w", line.invoice.ID, err)
		}
		if input.LenderCode != "" {
			if err := s.settlementRepo.EnsureLenderAssociation(ctx, line.invoice.ID, input.LenderCode); err != nil {
				return nil, fmt.Errorf("linking lender to invoice %d: %w", line.invoice.ID, err)
			}
		}
	}

	if err := s.ledgerRepo.UpdateStatus(ctx, ledger.ID, domain.LedgerStatusFunded, nil); err != nil {
		return nil, fmt.Errorf("updating ledger status: %w", err)
	}

	log.Info().Int64("ledger_id", ledger.ID).Int("invoices", len(lines)).Str("lender_code", input.LenderCode).
		Msg("ledger financed")
	return &FinancingOutput{Code: domain.CodeFinanced, LedgerNo: ledger.LedgerNo}, nil
}

func (s *financingService) resolveLine(ctx context.Context, ledgerID int64, line *FinanceLine, now time.Time) (*domain.Invoice, error) {
	matchAmt := line.InvoiceAmt
	if matchAmt.IsZero() {
		matchAmt = line.amount()
	}
	financeDate, err := parseOptionalDate(line.requestDate())
	if err != nil {
		return nil, err
	}

	inv, err := s.invoiceRepo.FindLedgerLine(ctx, ledgerID, line.InvoiceNo, matchAmt, domain.FinancialYear(now), now)
	if err != nil {
		return nil, err
	}

	facts, err := invoiceFacts(inv, line.InvoiceDate, line.DueDate)
	if err != nil {
		return nil, err
	}
	if !line.InvoiceAmt.IsZero() {
		facts.InvoiceAmt = line.InvoiceAmt
	}
	facts.FinanceRequestDate = financeDate
	facts.FinanceRequestAmt = line.amount()
	facts.AdjustmentType = line.AdjustmentType
	facts.AdjustmentAmt = line.AdjustmentAmt
	if err := ValidateLine(facts, now); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *financingService) Cancel(ctx context.Context, merchant *domain.Merchant, input *CancelInput) (*FinancingOutput, error) {
	log := logger.WithComponent("financing_service")

	ledger, err := s.ledgerRepo.GetByLedgerNo(ctx, merchant.ID, input.LedgerNo)
	if err != nil {
		return nil, err
	}

	var cancelled int
	err = s.ledgerRepo.WithLock(ctx, ledger.ID, func(ctx context.Context) error {
		var err error
		cancelled, err = s.cancelLocked(ctx, merchant, ledger, input.CancellationReason)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("ledger_id", ledger.ID).Int("invoices", cancelled).Msg("ledger financing cancelled")
	return &FinancingOutput{Code: domain.CodeOK, LedgerNo: ledger.LedgerNo}, nil
}

// cancelLocked runs with the ledger lock held, so no member is archived
// between listing the members and resetting them.
func (s *financingService) cancelLocked(ctx context.Context, merchant *domain.Merchant, ledger *domain.Ledger, reason string) (int, error) {
	members, err := s.ledgerRepo.FundedMembers(ctx, ledger.ID)
	if err != nil {
		return 0, fmt.Errorf("loading funded members: %w", err)
	}

	anyFunded := false
	for _, m := range members {
		if m.FundStatus {
			anyFunded = true
			break
		}
	}
	if !anyFunded {
		return 0, domain.ErrNothingToCancel
	}

	liveIDs := make([]int64, 0, len(members))
	for _, m := range members {
		if !m.Ref.IsArchived() {
			liveIDs = append(liveIDs, m.Ref.ID)
			continue
		}
		id, err := s.archival.Restore(ctx, m.Ref)
		if err != nil {
			return 0, fmt.Errorf("restoring %s: %w", m.Ref, err)
		}
		liveIDs = append(liveIDs, id)
	}

	for _, id := range liveIDs {
		if err := s.invoiceRepo.ResetFunding(ctx, id, merchant.ID); err != nil {
			return 0, fmt.Errorf("resetting invoice %d: %w", id, err)
		}
		if err := s.settlementRepo.ClearLender(ctx, id); err != nil {
			return 0, fmt.Errorf("clearing lender of invoice %d: %w", id, err)
		}
	}

	extra := domain.JSONMap{domain.CancellationMessageKey: reason}
	if err := s.ledgerRepo.UpdateStatus(ctx, ledger.ID, domain.LedgerStatusNonFunded, extra); err != nil {
		return 0, fmt.Errorf("updating ledger status: %w", err)
	}
	return len(liveIDs), nil
}
