package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoicefin/internal/domain"
	"invoicefin/internal/logger"
	"invoicefin/internal/port"
	"invoicefin/internal/signature"
)

// RegisterLedgerInput is the DTO for registering a batch of invoices as a ledger.
type RegisterLedgerInput struct {
	RequestID            string           `json:"requestId" binding:"required,max=30"`
	SellerGST            string           `json:"sellerGst" binding:"omitempty,gstin"`
	BuyerGST             string           `json:"buyerGst" binding:"omitempty,gstin"`
	GroupingID           string           `json:"groupingId,omitempty"`
	LedgerData           []InvoiceLine    `json:"ledgerData" binding:"required,min=1,dive"`
	SellerIdentifierData []map[string]any `json:"sellerIdentifierData"`
	BuyerIdentifierData  []map[string]any `json:"buyerIdentifierData"`
}

// InvoiceLine is one invoice of a registration request.
type InvoiceLine struct {
	ValidationType  string          `json:"validationType"`
	ValidationRefNo string          `json:"validationRefNo"`
	InvoiceNo       string          `json:"invoiceNo" binding:"required,max=100"`
	InvoiceDate     string          `json:"invoiceDate" binding:"required"`
	InvoiceDueDate  string          `json:"invoiceDueDate"`
	InvoiceAmt      decimal.Decimal `json:"invoiceAmt"`
	VerifyGSTNFlag  bool            `json:"verifyGSTNFlag"`
}

// RegisterLedgerOutput is the result of a registration. LedgerNo is empty
// when the ledger was rejected as a duplicate.
type RegisterLedgerOutput struct {
	LedgerNo     string `json:"ledgerNo"`
	InvoiceCount int    `json:"invoiceCount,omitempty"`
}

// LedgerStatusInput is the DTO for a ledger status check.
type LedgerStatusInput struct {
	RequestID  string `json:"requestId" binding:"required,max=30"`
	LedgerNo   string `json:"ledgerNo" binding:"required"`
	GroupingID string `json:"groupingId,omitempty"`
}

// LedgerStatusOutput carries the aggregate status and the per-invoice snapshot.
type LedgerStatusOutput struct {
	Code       domain.Code              `json:"-"`
	LedgerNo   string                   `json:"ledgerNo"`
	LedgerData []domain.InvoiceSnapshot `json:"ledgerData"`
}

// GSPVerifier starts GSP verification of one e-way-bill backed invoice.
type GSPVerifier interface {
	VerifyInvoice(ctx context.Context, in GSPVerifyInput) error
}

// LedgerService registers ledgers and reports their status.
type LedgerService interface {
	Register(ctx context.Context, merchant *domain.Merchant, input *RegisterLedgerInput) (*RegisterLedgerOutput, error)
	Status(ctx context.Context, merchant *domain.Merchant, input *LedgerStatusInput) (*LedgerStatusOutput, error)
}

type ledgerService struct {
	ledgerRepo  port.LedgerRepository
	invoiceRepo port.InvoiceRepository
	verifier    GSPVerifier
	background  Background
	now         func() time.Time
}

// NewLedgerService creates a new LedgerService. GSP verifications requested by
// registration lines run on background.
func NewLedgerService(
	ledgerRepo port.LedgerRepository,
	invoiceRepo port.InvoiceRepository,
	verifier GSPVerifier,
	background Background,
) LedgerService {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		invoiceRepo: invoiceRepo,
		verifier:    verifier,
		background:  background,
		now:         time.Now,
	}
}

type preparedLine struct {
	key       domain.NaturalKey
	candidate *domain.Invoice
	verify    *GSPVerifyInput
}

func (s *ledgerService) Register(ctx context.Context, merchant *domain.Merchant, input *RegisterLedgerInput) (*RegisterLedgerOutput, error) {
	log := logger.WithComponent("ledger_service")
	now := s.now()

	lines, err := s.prepareLines(merchant, input, now)
	if err != nil {
		return nil, err
	}

	ledger := &domain.Ledger{
		MerchantID:   merchant.ID,
		InvoiceCount: len(lines),
		ExtraData:    domain.JSONMap{},
	}
	if input.GroupingID != "" {
		ledger.ExtraData[domain.GroupingIDKey] = input.GroupingID
	}
	if err := s.ledgerRepo.Create(ctx, ledger); err != nil {
		return nil, fmt.Errorf("creating ledger: %w", err)
	}
	ledger.LedgerNo = domain.LedgerNumber(merchant.ID, now, ledger.ID)
	if err := s.ledgerRepo.SetLedgerNo(ctx, ledger.ID, ledger.LedgerNo); err != nil {
		s.discard(ctx, ledger.ID)
		return nil, fmt.Errorf("setting ledger number: %w", err)
	}

	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		inv, created, err := s.invoiceRepo.FindOrCreate(ctx, line.key, line.candidate, now)
		if err != nil {
			s.discard(ctx, ledger.ID)
			return nil, fmt.Errorf("matching invoice %s: %w", line.key.InvoiceNo, err)
		}
		if err := s.invoiceRepo.LinkLedger(ctx, inv.ID, ledger.ID); err != nil {
			s.discard(ctx, ledger.ID)
			return nil, fmt.Errorf("linking invoice %d: %w", inv.ID, err)
		}
		log.Debug().Int64("invoice_id", inv.ID).Bool("created", created).Str("invoice_no", inv.InvoiceNo).
			Msg("invoice matched")
		ids = append(ids, inv.ID)
	}

	hash := signature.LedgerHash(ids, merchant.MerchantSecret)
	exists, err := s.ledgerRepo.HashExists(ctx, hash)
	if err != nil {
		s.discard(ctx, ledger.ID)
		return nil, fmt.Errorf("checking ledger hash: %w", err)
	}
	if !exists {
		err = s.ledgerRepo.SetHash(ctx, ledger.ID, hash)
	}
	if exists || err != nil {
		s.discard(ctx, ledger.ID)
		if exists || domain.CodeOf(err) == domain.CodeDuplicateLedger {
			log.Info().Int64("merchant_id", merchant.ID).Str("request_id", input.RequestID).
				Msg("duplicate ledger rejected")
			return &RegisterLedgerOutput{}, domain.ErrDuplicateLedger
		}
		return nil, fmt.Errorf("storing ledger hash: %w", err)
	}

	for _, line := range lines {
		if line.verify == nil {
			continue
		}
		in := *line.verify
		s.background.Go("gsp_verification", func(ctx context.Context) error {
			return s.verifier.VerifyInvoice(ctx, in)
		})
	}

	log.Info().Int64("ledger_id", ledger.ID).Str("ledger_no", ledger.LedgerNo).Int("invoices", len(ids)).
		Msg("ledger registered")
	return &RegisterLedgerOutput{LedgerNo: ledger.LedgerNo, InvoiceCount: len(ids)}, nil
}

// discard removes a ledger whose registration could not complete. Its invoice
// links go with it.
func (s *ledgerService) discard(ctx context.Context, ledgerID int64) {
	if err := s.ledgerRepo.Delete(ctx, ledgerID); err != nil {
		log := logger.WithComponent("ledger_service")
		log.Error().Err(err).Int64("ledger_id", ledgerID).Msg("failed to discard ledger")
	}
}

func (s *ledgerService) prepareLines(merchant *domain.Merchant, input *RegisterLedgerInput, now time.Time) ([]preparedLine, error) {
	sellerIDs, sellerGST := identifiers(input.SellerIdentifierData, "seller", input.SellerGST)
	buyerIDs, buyerGST := identifiers(input.BuyerIdentifierData, "buyer", input.BuyerGST)

	lines := make([]preparedLine, 0, len(input.LedgerData))
	for i := range input.LedgerData {
		line := &input.LedgerData[i]

		invoiceDate, err := domain.ParseDate(line.InvoiceDate)
		if err != nil {
			return nil, err
		}
		dueDate, err := parseOptionalDate(line.InvoiceDueDate)
		if err != nil {
			return nil, err
		}
		if err := ValidateLine(LineFacts{InvoiceDate: invoiceDate, InvoiceAmt: line.InvoiceAmt, DueDate: dueDate}, now); err != nil {
			return nil, err
		}

		hash, err := lineHash(line, merchant.MerchantSecret)
		if err != nil {
			return nil, err
		}

		extra := domain.JSONMap{
			domain.SellerIdentifierKey: sellerIDs,
			domain.BuyerIdentifierKey:  buyerIDs,
		}
		var verify *GSPVerifyInput
		if strings.EqualFold(line.ValidationType, domain.ValidationTypeEWB) && line.ValidationRefNo != "" {
			extra[domain.EWBNoKey] = line.ValidationRefNo
			extra["seller_gst"] = sellerGST
			extra["buyer_gst"] = buyerGST
			if line.VerifyGSTNFlag {
				verify = &GSPVerifyInput{SellerGST: sellerGST, BuyerGST: buyerGST, EWBNo: line.ValidationRefNo}
			}
		}

		fy := domain.FinancialYear(now)
		lines = append(lines, preparedLine{
			key: domain.NaturalKey{
				SellerGSTIN:   sellerGST,
				BuyerGSTIN:    buyerGST,
				InvoiceNo:     line.InvoiceNo,
				InvoiceDate:   invoiceDate,
				InvoiceAmt:    line.InvoiceAmt,
				FinancialYear: fy,
			},
			candidate: &domain.Invoice{
				InvoiceNo:      line.InvoiceNo,
				InvoiceDate:    invoiceDate,
				InvoiceDueDate: dueDate,
				InvoiceAmt:     line.InvoiceAmt,
				InvoiceHash:    hash,
				FinancialYear:  fy,
				Status:         domain.InvoiceStatusNonFunded,
				ExtraData:      extra,
			},
			verify: verify,
		})
	}
	return lines, nil
}

// identifiers returns the identifier array with the request level GSTIN
// included, and the GSTIN used for matching.
func identifiers(list []map[string]any, prefix, gstin string) (domain.JSONList, string) {
	out := make(domain.JSONList, 0, len(list)+1)
	for _, item := range list {
		out = append(out, item)
	}
	found := strings.TrimSpace(out.IdentifierNo(prefix, domain.IdentifierTypeGSTIN))
	gstin = strings.TrimSpace(gstin)
	if gstin == "" {
		return out, found
	}
	if found == "" {
		out = append(out, map[string]any{
			prefix + "IdType": domain.IdentifierTypeGSTIN,
			prefix + "IdNo":   gstin,
		})
	}
	return out, gstin
}

func lineHash(line *InvoiceLine, secret string) (string, error) {
	raw, err := json.Marshal(line)
	if err != nil {
		return "", fmt.Errorf("marshaling invoice line: %w", err)
	}
	payload, err := signature.Decode(raw)
	if err != nil {
		return "", err
	}
	return signature.Sign(payload, secret)
}

func (s *ledgerService) Status(ctx context.Context, merchant *domain.Merchant, input *LedgerStatusInput) (*LedgerStatusOutput, error) {
	var (
		ledger *domain.Ledger
		err    error
	)
	if input.GroupingID != "" {
		ledger, err = s.ledgerRepo.GetByLedgerNoAndGrouping(ctx, merchant.ID, input.LedgerNo, input.GroupingID)
	} else {
		ledger, err = s.ledgerRepo.GetByLedgerNo(ctx, merchant.ID, input.LedgerNo)
	}
	if err != nil {
		return nil, err
	}

	invoices, err := s.ledgerRepo.LinkedInvoices(ctx, ledger.ID)
	if err != nil {
		return nil, fmt.Errorf("loading ledger invoices: %w", err)
	}
	snapshot, err := s.ledgerRepo.Snapshot(ctx, ledger.ID)
	if err != nil {
		return nil, fmt.Errorf("loading ledger snapshot: %w", err)
	}

	out := &LedgerStatusOutput{Code: domain.CodeLedgerNotFunded, LedgerNo: ledger.LedgerNo, LedgerData: snapshot}
	for i := range invoices {
		if invoices[i].FundStatus {
			out.Code = domain.CodeLedgerFunded
			break
		}
	}
	return out, nil
}
