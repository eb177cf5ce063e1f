package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin/binding"

	"invoicefin/internal/domain"
	"invoicefin/internal/envelope"
	"invoicefin/internal/logger"
	"invoicefin/internal/port"
)

// TaskServices are the collaborators the async task handlers call.
type TaskServices struct {
	Ledgers        LedgerService
	Financing      FinancingService
	Settlement     SettlementService
	GSP            GSPVerifier
	Webhooks       WebhookService
	PostProcessing port.PostProcessingRepository
}

// NewTaskHandlers builds the flag to handler table for a TaskDispatcher.
// Merchant facing handlers store the signed result on the post processing
// row and deliver it by webhook.
func NewTaskHandlers(svc TaskServices) map[domain.TaskFlag]TaskHandler {
	return map[domain.TaskFlag]TaskHandler{
		domain.TaskInvoiceRegistration: func(ctx context.Context, t *Task) error {
			var in RegisterLedgerInput
			if err := decodeTask(t, &in); err != nil {
				return svc.finish(ctx, t, nil, domain.CodeOK, err)
			}
			out, err := svc.Ledgers.Register(ctx, t.Merchant, &in)
			return svc.finish(ctx, t, out, domain.CodeOK, err)
		},
		domain.TaskLedgerStatusCheck: func(ctx context.Context, t *Task) error {
			var in LedgerStatusInput
			if err := decodeTask(t, &in); err != nil {
				return svc.finish(ctx, t, nil, domain.CodeOK, err)
			}
			out, err := svc.Ledgers.Status(ctx, t.Merchant, &in)
			code := domain.CodeOK
			if out != nil {
				code = out.Code
			}
			return svc.finish(ctx, t, out, code, err)
		},
		domain.TaskFinancing: func(ctx context.Context, t *Task) error {
			var in FinanceInput
			if err := decodeTask(t, &in); err != nil {
				return svc.finish(ctx, t, nil, domain.CodeOK, err)
			}
			out, err := svc.Financing.Finance(ctx, t.Merchant, &in)
			code := domain.CodeOK
			if out != nil {
				code = out.Code
			}
			return svc.finish(ctx, t, out, code, err)
		},
		domain.TaskDisbursement: func(ctx context.Context, t *Task) error {
			var in DisburseInput
			if err := decodeTask(t, &in); err != nil {
				return svc.finish(ctx, t, nil, domain.CodeOK, err)
			}
			out, err := svc.Settlement.Disburse(ctx, t.Merchant, &in)
			return svc.finish(ctx, t, out, domain.CodeOK, err)
		},
		domain.TaskRepayment: func(ctx context.Context, t *Task) error {
			var in RepayInput
			if err := decodeTask(t, &in); err != nil {
				return svc.finish(ctx, t, nil, domain.CodeOK, err)
			}
			out, err := svc.Settlement.Repay(ctx, t.Merchant, &in)
			return svc.finish(ctx, t, out, domain.CodeOK, err)
		},
		domain.TaskGSPVerification: func(ctx context.Context, t *Task) error {
			var in GSPVerifyInput
			if err := decodeTask(t, &in); err != nil {
				return err
			}
			return svc.GSP.VerifyInvoice(ctx, in)
		},
	}
}

func decodeTask(t *Task, dst any) error {
	if err := json.Unmarshal(t.Body, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

// finish signs the task result, stores it as the API response and delivers
// it to the merchant.
func (svc TaskServices) finish(ctx context.Context, t *Task, out any, code domain.Code, runErr error) error {
	log := logger.WithComponent("task_handlers")
	if runErr != nil && domain.CodeOf(runErr) == domain.CodeInternal {
		log.Error().Err(runErr).Str("flag", string(t.Flag)).Str("request_id", t.RequestID).Msg("task failed")
	}

	env, err := envelope.ForResult(t.RequestID, code, out, runErr)
	if err != nil {
		return err
	}
	if env, err = env.Sign(t.Merchant.MerchantSecret); err != nil {
		return err
	}

	if t.PostProcessingID != 0 {
		if err := svc.PostProcessing.SetAPIResponse(ctx, t.PostProcessingID, domain.JSONMap(env)); err != nil {
			log.Error().Err(err).Int64("post_processing_id", t.PostProcessingID).Msg("storing api response failed")
		}
	}
	return svc.Webhooks.Deliver(ctx, t.Merchant, t.RequestID, env)
}
