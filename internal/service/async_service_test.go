package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/domain"
	"invoicefin/internal/envelope"
	"invoicefin/internal/service"
	"invoicefin/internal/signature"
	"invoicefin/mocks"
)

// stubHandlers registers a handler for every flag that records the tasks it receives.
func stubHandlers(seen *[]*service.Task) map[domain.TaskFlag]service.TaskHandler {
	handlers := make(map[domain.TaskFlag]service.TaskHandler, len(domain.AllTaskFlags))
	for _, flag := range domain.AllTaskFlags {
		handlers[flag] = func(ctx context.Context, t *service.Task) error {
			*seen = append(*seen, t)
			return nil
		}
	}
	return handlers
}

func TestNewTaskDispatcher_MissingFlag(t *testing.T) {
	var seen []*service.Task
	handlers := stubHandlers(&seen)
	delete(handlers, domain.TaskRepayment)

	d, err := service.NewTaskDispatcher(handlers)

	assert.Nil(t, d)
	assert.ErrorIs(t, err, domain.ErrMissingTaskFlag)
	assert.Contains(t, err.Error(), string(domain.TaskRepayment))
}

func TestTaskDispatcher_Dispatch(t *testing.T) {
	var seen []*service.Task
	d, err := service.NewTaskDispatcher(stubHandlers(&seen))
	require.NoError(t, err)
	assert.Equal(t, domain.AllTaskFlags, d.Flags())

	task := &service.Task{Flag: domain.TaskFinancing, RequestID: "REQ-1"}
	require.NoError(t, d.Dispatch(context.Background(), task))
	require.Len(t, seen, 1)
	assert.Same(t, task, seen[0])

	err = d.Dispatch(context.Background(), &service.Task{Flag: "bogus"})
	assert.ErrorIs(t, err, domain.ErrUnknownTaskFlag)
}

func TestAsyncService_Accept(t *testing.T) {
	var seen []*service.Task
	dispatcher, err := service.NewTaskDispatcher(stubHandlers(&seen))
	require.NoError(t, err)
	postRepo := new(mocks.MockPostProcessingRepo)
	bg := &mocks.SyncBackground{}
	svc := service.NewAsyncService(postRepo, dispatcher, bg)
	merchant := testMerchant()

	var stored *domain.PostProcessingRequest
	postRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PostProcessingRequest")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.PostProcessingRequest)
			stored.ID = 55
		}).Return(nil)

	code, err := svc.Accept(context.Background(), service.AsyncRequest{
		Flag:      domain.TaskFinancing,
		RequestID: "REQ-1",
		Merchant:  merchant,
		Body:      []byte(`{"requestId":"REQ-1","ledgerNo":"L-12"}`),
		Extra:     domain.JSONMap{"txnCode": "TXN-9"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CodeFinancingAccepted, code)
	require.NotNil(t, stored)
	assert.Equal(t, "7", stored.MerchantID)
	assert.Equal(t, domain.TaskFinancing, stored.Type)
	assert.Equal(t, "L-12", stored.RequestExtraData["ledgerNo"])
	assert.Equal(t, "TXN-9", stored.RequestExtraData["txnCode"])

	assert.Equal(t, []string{string(domain.TaskFinancing)}, bg.Names)
	require.Len(t, seen, 1)
	assert.Equal(t, int64(55), seen[0].PostProcessingID)
	assert.Equal(t, merchant, seen[0].Merchant)
}

func TestAsyncService_Accept_BadBody(t *testing.T) {
	var seen []*service.Task
	dispatcher, err := service.NewTaskDispatcher(stubHandlers(&seen))
	require.NoError(t, err)
	postRepo := new(mocks.MockPostProcessingRepo)
	svc := service.NewAsyncService(postRepo, dispatcher, &mocks.SyncBackground{})

	_, err = svc.Accept(context.Background(), service.AsyncRequest{
		Flag:     domain.TaskRepayment,
		Merchant: testMerchant(),
		Body:     []byte(`[1,2`),
	})

	assert.Equal(t, domain.CodeBadRequest, domain.CodeOf(err))
	postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, seen)
}

func TestAsyncService_AcceptanceCodes(t *testing.T) {
	tests := []struct {
		flag domain.TaskFlag
		want domain.Code
	}{
		{domain.TaskInvoiceRegistration, domain.CodeRequestAccepted},
		{domain.TaskLedgerStatusCheck, domain.CodeLedgerStatusAccepted},
		{domain.TaskFinancing, domain.CodeFinancingAccepted},
		{domain.TaskDisbursement, domain.CodeDisbursementAccepted},
		{domain.TaskRepayment, domain.CodeRepaymentAccepted},
		{domain.TaskGSPVerification, domain.CodeRequestAccepted},
	}
	for _, tt := range tests {
		t.Run(string(tt.flag), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flag.AcceptanceCode())
		})
	}
}

type taskFixture struct {
	handlers map[domain.TaskFlag]service.TaskHandler
	ledgers  *mocks.MockLedgerService
	gsp      *mocks.MockGSPVerifier
	webhooks *mocks.MockWebhookService
	postRepo *mocks.MockPostProcessingRepo
}

func setupTaskHandlers() *taskFixture {
	f := &taskFixture{
		ledgers:  new(mocks.MockLedgerService),
		gsp:      new(mocks.MockGSPVerifier),
		webhooks: new(mocks.MockWebhookService),
		postRepo: new(mocks.MockPostProcessingRepo),
	}
	f.handlers = service.NewTaskHandlers(service.TaskServices{
		Ledgers:        f.ledgers,
		Financing:      new(mocks.MockFinancingService),
		Settlement:     new(mocks.MockSettlementService),
		GSP:            f.gsp,
		Webhooks:       f.webhooks,
		PostProcessing: f.postRepo,
	})
	return f
}

func TestTaskHandlers_RegistrationDeliversSignedResult(t *testing.T) {
	f := setupTaskHandlers()
	merchant := testMerchant()
	body := []byte(`{"requestId":"REQ-1","sellerGst":"` + sellerGSTIN + `","ledgerData":[{"invoiceNo":"INV-1","invoiceDate":"15/03/2024","invoiceAmt":1000}]}`)

	f.ledgers.On("Register", mock.Anything, merchant, mock.MatchedBy(func(in *service.RegisterLedgerInput) bool {
		return in.RequestID == "REQ-1" && len(in.LedgerData) == 1 && in.LedgerData[0].InvoiceAmt.Equal(amt("1000"))
	})).Return(&service.RegisterLedgerOutput{LedgerNo: "L-12", InvoiceCount: 1}, nil)
	f.postRepo.On("SetAPIResponse", mock.Anything, int64(55), mock.AnythingOfType("domain.JSONMap")).Return(nil)

	var delivered envelope.Envelope
	f.webhooks.On("Deliver", mock.Anything, merchant, "REQ-1", mock.AnythingOfType("envelope.Envelope")).
		Run(func(args mock.Arguments) { delivered = args.Get(3).(envelope.Envelope) }).
		Return(nil)

	err := f.handlers[domain.TaskInvoiceRegistration](context.Background(), &service.Task{
		Flag: domain.TaskInvoiceRegistration, RequestID: "REQ-1", Merchant: merchant, Body: body, PostProcessingID: 55,
	})

	require.NoError(t, err)
	require.NotNil(t, delivered)
	assert.Equal(t, domain.CodeOK, delivered.Code())
	assert.Equal(t, "L-12", delivered["ledgerNo"])
	assert.NotEmpty(t, delivered[signature.Field])
	f.postRepo.AssertExpectations(t)
}

func TestTaskHandlers_StatusCarriesLedgerCode(t *testing.T) {
	f := setupTaskHandlers()
	merchant := testMerchant()

	f.ledgers.On("Status", mock.Anything, merchant, mock.Anything).
		Return(&service.LedgerStatusOutput{Code: domain.CodeLedgerFunded, LedgerNo: "L-12"}, nil)
	var delivered envelope.Envelope
	f.webhooks.On("Deliver", mock.Anything, merchant, "REQ-2", mock.Anything).
		Run(func(args mock.Arguments) { delivered = args.Get(3).(envelope.Envelope) }).
		Return(nil)

	err := f.handlers[domain.TaskLedgerStatusCheck](context.Background(), &service.Task{
		Flag: domain.TaskLedgerStatusCheck, RequestID: "REQ-2", Merchant: merchant,
		Body: []byte(`{"requestId":"REQ-2","ledgerNo":"L-12"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CodeLedgerFunded, delivered.Code())
	f.postRepo.AssertNotCalled(t, "SetAPIResponse", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandlers_InvalidBodyIsDeliveredAsError(t *testing.T) {
	f := setupTaskHandlers()
	merchant := testMerchant()

	var delivered envelope.Envelope
	f.webhooks.On("Deliver", mock.Anything, merchant, "REQ-3", mock.Anything).
		Run(func(args mock.Arguments) { delivered = args.Get(3).(envelope.Envelope) }).
		Return(nil)

	err := f.handlers[domain.TaskInvoiceRegistration](context.Background(), &service.Task{
		Flag: domain.TaskInvoiceRegistration, RequestID: "REQ-3", Merchant: merchant,
		Body: []byte(`{"requestId":"REQ-3"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CodeBadRequest, delivered.Code())
	f.ledgers.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandlers_GSPVerification(t *testing.T) {
	f := setupTaskHandlers()
	f.gsp.On("VerifyInvoice", mock.Anything, service.GSPVerifyInput{EWBNo: "331008543210"}).Return(nil)

	err := f.handlers[domain.TaskGSPVerification](context.Background(), &service.Task{
		Flag: domain.TaskGSPVerification, Merchant: testMerchant(), Body: []byte(`{"ewbNo":"331008543210"}`),
	})

	require.NoError(t, err)
	f.webhooks.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerPool_RunsAndWaits(t *testing.T) {
	pool := service.NewWorkerPool(2, time.Second)
	var done int32

	for i := 0; i < 5; i++ {
		pool.Go("count", func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				return errors.New("missing deadline")
			}
			atomic.AddInt32(&done, 1)
			return nil
		})
	}
	pool.Go("panics", func(ctx context.Context) error { panic("boom") })
	pool.Wait()

	assert.Equal(t, int32(5), atomic.LoadInt32(&done))
}
