package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/config"
	"invoicefin/internal/domain"
	"invoicefin/internal/gspcrypt"
	"invoicefin/internal/port"
	"invoicefin/internal/service"
	"invoicefin/mocks"
)

type gspFixture struct {
	svc      service.GSPService
	users    *mocks.MockGSPUserRepo
	tasks    *mocks.MockVayanaTaskRepo
	invoices *mocks.MockInvoiceRepo
	vayana   *mocks.MockVayanaClient
	cygnet   *mocks.MockCygnetClient
	sessions *mocks.MockGSPSessionProvider
	storage  *mocks.MockObjectStorage
}

func setupGSPService(cfg config.GSPConfig) *gspFixture {
	f := &gspFixture{
		users:    new(mocks.MockGSPUserRepo),
		tasks:    new(mocks.MockVayanaTaskRepo),
		invoices: new(mocks.MockInvoiceRepo),
		vayana:   new(mocks.MockVayanaClient),
		cygnet:   new(mocks.MockCygnetClient),
		sessions: new(mocks.MockGSPSessionProvider),
		storage:  new(mocks.MockObjectStorage),
	}
	f.svc = service.NewGSPService(f.users, f.tasks, f.invoices, f.vayana, f.cygnet, f.sessions, f.storage, cfg)
	return f
}

var testSession = &domain.GSPSession{Token: "tok", OrgID: "org"}

func verifyInput() service.GSPVerifyInput {
	return service.GSPVerifyInput{SellerGST: sellerGSTIN, BuyerGST: buyerGSTIN, EWBNo: "331008543210"}
}

func ewbInvoice() *domain.Invoice {
	return &domain.Invoice{
		ID:          101,
		InvoiceNo:   "INV-1",
		InvoiceDate: day(2024, time.March, 15),
		ExtraData: domain.JSONMap{
			domain.EWBNoKey: "331008543210",
			"seller_gst":    sellerGSTIN,
			"buyer_gst":     buyerGSTIN,
		},
	}
}

func matchingDoc() *domain.EWBDocument {
	return &domain.EWBDocument{
		EWBNo:     "331008543210",
		DocNo:     "INV-1",
		DocDate:   "15/03/2024",
		FromGSTIN: sellerGSTIN,
		ToGSTIN:   buyerGSTIN,
	}
}

func TestGSPService_VerifyInvoice_NoUserMarksUnverified(t *testing.T) {
	f := setupGSPService(config.GSPConfig{})
	f.users.On("ListByGSTIN", mock.Anything, sellerGSTIN).Return([]domain.GSPUser{}, nil)
	f.users.On("ListByGSTIN", mock.Anything, buyerGSTIN).Return([]domain.GSPUser{}, nil)
	f.invoices.On("SetGSTStatusByEWB", mock.Anything, "331008543210", false).Return(nil)

	err := f.svc.VerifyInvoice(context.Background(), verifyInput())

	require.NoError(t, err)
	f.invoices.AssertExpectations(t)
}

func TestGSPService_VerifyInvoice_BuyerFallbackStartsVayanaTask(t *testing.T) {
	f := setupGSPService(config.GSPConfig{})
	user := domain.GSPUser{ID: 4, GSTIN: buyerGSTIN, GSP: domain.GSPVayana, Username: "buyer"}
	f.users.On("ListByGSTIN", mock.Anything, sellerGSTIN).Return([]domain.GSPUser{}, nil)
	f.users.On("ListByGSTIN", mock.Anything, buyerGSTIN).Return([]domain.GSPUser{user}, nil)
	f.sessions.On("Session", mock.Anything, &user).Return(testSession, nil)
	f.vayana.On("VerifyEWB", mock.Anything, testSession, "331008543210").Return("task-9", nil)
	f.vayana.On("TaskStatus", mock.Anything, testSession, "task-9").Return("pending", nil)
	f.tasks.On("CreateIfAbsent", mock.Anything, &domain.VayanaTask{TaskID: "task-9", UserID: 4, TaskIDStatus: "pending"}).Return(nil)

	err := f.svc.VerifyInvoice(context.Background(), verifyInput())

	require.NoError(t, err)
	f.tasks.AssertExpectations(t)
	f.vayana.AssertExpectations(t)
}

func TestGSPService_VerifyInvoice_PrefersConfiguredProvider(t *testing.T) {
	f := setupGSPService(config.GSPConfig{LowerGSPPriority: "cygnet"})
	users := []domain.GSPUser{
		{ID: 1, GSTIN: sellerGSTIN, GSP: domain.GSPVayana},
		{ID: 2, GSTIN: sellerGSTIN, GSP: domain.GSPCygnet, ExtraData: domain.JSONMap{
			"cygnet_ewaybill_token": "ctok",
			"cygnet_ewaybill_sek":   "csek",
		}},
	}
	f.users.On("ListByGSTIN", mock.Anything, sellerGSTIN).Return(users, nil)
	f.cygnet.On("EWBDetails", mock.Anything, port.CygnetEWBRequest{
		EWBNo: "331008543210", GSTIN: sellerGSTIN, AuthToken: "ctok", SEK: "csek",
	}).Return(matchingDoc(), nil)
	f.invoices.On("LatestByEWB", mock.Anything, "331008543210").Return(ewbInvoice(), nil)
	f.invoices.On("SetGSTStatus", mock.Anything, int64(101), true).Return(nil)

	err := f.svc.VerifyInvoice(context.Background(), verifyInput())

	require.NoError(t, err)
	f.invoices.AssertExpectations(t)
	f.vayana.AssertNotCalled(t, "VerifyEWB", mock.Anything, mock.Anything, mock.Anything)
}

func TestGSPService_VerifyInvoice_CygnetMismatchLeavesStatus(t *testing.T) {
	f := setupGSPService(config.GSPConfig{})
	user := domain.GSPUser{ID: 2, GSTIN: sellerGSTIN, GSP: domain.GSPCygnet, ExtraData: domain.JSONMap{
		"cygnet_ewaybill_token": "ctok",
		"cygnet_ewaybill_sek":   "csek",
	}}
	doc := matchingDoc()
	doc.DocNo = "INV-OTHER"
	f.users.On("ListByGSTIN", mock.Anything, sellerGSTIN).Return([]domain.GSPUser{user}, nil)
	f.cygnet.On("EWBDetails", mock.Anything, mock.Anything).Return(doc, nil)
	f.invoices.On("LatestByEWB", mock.Anything, "331008543210").Return(ewbInvoice(), nil)

	err := f.svc.VerifyInvoice(context.Background(), verifyInput())

	require.NoError(t, err)
	f.invoices.AssertNotCalled(t, "SetGSTStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestGSPService_VerifyInvoice_LookupError(t *testing.T) {
	f := setupGSPService(config.GSPConfig{})
	f.users.On("ListByGSTIN", mock.Anything, sellerGSTIN).Return(nil, errors.New("db down"))

	err := f.svc.VerifyInvoice(context.Background(), verifyInput())

	assert.Error(t, err)
}

func TestGSPService_PollStatus(t *testing.T) {
	f := setupGSPService(config.GSPConfig{})
	user := &domain.GSPUser{ID: 4, Username: "buyer"}
	f.tasks.On("ListPending", mock.Anything).Return([]domain.VayanaTask{
		{ID: 1, TaskID: "task-1", UserID: 4},
		{ID: 2, TaskID: "task-2", UserID: 4},
	}, nil)
	f.users.On("GetByID", mock.Anything, int64(4)).Return(user, nil)
	f.sessions.On("Session", mock.Anything, user).Return(testSession, nil)
	f.vayana.On("TaskStatus", mock.Anything, testSession, "task-1").Return("completed", nil)
	f.vayana.On("TaskStatus", mock.Anything, testSession, "task-2").Return("", errors.New("gateway timeout"))
	f.tasks.On("UpdateStatus", mock.Anything, int64(1), "completed").Return(nil)

	report, err := f.svc.PollStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, int64(2), report.Failures[0].ID)
}

func buildBatch(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestGSPService_DownloadResults(t *testing.T) {
	f := setupGSPService(config.GSPConfig{})
	user := &domain.GSPUser{ID: 4, Username: "buyer"}
	batch := buildBatch(t, map[string]string{
		"result.json":           `{"data":[{"additionalInfo":{"key":{"ewb-number":331008543210}}}]}`,
		"ewb/331008543210.json": `{"ewbNo":331008543210,"docNo":"INV-1","docDate":"15/03/2024","fromGstin":"` + sellerGSTIN + `","toGstin":"` + buyerGSTIN + `"}`,
		"ewb/broken.json":       `{not json`,
	})

	f.tasks.On("ListDownloadable", mock.Anything).Return([]domain.VayanaTask{{ID: 1, TaskID: "task-1", UserID: 4}}, nil)
	f.users.On("GetByID", mock.Anything, int64(4)).Return(user, nil)
	f.sessions.On("Session", mock.Anything, user).Return(testSession, nil)
	f.vayana.On("Download", mock.Anything, testSession, "task-1").Return(batch, nil)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Key == "gsp/vayana/task-1.zip" && in.ContentType == "application/zip" && in.Size == int64(len(batch))
	})).Return(&port.UploadOutput{Location: "s3://bucket/gsp/vayana/task-1.zip"}, nil)
	f.invoices.On("LatestByEWB", mock.Anything, "331008543210").Return(ewbInvoice(), nil)
	f.invoices.On("SetGSTStatus", mock.Anything, int64(101), true).Return(nil)
	f.tasks.On("MarkDownloaded", mock.Anything, int64(1)).Return(nil)

	report, err := f.svc.DownloadResults(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	assert.Empty(t, report.Failures)
	assert.Empty(t, report.Unmatched)
	f.storage.AssertExpectations(t)
	f.tasks.AssertExpectations(t)
}

func TestGSPService_DownloadResults_ReportsUnmatchedEntries(t *testing.T) {
	f := setupGSPService(config.GSPConfig{})
	user := &domain.GSPUser{ID: 4}
	batch := buildBatch(t, map[string]string{
		"result.json": `{"data":[` +
			`{"additionalInfo":{"key":{"ewb-number":331008543210}}},` +
			`{"additionalInfo":{"key":{"ewb-number":"331008549999"}}},` +
			`{"additionalInfo":{"key":{"ewb-number":331008540000}}}]}`,
		"ewb/331008543210.json": `{"ewbNo":331008543210,"docNo":"INV-1","docDate":"15/03/2024","fromGstin":"` + sellerGSTIN + `","toGstin":"` + buyerGSTIN + `"}`,
		"ewb/331008549999.json": `{"ewbNo":331008549999,"docNo":"INV-9","docDate":"15/03/2024","fromGstin":"` + sellerGSTIN + `","toGstin":"` + buyerGSTIN + `"}`,
	})

	f.tasks.On("ListDownloadable", mock.Anything).Return([]domain.VayanaTask{{ID: 1, TaskID: "task-1", UserID: 4}}, nil)
	f.users.On("GetByID", mock.Anything, int64(4)).Return(user, nil)
	f.sessions.On("Session", mock.Anything, user).Return(testSession, nil)
	f.vayana.On("Download", mock.Anything, testSession, "task-1").Return(batch, nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.invoices.On("LatestByEWB", mock.Anything, "331008543210").Return(ewbInvoice(), nil)
	f.invoices.On("LatestByEWB", mock.Anything, "331008549999").Return(nil, domain.ErrInvoiceNotFound)
	f.invoices.On("SetGSTStatus", mock.Anything, int64(101), true).Return(nil)
	f.tasks.On("MarkDownloaded", mock.Anything, int64(1)).Return(nil)

	report, err := f.svc.DownloadResults(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.ElementsMatch(t, []string{"331008549999", "331008540000"}, report.Unmatched)
	f.invoices.AssertNotCalled(t, "LatestByEWB", mock.Anything, "331008540000")
}

func TestGSPService_DownloadResults_StorageFailureIsNotFatal(t *testing.T) {
	f := setupGSPService(config.GSPConfig{})
	user := &domain.GSPUser{ID: 4}
	batch := buildBatch(t, map[string]string{"result.json": `{"data":[]}`})

	f.tasks.On("ListDownloadable", mock.Anything).Return([]domain.VayanaTask{{ID: 1, TaskID: "task-1", UserID: 4}}, nil)
	f.users.On("GetByID", mock.Anything, int64(4)).Return(user, nil)
	f.sessions.On("Session", mock.Anything, user).Return(testSession, nil)
	f.vayana.On("Download", mock.Anything, testSession, "task-1").Return(batch, nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))
	f.tasks.On("MarkDownloaded", mock.Anything, int64(1)).Return(nil)

	report, err := f.svc.DownloadResults(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Updated)
	assert.Empty(t, report.Failures)
	f.tasks.AssertCalled(t, "MarkDownloaded", mock.Anything, int64(1))
}

func TestGSPService_DownloadResults_CorruptBatch(t *testing.T) {
	f := setupGSPService(config.GSPConfig{})
	user := &domain.GSPUser{ID: 4}

	f.tasks.On("ListDownloadable", mock.Anything).Return([]domain.VayanaTask{{ID: 1, TaskID: "task-1", UserID: 4}}, nil)
	f.users.On("GetByID", mock.Anything, int64(4)).Return(user, nil)
	f.sessions.On("Session", mock.Anything, user).Return(testSession, nil)
	f.vayana.On("Download", mock.Anything, testSession, "task-1").Return([]byte("not a zip"), nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)

	report, err := f.svc.DownloadResults(context.Background())

	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	f.tasks.AssertNotCalled(t, "MarkDownloaded", mock.Anything, mock.Anything)
}

func TestGSPSessionProvider_CacheHit(t *testing.T) {
	client := new(mocks.MockVayanaClient)
	cache := new(mocks.MockKVStore)
	provider := service.NewGSPSessionProvider(client, cache, time.Hour)

	cache.On("Get", mock.Anything, "token@acme").Return("tok-1", nil)
	cache.On("Get", mock.Anything, "org_id@acme").Return("org-1", nil)

	session, err := provider.Session(context.Background(), &domain.GSPUser{ID: 1, Username: "acme"})

	require.NoError(t, err)
	assert.Equal(t, &domain.GSPSession{Token: "tok-1", OrgID: "org-1"}, session)
	client.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}

func TestGSPSessionProvider_CacheMissAuthenticates(t *testing.T) {
	client := new(mocks.MockVayanaClient)
	cache := new(mocks.MockKVStore)
	provider := service.NewGSPSessionProvider(client, cache, time.Hour)

	user := &domain.GSPUser{ID: 1, GSTIN: sellerGSTIN, MobileNumber: "9876543210", Username: "acme"}
	encrypted, err := gspcrypt.Encrypt(gspcrypt.DeriveKey(user.GSTIN, user.MobileNumber), "hunter2")
	require.NoError(t, err)
	user.Password = encrypted

	cache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	client.On("Authenticate", mock.Anything, "acme", "hunter2").
		Return(&domain.GSPSession{Token: "tok-2", OrgID: "org-2"}, nil)
	cache.On("Set", mock.Anything, "token@acme", "tok-2", time.Hour).Return(nil)
	cache.On("Set", mock.Anything, "org_id@acme", "org-2", time.Hour).Return(nil)

	session, err := provider.Session(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, "tok-2", session.Token)
	client.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGSPSessionProvider_BadPassword(t *testing.T) {
	client := new(mocks.MockVayanaClient)
	cache := new(mocks.MockKVStore)
	provider := service.NewGSPSessionProvider(client, cache, time.Hour)

	cache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)

	_, err := provider.Session(context.Background(), &domain.GSPUser{ID: 1, Username: "acme", Password: "not-base64!"})

	assert.Error(t, err)
	client.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}
