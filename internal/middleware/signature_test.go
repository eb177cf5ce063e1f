package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/domain"
	"invoicefin/internal/middleware"
	"invoicefin/internal/service"
	"invoicefin/internal/signature"
	"invoicefin/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testMerchant() *domain.Merchant {
	return &domain.Merchant{ID: 7, MerchantKey: "mk-7", MerchantSecret: "s3cret"}
}

func setupMerchantRouter(sigs service.SignatureService, logs service.RequestLogService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/api/v1/ledgers", middleware.MerchantSignature(sigs), middleware.RequestLog(logs), func(c *gin.Context) {
		merchant, _ := middleware.GetMerchant(c)
		c.JSON(http.StatusOK, gin.H{
			"requestId":  middleware.GetRequestID(c),
			"merchantId": merchant.ID,
			"bodyBytes":  len(middleware.GetRawBody(c)),
		})
	})
	return r
}

func postJSON(r *gin.Engine, path string, headers map[string]string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out, err := signature.Decode(w.Body.Bytes())
	require.NoError(t, err)
	return out
}

const merchantBody = `{"requestId":"REQ-1","ledgerNo":"L-12","signature":"abc"}`

func TestMerchantSignature_AuthenticatesAndLogs(t *testing.T) {
	sigs := new(mocks.MockSignatureService)
	logs := new(mocks.MockRequestLogService)
	merchant := testMerchant()

	sigs.On("VerifyMerchant", mock.Anything, "mk-7", mock.MatchedBy(func(p map[string]any) bool {
		return p["requestId"] == "REQ-1" && p["ledgerNo"] == "L-12"
	})).Return(merchant, nil)
	logs.On("Begin", mock.Anything, mock.MatchedBy(func(e *domain.RequestLog) bool {
		return e.RequestID == "REQ-1" && e.MerchantID == "7" && e.APIURL == "/api/v1/ledgers" && e.RequestData["ledgerNo"] == "L-12"
	})).Return(nil)
	logs.On("Complete", mock.Anything, "REQ-1", mock.MatchedBy(func(resp domain.JSONMap) bool {
		return resp["requestId"] == "REQ-1"
	})).Return()

	w := postJSON(setupMerchantRouter(sigs, logs), "/api/v1/ledgers", map[string]string{middleware.HeaderMerchantKey: "mk-7"}, merchantBody)

	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, json.Number("7"), out["merchantId"])
	assert.Equal(t, json.Number("57"), out["bodyBytes"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	sigs.AssertExpectations(t)
	logs.AssertExpectations(t)
}

func TestMerchantSignature_MismatchIsSignedWithMerchantSecret(t *testing.T) {
	sigs := new(mocks.MockSignatureService)
	logs := new(mocks.MockRequestLogService)
	merchant := testMerchant()

	sigs.On("VerifyMerchant", mock.Anything, "mk-7", mock.Anything).Return(merchant, domain.ErrSignatureMismatch)

	w := postJSON(setupMerchantRouter(sigs, logs), "/api/v1/ledgers", map[string]string{middleware.HeaderMerchantKey: "mk-7"}, merchantBody)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	out := decode(t, w)
	assert.Equal(t, json.Number("1001"), out["code"])
	assert.Equal(t, "REQ-1", out["requestId"])
	expected, err := signature.Sign(out, merchant.MerchantSecret)
	require.NoError(t, err)
	assert.Equal(t, expected, out[signature.Field])
	logs.AssertNotCalled(t, "Begin", mock.Anything, mock.Anything)
}

func TestMerchantSignature_UnknownMerchantIsUnsigned(t *testing.T) {
	sigs := new(mocks.MockSignatureService)
	logs := new(mocks.MockRequestLogService)

	sigs.On("VerifyMerchant", mock.Anything, "", mock.Anything).Return(nil, domain.ErrMerchantNotFound)

	w := postJSON(setupMerchantRouter(sigs, logs), "/api/v1/ledgers", nil, merchantBody)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	out := decode(t, w)
	assert.Equal(t, json.Number("1002"), out["code"])
	assert.NotContains(t, out, signature.Field)
}

func TestMerchantSignature_MalformedBody(t *testing.T) {
	sigs := new(mocks.MockSignatureService)
	logs := new(mocks.MockRequestLogService)

	w := postJSON(setupMerchantRouter(sigs, logs), "/api/v1/ledgers", nil, `{"requestId":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	sigs.AssertNotCalled(t, "VerifyMerchant", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestLog_DuplicateRequestID(t *testing.T) {
	sigs := new(mocks.MockSignatureService)
	logs := new(mocks.MockRequestLogService)
	merchant := testMerchant()

	sigs.On("VerifyMerchant", mock.Anything, "mk-7", mock.Anything).Return(merchant, nil)
	logs.On("Begin", mock.Anything, mock.Anything).Return(domain.ErrDuplicateRequestID)

	w := postJSON(setupMerchantRouter(sigs, logs), "/api/v1/ledgers", map[string]string{middleware.HeaderMerchantKey: "mk-7"}, merchantBody)

	assert.Equal(t, http.StatusConflict, w.Code)
	out := decode(t, w)
	assert.Equal(t, json.Number("1009"), out["code"])
	assert.NotEmpty(t, out[signature.Field])
	logs.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func setupHubRouter(sigs service.SignatureService, hubLogs service.RequestLogService) *gin.Engine {
	r := gin.New()
	r.POST("/api/v1/hub/financing", middleware.HubSignature(sigs, hubLogs), func(c *gin.Context) {
		req, _ := middleware.GetHubRequest(c)
		hub, _ := middleware.GetHub(c)
		merchant, _ := middleware.GetMerchant(c)
		c.JSON(http.StatusOK, gin.H{"txnCode": req.TxnCode, "hubId": hub.ID, "merchantId": merchant.ID})
	})
	return r
}

const hubBody = `{"requestId":"H-1","txnCode":"TXN-1","correlationId":"C-1","signature":"sig",` +
	`"encryptData":{"merchantUniqueId":"ACME-01","data":{"ledgerNo":"L-12"}}}`

func TestHubSignature_Success(t *testing.T) {
	sigs := new(mocks.MockSignatureService)
	hubLogs := new(mocks.MockRequestLogService)
	hub := &domain.Hub{ID: 3, HubSecret: "hub-secret"}
	merchant := testMerchant()

	sigs.On("VerifyHub", mock.Anything, "hk", mock.MatchedBy(func(r *service.HubRequest) bool {
		return r.TxnCode == "TXN-1" && r.CorrelationID == "C-1" && r.EncryptData.Data["ledgerNo"] == "L-12"
	})).Return(hub, nil)
	sigs.On("HubMerchant", mock.Anything, hub, "ACME-01").Return(merchant, nil)
	hubLogs.On("Begin", mock.Anything, mock.MatchedBy(func(e *domain.RequestLog) bool {
		return e.RequestID == "H-1" && e.HubID == "3" && e.MerchantID == "7"
	})).Return(nil)
	hubLogs.On("Complete", mock.Anything, "H-1", mock.Anything).Return()

	w := postJSON(setupHubRouter(sigs, hubLogs), "/api/v1/hub/financing", map[string]string{middleware.HeaderHubKey: "hk"}, hubBody)

	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, "TXN-1", out["txnCode"])
	assert.Equal(t, json.Number("3"), out["hubId"])
	hubLogs.AssertExpectations(t)
}

func TestHubSignature_MissingFields(t *testing.T) {
	sigs := new(mocks.MockSignatureService)
	hubLogs := new(mocks.MockRequestLogService)

	w := postJSON(setupHubRouter(sigs, hubLogs), "/api/v1/hub/financing", map[string]string{middleware.HeaderHubKey: "hk"},
		`{"requestId":"H-1","signature":"sig"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	sigs.AssertNotCalled(t, "VerifyHub", mock.Anything, mock.Anything, mock.Anything)
}

func TestHubSignature_DuplicateRequest(t *testing.T) {
	sigs := new(mocks.MockSignatureService)
	hubLogs := new(mocks.MockRequestLogService)
	hub := &domain.Hub{ID: 3, HubSecret: "hub-secret"}

	sigs.On("VerifyHub", mock.Anything, "hk", mock.Anything).Return(hub, nil)
	sigs.On("HubMerchant", mock.Anything, hub, "ACME-01").Return(testMerchant(), nil)
	hubLogs.On("Begin", mock.Anything, mock.Anything).Return(domain.ErrDuplicateHubRequestID)

	w := postJSON(setupHubRouter(sigs, hubLogs), "/api/v1/hub/financing", map[string]string{middleware.HeaderHubKey: "hk"}, hubBody)

	assert.Equal(t, http.StatusConflict, w.Code)
	out := decode(t, w)
	assert.Equal(t, json.Number("1070"), out["code"])
	expected, err := signature.Sign(out, hub.HubSecret)
	require.NoError(t, err)
	assert.Equal(t, expected, out[signature.Field])
}

func TestHubSignature_UnknownMerchant(t *testing.T) {
	sigs := new(mocks.MockSignatureService)
	hubLogs := new(mocks.MockRequestLogService)
	hub := &domain.Hub{ID: 3, HubSecret: "hub-secret"}

	sigs.On("VerifyHub", mock.Anything, "hk", mock.Anything).Return(hub, nil)
	sigs.On("HubMerchant", mock.Anything, hub, "ACME-01").Return(nil, domain.ErrMerchantNotFound)

	w := postJSON(setupHubRouter(sigs, hubLogs), "/api/v1/hub/financing", map[string]string{middleware.HeaderHubKey: "hk"}, hubBody)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	hubLogs.AssertNotCalled(t, "Begin", mock.Anything, mock.Anything)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code domain.Code
		want int
	}{
		{domain.CodeOK, http.StatusOK},
		{domain.CodeLedgerNotFunded, http.StatusOK},
		{domain.CodeFinancingAccepted, http.StatusOK},
		{domain.CodeSignatureMismatch, http.StatusUnauthorized},
		{domain.CodeMerchantNotFound, http.StatusUnauthorized},
		{domain.CodeLedgerNotFound, http.StatusNotFound},
		{domain.CodeGroupingNotFound, http.StatusNotFound},
		{domain.CodeDuplicateLedger, http.StatusConflict},
		{domain.CodeDuplicateRequestID, http.StatusConflict},
		{domain.CodeInternal, http.StatusInternalServerError},
		{domain.CodeInvoiceDateInFuture, http.StatusBadRequest},
		{domain.CodeBadRequest, http.StatusBadRequest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, middleware.StatusFor(tt.code), "code %d", tt.code)
	}
}
