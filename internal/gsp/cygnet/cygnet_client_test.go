package cygnet_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/config"
	"invoicefin/internal/domain"
	"invoicefin/internal/gsp/cygnet"
	"invoicefin/internal/port"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *cygnet.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return cygnet.NewClientWithEndpoint(&config.GSPProviderConfig{TimeoutSecs: 5}, srv.URL)
}

var lookup = port.CygnetEWBRequest{EWBNo: "331000123456", GSTIN: "29AAACB1234C1Z5", AuthToken: "t", SEK: "s"}

func TestEWBDetails_StringEncodedData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "331000123456", body.Data["ewbNo"])
		assert.Equal(t, "29AAACB1234C1Z5", body.Data["gstin"])
		assert.Equal(t, "t", body.Data["authtoken"])
		assert.Equal(t, "s", body.Data["sek"])

		inner := `{"ewbNo":331000123456,"docNo":"INV-1","docDate":"01/01/2024","fromGstin":"29AAACB1234C1Z5","toGstin":"27AAACX9999Q1Z2"}`
		out, _ := json.Marshal(map[string]string{"data": inner})
		_, _ = w.Write(out)
	})

	doc, err := c.EWBDetails(context.Background(), lookup)
	require.NoError(t, err)
	assert.Equal(t, domain.FlexString("331000123456"), doc.EWBNo)
	assert.Equal(t, "INV-1", doc.DocNo)
	assert.Equal(t, "01/01/2024", doc.DocDate)
	assert.Equal(t, "29AAACB1234C1Z5", doc.FromGSTIN)
	assert.Equal(t, "27AAACX9999Q1Z2", doc.ToGSTIN)
}

func TestEWBDetails_ObjectData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"ewbNo":"1","docNo":"INV-2"}}`))
	})

	doc, err := c.EWBDetails(context.Background(), lookup)
	require.NoError(t, err)
	assert.Equal(t, "INV-2", doc.DocNo)
}

func TestEWBDetails_EmptyData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":"","error":"invalid ewb"}`))
	})

	_, err := c.EWBDetails(context.Background(), lookup)
	assert.ErrorIs(t, err, domain.ErrProviderResponse)
}

func TestEWBDetails_Non200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.EWBDetails(context.Background(), lookup)
	assert.ErrorIs(t, err, domain.ErrProviderResponse)
}
