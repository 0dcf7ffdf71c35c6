package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(srv *httptest.Server) *FunctionsClient {
	return &FunctionsClient{
		BaseURL:    srv.URL,
		APIKey:     "anon-key",
		HTTPClient: srv.Client(),
		Logger:     zap.NewNop(),
	}
}

func TestFunctionsClient_CreateCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/functions/v1/create-checkout", r.URL.Path)
		assert.Equal(t, "Bearer user-jwt", r.Header.Get("Authorization"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"success_url":"https://app/ok"`)
		_, _ = w.Write([]byte(`{"url":"https://checkout.stripe.com/c/pay/cs_test"}`))
	}))
	defer srv.Close()

	url, err := newTestClient(srv).CreateCheckout(context.Background(), "user-jwt", CheckoutRequest{
		SuccessURL: "https://app/ok",
		CancelURL:  "https://app/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test", url)
}

func TestFunctionsClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errPart string
	}{
		{name: "non 200", status: http.StatusInternalServerError, body: `boom`, errPart: "status 500"},
		{name: "function error field", status: http.StatusOK, body: `{"error":"no customer"}`, errPart: "no customer"},
		{name: "missing url", status: http.StatusOK, body: `{}`, errPart: "returned no url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv).CreatePortal(context.Background(), "jwt", PortalRequest{ReturnURL: "https://app"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}
