package odoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &Config{BaseURL: "https://erp.test", Database: "erp", APIKey: "key"},
			wantErr: nil,
		},
		{
			name:    "missing base url",
			config:  &Config{Database: "erp", APIKey: "key"},
			wantErr: ErrConfigMissingBaseURL,
		},
		{
			name:    "missing database",
			config:  &Config{BaseURL: "https://erp.test", APIKey: "key"},
			wantErr: ErrConfigMissingDatabase,
		},
		{
			name:    "missing api key",
			config:  &Config{BaseURL: "https://erp.test", Database: "erp"},
			wantErr: ErrConfigMissingAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.True(t, tt.config.TimeoutSeconds > 0)
			}
		})
	}
}

// newTestGateway starts a fake call_kw endpoint and returns a gateway
// pointed at it plus the captured requests.
func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gateway, err := NewGateway(NewConfig(server.URL, "erp", "secret-key"))
	require.NoError(t, err)
	return gateway
}

func rpcResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: "2.0", Result: raw})
}

func TestGateway_Find(t *testing.T) {
	var captured RPCRequest
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, callKWPath, r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		rpcResult(t, w, []map[string]any{{"id": 7}, {"id": 9}})
	})

	records, err := gateway.Find(context.Background(), reconcile.EntityCustomer, "email", "a@b.c")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(7), records[0].ID)
	assert.Equal(t, int64(9), records[1].ID)

	assert.Equal(t, "res.partner", captured.Params.Model)
	assert.Equal(t, "search_read", captured.Params.Method)
	// args = [[[field, "=", value]], ["id"]]
	domain := captured.Params.Args[0].([]any)[0].([]any)
	assert.Equal(t, []any{"email", "=", "a@b.c"}, domain)
}

func TestGateway_Find_Empty(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, []map[string]any{})
	})

	records, err := gateway.Find(context.Background(), reconcile.EntityOrder, "origin", "WC-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGateway_Create(t *testing.T) {
	var captured RPCRequest
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		rpcResult(t, w, 42)
	})

	values := reconcile.Values{
		"name":       "Tote Bag",
		"list_price": decimal.RequireFromString("7500.50"),
	}
	id, err := gateway.Create(context.Background(), reconcile.EntityProduct, values)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	assert.Equal(t, "product.product", captured.Params.Model)
	assert.Equal(t, "create", captured.Params.Method)
	sent := captured.Params.Args[0].(map[string]any)
	assert.Equal(t, "Tote Bag", sent["name"])
	// Decimals travel as JSON numbers.
	assert.InDelta(t, 7500.50, sent["list_price"].(float64), 0.001)
}

func TestGateway_CreateOrder(t *testing.T) {
	var captured RPCRequest
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		rpcResult(t, w, 314)
	})

	values := reconcile.Values{
		"origin": "WC-88",
		"order_line": []any{
			[]any{0, 0, reconcile.Values{"product_id": int64(5), "price_unit": decimal.NewFromInt(5000)}},
		},
	}
	id, err := gateway.CreateOrder(context.Background(), values)
	require.NoError(t, err)
	assert.Equal(t, int64(314), id)
	assert.Equal(t, "sale.order", captured.Params.Model)

	// Command triples survive encoding with nested values flattened.
	triple := captured.Params.Args[0].(map[string]any)["order_line"].([]any)[0].([]any)
	require.Len(t, triple, 3)
	line := triple[2].(map[string]any)
	assert.InDelta(t, 5000, line["price_unit"].(float64), 0.001)
}

func TestGateway_ErrorPayload(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RPCResponse{
			JSONRPC: "2.0",
			Error: &RPCError{
				Code:    200,
				Message: "Odoo Server Error",
				Data:    &RPCErrorData{Name: "odoo.exceptions.ValidationError", Message: "missing partner"},
			},
		})
	})

	id, err := gateway.Create(context.Background(), reconcile.EntityCustomer, reconcile.Values{})
	assert.ErrorIs(t, err, reconcile.ErrGatewayErrorPayload)
	assert.Contains(t, err.Error(), "missing partner")
	assert.Zero(t, id)
}

func TestGateway_HTTPError(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := gateway.Find(context.Background(), reconcile.EntityOrder, "origin", "WC-1")
	assert.ErrorIs(t, err, reconcile.ErrGatewayRequestFailed)
}

func TestGateway_TransportError(t *testing.T) {
	gateway, err := NewGateway(NewConfig("http://127.0.0.1:1", "erp", "key"))
	require.NoError(t, err)

	_, err = gateway.Find(context.Background(), reconcile.EntityOrder, "origin", "WC-1")
	assert.ErrorIs(t, err, reconcile.ErrGatewayUnavailable)
}

func TestGateway_MalformedResponse(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := gateway.Find(context.Background(), reconcile.EntityOrder, "origin", "WC-1")
	assert.ErrorIs(t, err, reconcile.ErrGatewayInvalidResponse)
}
