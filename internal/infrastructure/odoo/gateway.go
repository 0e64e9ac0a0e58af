package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// maxResponseSize is the maximum allowed response size from the Odoo API
// (10MB).
const maxResponseSize = 10 * 1024 * 1024

// callKWPath is the generic model-method invocation endpoint.
const callKWPath = "/web/dataset/call_kw"

// Gateway implements the ERPGateway port against Odoo's JSON-RPC API.
// Find maps to search_read and the create calls to the model create method.
type Gateway struct {
	config     *Config
	httpClient *http.Client
	requestID  atomic.Int64
}

// NewGateway creates an Odoo gateway with the given configuration.
func NewGateway(config *Config) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Gateway{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Find looks up records whose field equals value via search_read, returning
// only the id field. Match order is whatever Odoo returns.
func (g *Gateway) Find(ctx context.Context, entity reconcile.Entity, field string, value any) ([]reconcile.Record, error) {
	domain := []any{[]any{field, "=", value}}
	result, err := g.callKW(ctx, entity.String(), "search_read", []any{domain, []string{"id"}})
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(result, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", reconcile.ErrGatewayInvalidResponse, err)
	}

	records := make([]reconcile.Record, 0, len(rows))
	for _, row := range rows {
		id, ok := numericID(row["id"])
		if !ok {
			return nil, fmt.Errorf("%w: record without numeric id", reconcile.ErrGatewayInvalidResponse)
		}
		records = append(records, reconcile.Record{ID: id, Fields: row})
	}
	return records, nil
}

// Create creates one record and returns its ID.
func (g *Gateway) Create(ctx context.Context, entity reconcile.Entity, values reconcile.Values) (int64, error) {
	result, err := g.callKW(ctx, entity.String(), "create", []any{encodeValues(values)})
	if err != nil {
		return 0, err
	}

	var id int64
	if err := json.Unmarshal(result, &id); err != nil {
		return 0, fmt.Errorf("%w: %v", reconcile.ErrGatewayInvalidResponse, err)
	}
	return id, nil
}

// CreateOrder creates one sales order and returns its ID.
func (g *Gateway) CreateOrder(ctx context.Context, values reconcile.Values) (int64, error) {
	return g.Create(ctx, reconcile.EntityOrder, values)
}

// callKW performs one JSON-RPC call_kw invocation and returns the raw result.
func (g *Gateway) callKW(ctx context.Context, model, method string, args []any) (json.RawMessage, error) {
	payload := RPCRequest{
		JSONRPC: "2.0",
		Method:  "call",
		ID:      g.requestID.Add(1),
		Params: RPCParams{
			Model:  model,
			Method: method,
			Args:   args,
			KWArgs: map[string]any{},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("odoo: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.BaseURL+callKWPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("odoo: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconcile.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("odoo: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", reconcile.ErrGatewayRequestFailed, resp.StatusCode)
	}

	var rpcResp RPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("%w: %v", reconcile.ErrGatewayInvalidResponse, err)
	}

	if !rpcResp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s %s: %s", reconcile.ErrGatewayErrorPayload, model, method, rpcResp.Error.Describe())
	}

	return rpcResp.Result, nil
}

// encodeValues converts domain values into JSON-safe types. Decimals are
// emitted as floats, which is what the Odoo API expects for monetary fields.
func encodeValues(values reconcile.Values) map[string]any {
	encoded := make(map[string]any, len(values))
	for key, value := range values {
		encoded[key] = encodeValue(value)
	}
	return encoded
}

func encodeValue(value any) any {
	switch v := value.(type) {
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	case reconcile.Values:
		return encodeValues(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = encodeValue(elem)
		}
		return out
	default:
		return value
	}
}

// numericID extracts an int64 identifier from a decoded JSON value.
func numericID(value any) (int64, bool) {
	f, ok := value.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// Ensure Gateway implements the ERPGateway port
var _ reconcile.ERPGateway = (*Gateway)(nil)
