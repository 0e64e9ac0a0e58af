package odoo

import "encoding/json"

// ---------------------------------------------------------------------------
// JSON-RPC Envelope Types
// ---------------------------------------------------------------------------

// RPCRequest is the JSON-RPC 2.0 request envelope for /web/dataset/call_kw.
type RPCRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  RPCParams `json:"params"`
	ID      int64     `json:"id,omitempty"`
}

// RPCParams carries the model method invocation.
type RPCParams struct {
	Model  string         `json:"model"`
	Method string         `json:"method"`
	Args   []any          `json:"args"`
	KWArgs map[string]any `json:"kwargs"`
}

// RPCResponse is the JSON-RPC 2.0 response envelope. An error member means
// the call failed at the application level even though HTTP succeeded.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// IsSuccess returns true if the response carries no error payload.
func (r *RPCResponse) IsSuccess() bool {
	return r.Error == nil
}

// RPCError is the error payload of a failed JSON-RPC call.
type RPCError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Data    *RPCErrorData `json:"data,omitempty"`
}

// RPCErrorData carries the server-side exception details.
type RPCErrorData struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
	Debug   string `json:"debug,omitempty"`
}

// Describe returns the most specific error text available.
func (e *RPCError) Describe() string {
	if e.Data != nil && e.Data.Message != "" {
		return e.Data.Message
	}
	return e.Message
}
