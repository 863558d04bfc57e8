package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Distinguished session-protocol status codes. These are literal values
// agreed with the remote API and appear both as transport statuses and at
// the envelope level.
const (
	CodeUnauthenticated = http.StatusUnauthorized // authenticate first
	CodeSessionExpired  = 419                     // access token stale, refresh then retry
	codeOK              = http.StatusOK
)

// Envelope is the fixed response shape of every remote API endpoint.
// Data may only be trusted when the transport status, Success and
// StatusCode all agree.
type Envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("envelope has no data")
	}
	if err := jsonCodec.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}
	return nil
}
