// internal/gateway/token.go
//
// Token normalization for the auth endpoints. The external API has shipped
// several response shapes over time; ExtractToken accepts any of the known
// ones and returns a single canonical token string.

package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// tokenFields is the fixed priority order checked at the top level and then
// again under a nested "data" object.
var tokenFields = []string{"accessToken", "authToken", "token", "authorization"}

// ExtractToken pulls the access token out of an auth response body. It
// checks accessToken, authToken, token and authorization in that order, then
// the same names under "data". A 2xx body with no recognizable token is an
// error, never an empty success.
func ExtractToken(body []byte) (string, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("gateway: decode auth response: %w", err)
	}
	if token := firstTokenField(payload); token != "" {
		return token, nil
	}
	if raw, ok := payload["data"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			if token := firstTokenField(nested); token != "" {
				return token, nil
			}
		}
	}
	return "", fmt.Errorf("gateway: no access token in auth response")
}

func firstTokenField(payload map[string]json.RawMessage) string {
	for _, field := range tokenFields {
		raw, ok := payload[field]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
