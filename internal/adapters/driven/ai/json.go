package ai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// jsonObject validates model output as a single JSON object. A surrounding
// markdown code fence is tolerated.
func jsonObject(text string) (json.RawMessage, error) {
	b := bytes.TrimSpace([]byte(text))
	if bytes.HasPrefix(b, []byte("```")) {
		b = bytes.TrimPrefix(b, []byte("```json"))
		b = bytes.TrimPrefix(b, []byte("```"))
		b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
		b = bytes.TrimSpace(b)
	}

	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty output", domain.ErrMalformedResponse)
	}
	if b[0] != '{' || !json.Valid(b) {
		return nil, fmt.Errorf("%w: output is not a JSON object", domain.ErrMalformedResponse)
	}
	return json.RawMessage(b), nil
}
