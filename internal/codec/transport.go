package codec

import (
	"encoding/json"
	"fmt"
)

// Serialize encodes a proof payload for transit. The encoding is plain
// JSON with fixed field ordering; Deserialize(Serialize(p)) == p and
// Serialize(Deserialize(s)) == s for any s Serialize produced.
func Serialize(payload *ProofPayload) (string, error) {
	if payload == nil || payload.Proof == nil {
		return "", fmt.Errorf("nil proof payload")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Deserialize decodes a string previously produced by Serialize.
func Deserialize(s string) (*ProofPayload, error) {
	var payload ProofPayload
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		return nil, fmt.Errorf("malformed proof payload: %w", err)
	}
	if payload.Proof == nil {
		return nil, fmt.Errorf("proof payload missing proof")
	}
	return &payload, nil
}
