package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ConfigHash computes the sha256 hex digest of the canonical JSON form of a
// workload config block. Canonical means object keys sorted recursively and
// no insignificant whitespace, so that byte-identical configs always hash
// identically regardless of key order in the source file.
func ConfigHash(raw json.RawMessage) (string, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode workload config: %w", err)
	}
	// encoding/json marshals map keys in sorted order, which gives us the
	// canonical form for free once the config is decoded into generic maps.
	canonical, err := json.Marshal(decoded)
	if err != nil {
		return "", fmt.Errorf("canonicalize workload config: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
