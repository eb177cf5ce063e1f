// Package signature computes the payload signatures that bind requests,
// responses and ledger hashes to a merchant or hub secret.
//
// A payload signature is sha256(canonical JSON + secret) in lowercase hex.
// The canonical form drops the top level "signature" key, sorts object keys,
// has no insignificant whitespace, keeps numbers as they were received and
// does not escape HTML characters.
package signature

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field is the payload key holding the signature itself.
const Field = "signature"

// Canonical returns the canonical serialization of payload without its signature.
func Canonical(payload map[string]any) ([]byte, error) {
	stripped := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == Field {
			continue
		}
		stripped[k] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(stripped); err != nil {
		return nil, fmt.Errorf("canonical payload: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Sign returns the signature of payload under secret.
func Sign(payload map[string]any, secret string) (string, error) {
	canon, err := Canonical(payload)
	if err != nil {
		return "", err
	}
	return SignString(string(canon), secret), nil
}

// SignString hashes data concatenated with secret.
func SignString(data, secret string) string {
	sum := sha256.Sum256([]byte(data + secret))
	return hex.EncodeToString(sum[:])
}

// LedgerHash hashes invoice ids joined by "|" in the given order.
func LedgerHash(invoiceIDs []int64, secret string) string {
	parts := make([]string, len(invoiceIDs))
	for i, id := range invoiceIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return SignString(strings.Join(parts, "|"), secret)
}

// HubSignature is the signature a hub sends with its callbacks.
func HubSignature(txnCode, correlationID, hubSecret string) string {
	return SignString(txnCode+correlationID, hubSecret)
}

// Equal compares two hex signatures in constant time.
func Equal(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(a)), []byte(strings.ToLower(b))) == 1
}

// Decode parses a JSON payload into a map, keeping numbers as json.Number so
// that re-serialization reproduces the received digits.
func Decode(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("decoding payload: expected a JSON object")
	}
	return payload, nil
}
