package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Extension map keys shared by registration, funding and GSP verification.
const (
	SellerIdentifierKey    = "sellerIdentifierData"
	BuyerIdentifierKey     = "buyerIdentifierData"
	FinancierHistoryKey    = "financierHistory"
	FinancierMerchantIDKey = "financierMerchantId"
	EWBNoKey               = "ewb_no"
	CancellationMessageKey = "cancellationMessage"
	GroupingIDKey          = "groupingId"
)

// JSONMap is a JSONB object column.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(m))
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if raw == nil {
		*m = JSONMap{}
		return nil
	}
	out := JSONMap{}
	if err := decodeJSON(raw, &out); err != nil {
		return fmt.Errorf("scanning JSONMap: %w", err)
	}
	*m = out
	return nil
}

// String returns the string stored under key, or "".
func (m JSONMap) String(key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64, int, int64:
		return fmt.Sprint(v)
	}
	return ""
}

// IdentifierNo returns the first identifier number of the given type from the
// identifier array stored under key. prefix is "seller" or "buyer", matching
// the sellerIdType/sellerIdNo field naming.
func (m JSONMap) IdentifierNo(key, prefix, idType string) string {
	list, _ := m[key].([]any)
	return JSONList(list).IdentifierNo(prefix, idType)
}

// JSONList is a JSONB array column.
type JSONList []any

// Value implements driver.Valuer.
func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]any(l))
}

// Scan implements sql.Scanner.
func (l *JSONList) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if raw == nil || bytes.Equal(raw, []byte("null")) {
		*l = JSONList{}
		return nil
	}
	var out []any
	if err := decodeJSON(raw, &out); err != nil {
		return fmt.Errorf("scanning JSONList: %w", err)
	}
	*l = out
	return nil
}

// IdentifierNo returns the first <prefix>IdNo whose <prefix>IdType equals idType.
func (l JSONList) IdentifierNo(prefix, idType string) string {
	for _, item := range l {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := entry[prefix+"IdType"].(string); t != idType {
			continue
		}
		if no, _ := entry[prefix+"IdNo"].(string); no != "" {
			return no
		}
	}
	return ""
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON source type %T", src)
	}
}

func decodeJSON(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}
