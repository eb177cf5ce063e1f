// Package envelope builds the signed response bodies shared by the HTTP
// handlers, the async task handlers and the merchant webhooks.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"invoicefin/internal/domain"
	"invoicefin/internal/signature"
)

// Envelope is a response body: requestId, code, message, result fields and,
// once signed, the signature.
type Envelope map[string]any

// New builds an unsigned envelope. fields must marshal to a JSON object or be nil.
func New(requestID string, code domain.Code, message string, fields any) (Envelope, error) {
	env := Envelope{}
	if fields != nil {
		raw, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("marshaling envelope fields: %w", err)
		}
		if !bytes.Equal(raw, []byte("null")) {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.UseNumber()
			if err := dec.Decode(&env); err != nil {
				return nil, fmt.Errorf("envelope fields must be an object: %w", err)
			}
		}
	}
	if message == "" {
		message = code.Message()
	}
	env["requestId"] = requestID
	env["code"] = int(code)
	env["message"] = message
	return env, nil
}

// ForResult builds the envelope of an operation outcome. A non-nil err sets
// code and message from the domain error; fields are kept either way.
func ForResult(requestID string, code domain.Code, fields any, err error) (Envelope, error) {
	if err == nil {
		return New(requestID, code, "", fields)
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return New(requestID, de.Code, de.Message, fields)
	}
	return New(requestID, domain.CodeInternal, "", fields)
}

// Sign sets the signature computed with secret. An empty secret leaves the
// envelope unsigned, which happens when the caller could not be identified.
func (e Envelope) Sign(secret string) (Envelope, error) {
	if secret == "" {
		return e, nil
	}
	sig, err := signature.Sign(e, secret)
	if err != nil {
		return nil, err
	}
	e[signature.Field] = sig
	return e, nil
}

// Code returns the result code stored in the envelope.
func (e Envelope) Code() domain.Code {
	if c, ok := e["code"].(int); ok {
		return domain.Code(c)
	}
	return 0
}
