package internal

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration       = errors.New("configuration error")
	ErrCryptoUnavailable   = errors.New("crypto primitive unavailable")
	ErrSignature           = errors.New("signature mismatch")
	ErrProtocol            = errors.New("protocol error")
	ErrTransport           = errors.New("transport error")
	ErrCertificateMismatch = errors.New("certificate mismatch")
	ErrExpired             = errors.New("request expired")
	ErrDecryption          = errors.New("decryption failed")
	ErrMissingPrepayId     = errors.New("missing prepay_id")
)

// BusinessError is a processor result_code failure.
type BusinessError struct {
	Code        string
	Description string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("%s:%s", e.Code, e.Description)
}

func (e *BusinessError) Unwrap() error {
	return ErrProtocol
}

// GatewayError is a processor-level failure: V2 return_code or a V3 error object.
type GatewayError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	text := e.Message
	if text == "" {
		text = "request failed"
	}
	if e.Code != "" {
		text = fmt.Sprintf("%s: %s", e.Code, text)
	}
	if e.Status != 0 {
		text = fmt.Sprintf("%s (status %d)", text, e.Status)
	}
	return "gateway: " + text
}

func (e *GatewayError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrProtocol, e.Err}
	}
	return []error{ErrProtocol}
}

// TransportError is a network failure or a non-2xx response.
type TransportError struct {
	Status int
	Body   []byte
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("transport: status %d: %s", e.Status, string(e.Body))
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// MissingFieldError names a required callback field or header that was absent.
type MissingFieldError struct {
	Name string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s", e.Name)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrProtocol
}

func configError(text string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, text)
}
