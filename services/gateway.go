package services

import (
	"context"
	"paygate/entity"
)

type Encoding string

const (
	EncodingJson Encoding = "json"
	EncodingXml  Encoding = "xml"
)

// TransportRequest is an already encoded request; the body bytes are sent unchanged.
type TransportRequest struct {
	Method           string
	Url              string
	Body             []byte
	Headers          map[string]string
	BodyEncoding     Encoding
	ResponseEncoding Encoding
}

// Transport performs HTTP requests and decodes the response body.
type Transport interface {
	Fetch(ctx context.Context, request *TransportRequest) (map[string]any, error)
}

// Codec converts flat mappings to XML and arbitrary values to JSON.
type Codec interface {
	EncodeXml(fields entity.Fields) ([]byte, error)
	DecodeXml(data []byte) (entity.Fields, error)
	EncodeJson(value any) ([]byte, error)
	DecodeJson(data []byte) (map[string]any, error)
}

// NonceSource produces random alphanumeric strings.
type NonceSource interface {
	RandomString(length int) string
}

// Gateway performs an authenticated request/response cycle against one API generation.
type Gateway interface {
	Request(ctx context.Context, path, method string, data map[string]any, headers map[string]string) (map[string]any, error)
}

// PaySigner signs the payer-facing parameter set.
type PaySigner interface {
	SignType() string
	PaySign(appId, timestamp, nonce, pkg string) (string, error)
	NonceLength() int
}

// SignatureVerifier checks a processor signature over a message.
type SignatureVerifier interface {
	Verify(message []byte, signature string) error
}

// NotifyVerifier authenticates a raw callback and returns its payload.
type NotifyVerifier interface {
	Open(body []byte, headers entity.NotifyHeaders) (map[string]any, error)
}
