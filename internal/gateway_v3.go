package internal

import (
	"context"
	"errors"
	"net/http"
	"paygate/entity"
	"paygate/services"
	"strings"
)

const (
	v3Accept      = "application/json, text/plain, application/x-gzip"
	v3ContentType = "application/json; charset=utf-8"
	v3UserAgent   = "paygate/1.0"
)

// GatewayV3 talks to the JSON API with RSA signed Authorization headers.
type GatewayV3 struct {
	baseUrl   string
	signer    *SignerV3
	codec     services.Codec
	transport services.Transport
}

func NewGatewayV3(conf entity.MerchantConfig, signer *SignerV3, transport services.Transport, codec services.Codec) *GatewayV3 {
	return &GatewayV3{
		baseUrl:   strings.TrimRight(conf.GatewayUrl, "/"),
		signer:    signer,
		codec:     codec,
		transport: transport,
	}
}

// Sign encodes the body and signs the exact bytes that will be sent.
// GET data becomes part of the signed uri as a query string.
func (g *GatewayV3) Sign(path, method string, data map[string]any) (*entity.SignedRequest, error) {
	method = strings.ToUpper(method)
	uri := path
	var body []byte
	if method == http.MethodGet {
		uri = appendQuery(path, data)
	} else if len(data) > 0 {
		var err error
		if body, err = g.codec.EncodeJson(data); err != nil {
			return nil, err
		}
	}
	return g.signer.SignRequest(method, uri, body)
}

func (g *GatewayV3) Request(ctx context.Context, path, method string, data map[string]any, headers map[string]string) (map[string]any, error) {
	signed, err := g.Sign(path, method, data)
	if err != nil {
		return nil, err
	}

	defaults := map[string]string{
		"Authorization": signed.Authorization,
		"Accept":        v3Accept,
		"Content-Type":  v3ContentType,
		"User-Agent":    v3UserAgent,
	}

	result, err := g.transport.Fetch(ctx, &services.TransportRequest{
		Method:           signed.Method,
		Url:              g.baseUrl + signed.Uri,
		Body:             signed.Body,
		Headers:          mergeHeaders(defaults, headers),
		BodyEncoding:     services.EncodingJson,
		ResponseEncoding: services.EncodingJson,
	})
	if err != nil {
		var transportErr *TransportError
		if errors.As(err, &transportErr) && transportErr.Status != 0 {
			if gatewayErr := g.errorResponse(transportErr); gatewayErr != nil {
				return nil, gatewayErr
			}
		}
		return nil, err
	}

	if _, ok := result["code"]; ok {
		return nil, &GatewayError{
			Code:    stringOf(result, "code"),
			Message: stringOf(result, "message"),
		}
	}
	return result, nil
}

// errorResponse reads a {code, message} object out of a non-2xx response body.
func (g *GatewayV3) errorResponse(transportErr *TransportError) error {
	result, err := g.codec.DecodeJson(transportErr.Body)
	if err != nil {
		return nil
	}
	if _, ok := result["code"]; !ok {
		return nil
	}
	return &GatewayError{
		Status:  transportErr.Status,
		Code:    stringOf(result, "code"),
		Message: stringOf(result, "message"),
		Err:     transportErr,
	}
}

// mergeHeaders adds extra headers after the defaults; a default is never replaced.
func mergeHeaders(defaults, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(extra))
	for key, value := range defaults {
		merged[http.CanonicalHeaderKey(key)] = value
	}
	for key, value := range extra {
		canonical := http.CanonicalHeaderKey(key)
		if _, exists := merged[canonical]; exists {
			continue
		}
		merged[canonical] = value
	}
	return merged
}
