package internal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"paygate/entity"
	"paygate/services"
	"strings"
)

const resultSuccess = "SUCCESS"

// GatewayV2 talks to the legacy XML API; every request carries an MD5 sign field.
type GatewayV2 struct {
	baseUrl   string
	signer    *SignerV2
	codec     services.Codec
	transport services.Transport
}

func NewGatewayV2(conf entity.MerchantConfig, transport services.Transport, codec services.Codec) *GatewayV2 {
	return &GatewayV2{
		baseUrl:   strings.TrimRight(conf.GatewayUrl, "/"),
		signer:    NewSignerV2(conf.MerchantSecret),
		codec:     codec,
		transport: transport,
	}
}

// Sign stringifies the data and attaches the sign field.
func (g *GatewayV2) Sign(path, method string, data map[string]any) (*entity.SignedRequest, error) {
	if g.signer.secret == "" {
		return nil, configError("merchant secret not configured")
	}
	fields := entity.FieldsOf(data)
	signature := g.signer.Sign(fields)
	fields[signField] = signature
	return &entity.SignedRequest{
		Uri:       path,
		Method:    strings.ToUpper(method),
		Fields:    fields,
		Signature: signature,
	}, nil
}

func (g *GatewayV2) Request(ctx context.Context, path, method string, data map[string]any, headers map[string]string) (map[string]any, error) {
	signed, err := g.Sign(path, method, data)
	if err != nil {
		return nil, err
	}

	requestUrl := g.baseUrl + path
	var body []byte
	if signed.Method == http.MethodGet {
		requestUrl = appendQuery(requestUrl, signed.Fields.Map())
	} else {
		body, err = g.codec.EncodeXml(signed.Fields)
		if err != nil {
			return nil, err
		}
	}

	result, err := g.transport.Fetch(ctx, &services.TransportRequest{
		Method:           signed.Method,
		Url:              requestUrl,
		Body:             body,
		Headers:          headers,
		BodyEncoding:     services.EncodingXml,
		ResponseEncoding: services.EncodingXml,
	})
	if err != nil {
		return nil, err
	}

	if stringOf(result, "return_code") != resultSuccess {
		return nil, &GatewayError{
			Code:    stringOf(result, "return_code"),
			Message: stringOf(result, "return_msg"),
		}
	}
	if stringOf(result, "result_code") != resultSuccess {
		return nil, &BusinessError{
			Code:        stringOf(result, "err_code"),
			Description: stringOf(result, "err_code_des"),
		}
	}
	return result, nil
}

func stringOf(m map[string]any, key string) string {
	value, ok := m[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// appendQuery adds the values as a sorted query string.
func appendQuery(rawUrl string, data map[string]any) string {
	if len(data) == 0 {
		return rawUrl
	}
	values := url.Values{}
	for key, value := range entity.FieldsOf(data) {
		values.Set(key, value)
	}
	separator := "?"
	if strings.Contains(rawUrl, "?") {
		separator = "&"
	}
	return rawUrl + separator + values.Encode()
}
