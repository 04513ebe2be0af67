package internal

import (
	"context"
	"fmt"
	"github.com/go-resty/resty/v2"
	"net/http"
	"paygate/services"
	"strings"
	"time"
)

var transportMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// HttpTransport sends encoded bodies with resty and decodes the responses through the codec.
type HttpTransport struct {
	client *resty.Client
	codec  services.Codec
}

// NewTransport creates a transport whose HTTP client has a timeout and connection pooling.
func NewTransport(timeout time.Duration, codec services.Codec) *HttpTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
		},
	}
	return &HttpTransport{
		client: resty.NewWithClient(httpClient),
		codec:  codec,
	}
}

func (t *HttpTransport) Fetch(ctx context.Context, request *services.TransportRequest) (map[string]any, error) {
	method := strings.ToUpper(request.Method)
	if !transportMethods[method] {
		return nil, &TransportError{Err: fmt.Errorf("unsupported method %q", request.Method)}
	}

	req := t.client.R().SetContext(ctx)
	if len(request.Body) > 0 && method != http.MethodGet {
		req.SetHeader("Content-Type", contentType(request.BodyEncoding))
		req.SetBody(request.Body)
	}
	req.SetHeaders(request.Headers)

	response, err := req.Execute(method, request.Url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TransportError{Err: fmt.Errorf("request timeout or cancelled: %w", ctx.Err())}
		}
		return nil, &TransportError{Err: err}
	}
	body := response.Body()
	if response.StatusCode() < 200 || response.StatusCode() >= 300 {
		return nil, &TransportError{Status: response.StatusCode(), Body: body}
	}

	switch request.ResponseEncoding {
	case services.EncodingXml:
		fields, err := t.codec.DecodeXml(body)
		if err != nil {
			return nil, &TransportError{Status: response.StatusCode(), Body: body, Err: err}
		}
		return fields.Map(), nil
	default:
		result, err := t.codec.DecodeJson(body)
		if err != nil {
			return nil, &TransportError{Status: response.StatusCode(), Body: body, Err: err}
		}
		return result, nil
	}
}

func contentType(encoding services.Encoding) string {
	if encoding == services.EncodingXml {
		return "application/xml"
	}
	return "application/json"
}
