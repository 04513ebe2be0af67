package internal

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGatewayV3(t *testing.T, transport *fakeTransport) *GatewayV3 {
	t.Helper()
	signer, _ := newTestSigner(t)
	return NewGatewayV3(testMerchant(), signer, transport, NewCodec())
}

func TestGatewayV3SignsSentBody(t *testing.T) {
	transport := &fakeTransport{response: map[string]any{"prepay_id": "wx26112221580621e9b071c00d9e093b0000"}}
	gateway := newTestGatewayV3(t, transport)

	result, err := gateway.Request(context.Background(), "/v3/pay/transactions/jsapi", http.MethodPost, map[string]any{
		"description": "Image形象店",
		"amount":      map[string]any{"total": 100, "currency": "CNY"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "wx26112221580621e9b071c00d9e093b0000", result["prepay_id"])

	request := transport.requests[0]
	assert.Equal(t, "https://api.mch.weixin.qq.com/v3/pay/transactions/jsapi", request.Url)
	assert.JSONEq(t, `{"description":"Image形象店","amount":{"total":100,"currency":"CNY"}}`, string(request.Body))
	assert.Equal(t, v3ContentType, request.Headers["Content-Type"])
	assert.Equal(t, v3Accept, request.Headers["Accept"])
	assert.Regexp(t, authorizationPattern, request.Headers["Authorization"])
}

func TestGatewayV3DefaultHeadersWin(t *testing.T) {
	transport := &fakeTransport{response: map[string]any{}}
	gateway := newTestGatewayV3(t, transport)

	_, err := gateway.Request(context.Background(), "/v3/certificates", http.MethodGet, nil, map[string]string{
		"authorization":    "forged",
		"Wechatpay-Serial": "PLATFORM01",
	})
	require.NoError(t, err)

	headers := transport.requests[0].Headers
	assert.NotEqual(t, "forged", headers["Authorization"])
	assert.Equal(t, "PLATFORM01", headers["Wechatpay-Serial"])
	assert.Empty(t, transport.requests[0].Body)
}

func TestGatewayV3GetSignsQuery(t *testing.T) {
	transport := &fakeTransport{response: map[string]any{}}
	gateway := newTestGatewayV3(t, transport)

	signed, err := gateway.Sign("/v3/pay/transactions/out-trade-no/1217752501", "get", map[string]any{"mchid": "1900000109"})
	require.NoError(t, err)
	assert.Equal(t, "/v3/pay/transactions/out-trade-no/1217752501?mchid=1900000109", signed.Uri)
	assert.Equal(t, http.MethodGet, signed.Method)
	assert.Empty(t, signed.Body)
}

func TestGatewayV3ErrorObject(t *testing.T) {
	transport := &fakeTransport{response: map[string]any{"code": "PARAM_ERROR", "message": "invalid appid"}}
	gateway := newTestGatewayV3(t, transport)

	_, err := gateway.Request(context.Background(), "/v3/pay/transactions/jsapi", http.MethodPost, map[string]any{"a": 1}, nil)
	var gatewayErr *GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, "PARAM_ERROR", gatewayErr.Code)
	assert.Equal(t, "invalid appid", gatewayErr.Message)
}

func TestGatewayV3ErrorStatus(t *testing.T) {
	transport := &fakeTransport{err: &TransportError{
		Status: http.StatusBadRequest,
		Body:   []byte(`{"code":"INVALID_REQUEST","message":"order exists"}`),
	}}
	gateway := newTestGatewayV3(t, transport)

	_, err := gateway.Request(context.Background(), "/v3/pay/transactions/jsapi", http.MethodPost, map[string]any{"a": 1}, nil)
	var gatewayErr *GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, http.StatusBadRequest, gatewayErr.Status)
	assert.Equal(t, "INVALID_REQUEST", gatewayErr.Code)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, ErrProtocol)

	transport.err = &TransportError{Status: http.StatusBadGateway, Body: []byte("<html>bad gateway</html>")}
	_, err = gateway.Request(context.Background(), "/v3/pay/transactions/jsapi", http.MethodPost, map[string]any{"a": 1}, nil)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrProtocol)
}

func TestMergeHeaders(t *testing.T) {
	merged := mergeHeaders(map[string]string{"content-type": "a"}, map[string]string{"Content-Type": "b", "x-extra": "c"})
	assert.Equal(t, map[string]string{"Content-Type": "a", "X-Extra": "c"}, merged)
}
