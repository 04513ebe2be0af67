package internal

import (
	"context"
	"fmt"
	"net/http"
	"paygate/config"
	"paygate/entity"
	"paygate/services"
	"time"
)

const (
	pathUnifiedOrder = "/pay/unifiedorder"
	pathJsapiPrepay  = "/v3/pay/transactions/jsapi"
	currencyCNY      = "CNY"
	tradeTypeJsapi   = "JSAPI"
)

// Payments binds the protocol client of one API generation: gateway, payer
// parameter signing and callback verification.
type Payments struct {
	apiVersion string
	merchant   entity.MerchantConfig
	notifyUrl  string
	gateway    services.Gateway
	builder    *PayParamsBuilder
	verifier   services.NotifyVerifier
	nonce      services.NonceSource
	database   services.Database
	logger     services.LogHandler
}

// NewPayments creates the payment service for the configured API version.
func NewPayments(conf *config.Config, transport services.Transport) (*Payments, error) {
	merchant := conf.MerchantConfig()
	if merchant.AppId == "" || merchant.MerchantId == "" {
		return nil, configError("merchant not configured")
	}

	codec := NewCodec()
	nonce := NewRandomNonce()
	payments := &Payments{
		apiVersion: conf.Merchant.ApiVersion,
		merchant:   merchant,
		notifyUrl:  conf.Merchant.NotifyUrl,
		nonce:      nonce,
	}

	switch conf.Merchant.ApiVersion {
	case config.ApiV2:
		if merchant.MerchantSecret == "" {
			return nil, configError("merchant secret not configured")
		}
		payments.gateway = NewGatewayV2(merchant, transport, codec)
		payments.builder = NewPayParamsBuilder(merchant.AppId, NewSignerV2(merchant.MerchantSecret), nonce)
		payments.verifier = NewNotifyV2(merchant, codec)
	case config.ApiV3:
		if merchant.CertificatePath == "" || merchant.CertificateSerial == "" {
			return nil, configError("merchant certificate not configured")
		}
		keys := NewKeyStore()
		signer := NewSignerV3(merchant, keys, nonce)
		payments.gateway = NewGatewayV3(merchant, signer, transport, codec)
		payments.builder = NewPayParamsBuilder(merchant.AppId, signer, nonce)
		payments.verifier = NewNotifyV3(merchant, NewPlatformVerifier(merchant.PlatformCertificatePath, keys), codec)
	default:
		return nil, configError(fmt.Sprintf("unknown api version %q", conf.Merchant.ApiVersion))
	}
	return payments, nil
}

func (p *Payments) SetDatabase(database services.Database) {
	p.database = database
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
	p.logger.Info(fmt.Sprintf("api %s enabled for merchant %s", p.apiVersion, secret(p.merchant.MerchantId)))
}

func (p *Payments) ApiVersion() string {
	return p.apiVersion
}

// Request performs an authenticated call against the gateway.
func (p *Payments) Request(ctx context.Context, path, method string, data map[string]any, headers map[string]string) (map[string]any, error) {
	return p.gateway.Request(ctx, path, method, data, headers)
}

// Prepay places a JSAPI order and returns the signed parameters for the payer.
func (p *Payments) Prepay(ctx context.Context, order *entity.PrepayOrder) (*entity.PayerParams, error) {
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("prepay: %w", err)
	}
	notifyUrl := order.NotifyUrl
	if notifyUrl == "" {
		notifyUrl = p.notifyUrl
	}

	var path string
	var data map[string]any
	if p.apiVersion == config.ApiV2 {
		path = pathUnifiedOrder
		data = map[string]any{
			"appid":            p.merchant.AppId,
			"mch_id":           p.merchant.MerchantId,
			"nonce_str":        p.nonce.RandomString(32),
			"body":             order.Description,
			"out_trade_no":     order.OutTradeNo,
			"total_fee":        order.Amount,
			"spbill_create_ip": order.ClientIp,
			"notify_url":       notifyUrl,
			"trade_type":       tradeTypeJsapi,
			"openid":           order.PayerOpenId,
		}
	} else {
		path = pathJsapiPrepay
		data = map[string]any{
			"appid":        p.merchant.AppId,
			"mchid":        p.merchant.MerchantId,
			"description":  order.Description,
			"out_trade_no": order.OutTradeNo,
			"notify_url":   notifyUrl,
			"amount": map[string]any{
				"total":    order.Amount,
				"currency": currencyCNY,
			},
			"payer": map[string]any{
				"openid": order.PayerOpenId,
			},
		}
	}

	p.debug(fmt.Sprintf("prepay order %s amount %d", order.OutTradeNo, order.Amount))
	result, err := p.gateway.Request(ctx, path, http.MethodPost, data, nil)
	if err != nil {
		return nil, fmt.Errorf("prepay order %s: %w", order.OutTradeNo, err)
	}
	params, err := p.builder.Build(entity.PrepayResult(result))
	if err != nil {
		return nil, fmt.Errorf("prepay order %s: %w", order.OutTradeNo, err)
	}
	return params, nil
}

// Notify authenticates a callback. A verified payload is stored for audit when a database is set;
// nothing is stored for a rejected one.
func (p *Payments) Notify(ctx context.Context, body []byte, headers entity.NotifyHeaders) (map[string]any, error) {
	payload, err := p.verifier.Open(body, headers)
	if err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}

	if p.database != nil {
		record := &entity.NotifyRecord{
			Time:       time.Now().UTC(),
			ApiVersion: p.apiVersion,
			RequestId:  GetRequestID(ctx),
			Payload:    payload,
		}
		if err = p.database.SaveNotifyRecord(ctx, record); err != nil && p.logger != nil {
			p.logger.Error("save notify record", err)
		}
	}
	return payload, nil
}

func (p *Payments) debug(text string) {
	if p.logger != nil {
		p.logger.Debug(text)
	}
}
