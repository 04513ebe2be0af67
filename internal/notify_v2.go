package internal

import (
	"crypto/subtle"
	"fmt"
	"paygate/entity"
	"paygate/services"
)

// NotifyV2 validates legacy XML callbacks by recomputing their MD5 signature.
type NotifyV2 struct {
	signer *SignerV2
	codec  services.Codec
}

func NewNotifyV2(conf entity.MerchantConfig, codec services.Codec) *NotifyV2 {
	return &NotifyV2{
		signer: NewSignerV2(conf.MerchantSecret),
		codec:  codec,
	}
}

// Verify checks the status codes, then the signature over every field except sign.
func (n *NotifyV2) Verify(envelope entity.Fields) error {
	if len(envelope) == 0 {
		return fmt.Errorf("%w: empty notification", ErrProtocol)
	}
	for _, key := range []string{"return_code", "result_code"} {
		if _, ok := envelope[key]; !ok {
			return &MissingFieldError{Name: key}
		}
	}
	if envelope["return_code"] != resultSuccess || envelope["result_code"] != resultSuccess {
		return fmt.Errorf("%w: return_code %s, result_code %s", ErrProtocol, envelope["return_code"], envelope["result_code"])
	}
	if n.signer.secret == "" {
		return configError("merchant secret not configured")
	}

	expected := n.signer.Sign(envelope.Without(signField))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(envelope[signField])) != 1 {
		return ErrSignature
	}
	return nil
}

// Parse decodes a raw XML callback body and verifies it.
func (n *NotifyV2) Parse(body []byte) (entity.Fields, error) {
	envelope, err := n.codec.DecodeXml(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if err = n.Verify(envelope); err != nil {
		return nil, err
	}
	return envelope, nil
}

func (n *NotifyV2) Open(body []byte, _ entity.NotifyHeaders) (map[string]any, error) {
	envelope, err := n.Parse(body)
	if err != nil {
		return nil, err
	}
	return envelope.Map(), nil
}
