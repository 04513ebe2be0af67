package entity

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsOf(t *testing.T) {
	fields := FieldsOf(map[string]any{"total_fee": 1, "body": "test", "empty": nil, "flag": true})
	assert.Equal(t, Fields{"total_fee": "1", "body": "test", "empty": "", "flag": "true"}, fields)
}

func TestFieldsKeysAndWithout(t *testing.T) {
	fields := Fields{"sign": "X", "b": "2", "a": "1", "B": "3"}
	assert.Equal(t, []string{"B", "a", "b", "sign"}, fields.Keys())

	without := fields.Without("sign")
	assert.Equal(t, Fields{"b": "2", "a": "1", "B": "3"}, without)
	assert.Contains(t, fields, "sign")
}

func TestPrepayOrderValidate(t *testing.T) {
	order := PrepayOrder{Description: "d", OutTradeNo: "123456", Amount: 1, PayerOpenId: "o"}
	assert.NoError(t, order.Validate())

	order.Amount = 0
	assert.Error(t, order.Validate())
}

func TestNotifyHeadersOf(t *testing.T) {
	header := http.Header{}
	header.Set("wechatpay-serial", "S")
	header.Set("Wechatpay-Timestamp", "1")
	headers := NotifyHeadersOf(header)
	assert.Equal(t, NotifyHeaders{Serial: "S", Timestamp: "1"}, headers)
}

func TestEnvelopePrefersCertificate(t *testing.T) {
	resource := &EncryptedResource{Ciphertext: "r"}
	certificate := &EncryptedResource{Ciphertext: "c"}
	envelope := NotifyEnvelope{Resource: resource}
	assert.Same(t, resource, envelope.Encrypted())

	envelope.Data = []CertificateEntry{{EncryptCertificate: certificate}}
	assert.Same(t, certificate, envelope.Encrypted())
}

func TestPrepayId(t *testing.T) {
	assert.Equal(t, "wx1", PrepayResult{"prepay_id": "wx1"}.PrepayId())
	assert.Empty(t, PrepayResult{}.PrepayId())
}

func TestNotifySerial(t *testing.T) {
	conf := MerchantConfig{CertificateSerial: "M"}
	assert.Equal(t, "M", conf.NotifySerial())
	conf.PlatformSerial = "P"
	assert.Equal(t, "P", conf.NotifySerial())
}
