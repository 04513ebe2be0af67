package internal

import (
	"paygate/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedNotifyV2(t *testing.T, secret string, fields entity.Fields) []byte {
	t.Helper()
	fields[signField] = SignV2(fields, secret)
	body, err := NewCodec().EncodeXml(fields)
	require.NoError(t, err)
	return body
}

func paidFields() entity.Fields {
	return entity.Fields{
		"appid":          "wx8888888888888888",
		"mch_id":         "1900000109",
		"nonce_str":      "5d2b6c2a8db53831f7eda20af46e531c",
		"result_code":    "SUCCESS",
		"return_code":    "SUCCESS",
		"out_trade_no":   "1409811653",
		"transaction_id": "1004400740201409030005092168",
		"total_fee":      "1",
	}
}

func TestNotifyV2AcceptsSignedCallback(t *testing.T) {
	conf := testMerchant()
	notify := NewNotifyV2(conf, NewCodec())

	payload, err := notify.Open(signedNotifyV2(t, conf.MerchantSecret, paidFields()), entity.NotifyHeaders{})
	require.NoError(t, err)
	assert.Equal(t, "1409811653", payload["out_trade_no"])
}

func TestNotifyV2RejectsTamperedCallback(t *testing.T) {
	conf := testMerchant()
	notify := NewNotifyV2(conf, NewCodec())

	fields := paidFields()
	fields[signField] = SignV2(fields, conf.MerchantSecret)
	fields["total_fee"] = "100"
	assert.ErrorIs(t, notify.Verify(fields), ErrSignature)

	fields = paidFields()
	fields[signField] = SignV2(fields, "another secret")
	assert.ErrorIs(t, notify.Verify(fields), ErrSignature)
}

func TestNotifyV2Status(t *testing.T) {
	notify := NewNotifyV2(testMerchant(), NewCodec())

	assert.ErrorIs(t, notify.Verify(entity.Fields{}), ErrProtocol)

	fields := paidFields()
	delete(fields, "result_code")
	err := notify.Verify(fields)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "result_code", missing.Name)

	fields = paidFields()
	fields["return_code"] = "FAIL"
	assert.ErrorIs(t, notify.Verify(fields), ErrProtocol)
}

func TestNotifyV2WithoutSecret(t *testing.T) {
	conf := testMerchant()
	conf.MerchantSecret = ""
	err := NewNotifyV2(conf, NewCodec()).Verify(paidFields())
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNotifyV2MalformedBody(t *testing.T) {
	_, err := NewNotifyV2(testMerchant(), NewCodec()).Parse([]byte("<xml><return_code>"))
	assert.ErrorIs(t, err, ErrProtocol)
}
