package internal

import (
	"encoding/json"
	"paygate/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeXmlSortedAndEscaped(t *testing.T) {
	data, err := NewCodec().EncodeXml(entity.Fields{"b": "x<y", "a": "1 & 2"})
	require.NoError(t, err)
	assert.Equal(t, "<xml><a>1 &amp; 2</a><b>x&lt;y</b></xml>", string(data))
}

func TestEncodeXmlRejectsInvalidName(t *testing.T) {
	_, err := NewCodec().EncodeXml(entity.Fields{"bad name": "1"})
	assert.Error(t, err)
}

func TestDecodeXml(t *testing.T) {
	body := `<xml>
  <return_code><![CDATA[SUCCESS]]></return_code>
  <Return_Msg><![CDATA[OK]]></Return_Msg>
  <total_fee>1</total_fee>
  <empty></empty>
</xml>`
	fields, err := NewCodec().DecodeXml([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, entity.Fields{
		"return_code": "SUCCESS",
		"return_msg":  "OK",
		"total_fee":   "1",
		"empty":       "",
	}, fields)
}

func TestXmlRoundTrip(t *testing.T) {
	codec := NewCodec()
	fields := entity.Fields{"body": "腾讯充值中心-QQ会员充值", "attach": "a&b<c>", "total_fee": "888"}
	data, err := codec.EncodeXml(fields)
	require.NoError(t, err)
	decoded, err := codec.DecodeXml(data)
	require.NoError(t, err)
	assert.Equal(t, fields, decoded)
}

func TestDecodeXmlMalformed(t *testing.T) {
	_, err := NewCodec().DecodeXml([]byte("<xml><a>1</a>"))
	assert.Error(t, err)
}

func TestEncodeJsonKeepsCharacters(t *testing.T) {
	data, err := NewCodec().EncodeJson(map[string]any{"description": "Image形象店-深圳<腾大>"})
	require.NoError(t, err)
	assert.Equal(t, `{"description":"Image形象店-深圳<腾大>"}`, string(data))
}

func TestDecodeJson(t *testing.T) {
	codec := NewCodec()

	empty, err := codec.DecodeJson(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	result, err := codec.DecodeJson([]byte(`{"prepay_id":"wx26","amount":{"total":100}}`))
	require.NoError(t, err)
	assert.Equal(t, "wx26", result["prepay_id"])
	amount := result["amount"].(map[string]any)
	assert.Equal(t, json.Number("100"), amount["total"])

	_, err = codec.DecodeJson([]byte("not json"))
	assert.Error(t, err)
}
