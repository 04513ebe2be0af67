package internal

import (
	"gitee.com/golang-module/dongle"
	"strings"
)

func md5Upper(message string) string {
	return strings.ToUpper(dongle.Encrypt.FromString(message).ByMd5().ToHexString())
}

func base64Encode(data []byte) string {
	return dongle.Encode.FromBytes(data).ByBase64().ToString()
}

func base64Decode(text string) ([]byte, error) {
	decoder := dongle.Decode.FromString(text).ByBase64()
	if decoder.Error != nil {
		return nil, decoder.Error
	}
	return decoder.ToBytes(), nil
}
