package internal

import (
	"paygate/entity"
	"strings"
)

const signField = "sign"

// SignV2 computes the V2 MD5 signature: fields sorted by key, joined as k=v with '&',
// followed by "&key=<secret>", hashed and upper-cased. The sign field itself is never signed.
func SignV2(fields entity.Fields, secret string) string {
	pairs := make([]string, 0, len(fields))
	for _, key := range fields.Keys() {
		if key == signField {
			continue
		}
		pairs = append(pairs, key+"="+fields[key])
	}
	return md5Upper(strings.Join(pairs, "&") + "&key=" + secret)
}

// SignerV2 binds the merchant shared secret.
type SignerV2 struct {
	secret string
}

func NewSignerV2(secret string) *SignerV2 {
	return &SignerV2{secret: secret}
}

func (s *SignerV2) Sign(fields entity.Fields) string {
	return SignV2(fields, s.secret)
}

func (s *SignerV2) SignType() string {
	return entity.SignTypeMD5
}

func (s *SignerV2) NonceLength() int {
	return 16
}

func (s *SignerV2) PaySign(appId, timestamp, nonce, pkg string) (string, error) {
	if s.secret == "" {
		return "", configError("merchant secret not configured")
	}
	fields := entity.Fields{
		"appId":     appId,
		"nonceStr":  nonce,
		"package":   pkg,
		"signType":  entity.SignTypeMD5,
		"timeStamp": timestamp,
	}
	return s.Sign(fields), nil
}
