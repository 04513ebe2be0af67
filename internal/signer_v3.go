package internal

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"net/http"
	"paygate/entity"
	"paygate/services"
	"strconv"
	"strings"
	"time"
)

const (
	authorizationSchema = "WECHATPAY2-SHA256-RSA2048"
	v3NonceLength       = 32
)

// SignerV3 signs with the merchant RSA private key.
type SignerV3 struct {
	merchantId string
	serial     string
	keyPath    string
	keys       *KeyStore
	nonce      services.NonceSource
	now        func() time.Time
}

func NewSignerV3(conf entity.MerchantConfig, keys *KeyStore, nonce services.NonceSource) *SignerV3 {
	return &SignerV3{
		merchantId: conf.MerchantId,
		serial:     conf.CertificateSerial,
		keyPath:    conf.CertificatePath,
		keys:       keys,
		nonce:      nonce,
		now:        time.Now,
	}
}

// Sign returns the base64 RSA-SHA256 (PKCS#1 v1.5) signature of the message.
func (s *SignerV3) Sign(message []byte) (string, error) {
	if !crypto.SHA256.Available() {
		return "", fmt.Errorf("%w: sha256WithRSA not supported", ErrCryptoUnavailable)
	}
	key, err := s.keys.PrivateKey(s.keyPath)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(message)
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign message: %v", err)
	}
	return base64Encode(signature), nil
}

// SignRequest builds the canonical request message and its Authorization header.
// The body is ignored for GET requests.
func (s *SignerV3) SignRequest(method, uri string, body []byte) (*entity.SignedRequest, error) {
	method = strings.ToUpper(method)
	if method == http.MethodGet {
		body = nil
	}
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	nonce := s.nonce.RandomString(v3NonceLength)

	message := canonicalMessage(method, uri, timestamp, nonce, string(body))
	signature, err := s.Sign([]byte(message))
	if err != nil {
		return nil, err
	}

	authorization := fmt.Sprintf(`%s mchid="%s",nonce_str="%s",serial_no="%s",timestamp="%s",signature="%s"`,
		authorizationSchema, s.merchantId, nonce, s.serial, timestamp, signature)

	return &entity.SignedRequest{
		Uri:           uri,
		Method:        method,
		Body:          body,
		Signature:     signature,
		Authorization: authorization,
	}, nil
}

func (s *SignerV3) Authorization(method, uri string, body []byte) (string, error) {
	request, err := s.SignRequest(method, uri, body)
	if err != nil {
		return "", err
	}
	return request.Authorization, nil
}

func (s *SignerV3) SignType() string {
	return entity.SignTypeRSA
}

func (s *SignerV3) NonceLength() int {
	return v3NonceLength
}

func (s *SignerV3) PaySign(appId, timestamp, nonce, pkg string) (string, error) {
	return s.Sign([]byte(canonicalMessage(appId, timestamp, nonce, pkg)))
}

// canonicalMessage joins the parts with a newline after each one, the last included.
func canonicalMessage(parts ...string) string {
	var builder strings.Builder
	for _, part := range parts {
		builder.WriteString(part)
		builder.WriteByte('\n')
	}
	return builder.String()
}

// PlatformVerifier checks callback signatures against the processor platform certificate.
type PlatformVerifier struct {
	path string
	keys *KeyStore
}

func NewPlatformVerifier(path string, keys *KeyStore) *PlatformVerifier {
	return &PlatformVerifier{
		path: path,
		keys: keys,
	}
}

func (v *PlatformVerifier) Verify(message []byte, signature string) error {
	if !crypto.SHA256.Available() {
		return fmt.Errorf("%w: sha256WithRSA not supported", ErrCryptoUnavailable)
	}
	key, err := v.keys.PublicKey(v.path)
	if err != nil {
		return err
	}
	raw, err := base64Decode(signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not base64", ErrSignature)
	}
	digest := sha256.Sum256(message)
	if err = rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], raw); err != nil {
		return ErrSignature
	}
	return nil
}
