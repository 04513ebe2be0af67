package internal

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"paygate/entity"
	"paygate/services"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedNonce struct {
	value string
}

func (n fixedNonce) RandomString(length int) string {
	if len(n.value) >= length {
		return n.value[:length]
	}
	return n.value
}

type fakeTransport struct {
	requests []*services.TransportRequest
	response map[string]any
	err      error
}

func (f *fakeTransport) Fetch(_ context.Context, request *services.TransportRequest) (map[string]any, error) {
	f.requests = append(f.requests, request)
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type stubVerifier struct {
	err      error
	messages []string
}

func (s *stubVerifier) Verify(message []byte, _ string) error {
	s.messages = append(s.messages, string(message))
	return s.err
}

func newRsaKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

// writePrivateKey stores the key as PKCS#8, the format of apiclient_key.pem.
func writePrivateKey(t *testing.T, dir string, key *rsa.PrivateKey) string {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	path := filepath.Join(dir, "apiclient_key.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0o600))
	return path
}

// writeCertificate stores a self-signed certificate for the key.
func writeCertificate(t *testing.T, dir string, key *rsa.PrivateKey) string {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "platform"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	path := filepath.Join(dir, "platform_cert.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	return path
}

func testMerchant() entity.MerchantConfig {
	return entity.MerchantConfig{
		AppId:             "wx8888888888888888",
		AppSecret:         "app-secret",
		MerchantId:        "1900000109",
		MerchantSecret:    "192006250b4c09247ec02edce69f6a2d",
		CertificateSerial: "5157F09EFDC096DE15EBE81A47057A7232F1B8E1",
		ApiV3Key:          "0123456789abcdef0123456789abcdef",
		GatewayUrl:        "https://api.mch.weixin.qq.com",
	}
}
