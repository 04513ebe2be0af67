// Package entity defines data models for the paygate service.
package entity

// MerchantConfig holds the merchant credentials for both API generations.
// It is built once from configuration and passed by value; nothing mutates it afterwards.
type MerchantConfig struct {
	AppId     string
	AppSecret string
	// MerchantId is the processor-assigned merchant number (mchid)
	MerchantId string
	// MerchantSecret is the V2 shared secret appended to every MD5 signature
	MerchantSecret string
	// CertificatePath points to the V3 merchant private key (PEM, PKCS#1 or PKCS#8)
	CertificatePath string
	// CertificateSerial is the serial number of the merchant API certificate
	CertificateSerial string
	// ApiV3Key is the 32 byte AES-256-GCM key used to decrypt V3 callback resources
	ApiV3Key string
	// PlatformCertificatePath points to the processor platform certificate (or its public key) in PEM
	PlatformCertificatePath string
	// PlatformSerial is the serial expected in the Wechatpay-Serial header of callbacks
	PlatformSerial string
	GatewayUrl     string
}

// NotifySerial returns the serial callbacks must carry; the merchant certificate serial
// is used when no platform serial is configured.
func (m MerchantConfig) NotifySerial() string {
	if m.PlatformSerial != "" {
		return m.PlatformSerial
	}
	return m.CertificateSerial
}
