package entity

const (
	HeaderSerial    = "Wechatpay-Serial"
	HeaderTimestamp = "Wechatpay-Timestamp"
	HeaderNonce     = "Wechatpay-Nonce"
	HeaderSignature = "Wechatpay-Signature"
)

// NotifyEnvelope is the JSON body of a V3 callback.
// Payment notifications carry Resource; certificate downloads carry Data.
type NotifyEnvelope struct {
	Id           string             `json:"id,omitempty"`
	CreateTime   string             `json:"create_time,omitempty"`
	EventType    string             `json:"event_type,omitempty"`
	ResourceType string             `json:"resource_type,omitempty"`
	Summary      string             `json:"summary,omitempty"`
	Resource     *EncryptedResource `json:"resource,omitempty"`
	Data         []CertificateEntry `json:"data,omitempty"`
}

type CertificateEntry struct {
	SerialNo           string             `json:"serial_no"`
	EffectiveTime      string             `json:"effective_time"`
	ExpireTime         string             `json:"expire_time"`
	EncryptCertificate *EncryptedResource `json:"encrypt_certificate"`
}

// EncryptedResource is an AEAD_AES_256_GCM sealed payload.
type EncryptedResource struct {
	Algorithm string `json:"algorithm"`
	// Ciphertext is base64 encoded and ends with the 16 byte authentication tag
	Ciphertext     string `json:"ciphertext"`
	AssociatedData string `json:"associated_data"`
	Nonce          string `json:"nonce"`
	OriginalType   string `json:"original_type,omitempty"`
}

// Encrypted returns the sealed object of the envelope, preferring the certificate entry.
func (e *NotifyEnvelope) Encrypted() *EncryptedResource {
	if len(e.Data) > 0 && e.Data[0].EncryptCertificate != nil {
		return e.Data[0].EncryptCertificate
	}
	return e.Resource
}

// NotifyHeaders are the transport headers a V3 callback must carry.
type NotifyHeaders struct {
	Serial    string
	Timestamp string
	Nonce     string
	Signature string
}

// HeaderGetter is satisfied by http.Header.
type HeaderGetter interface {
	Get(key string) string
}

func NotifyHeadersOf(header HeaderGetter) NotifyHeaders {
	return NotifyHeaders{
		Serial:    header.Get(HeaderSerial),
		Timestamp: header.Get(HeaderTimestamp),
		Nonce:     header.Get(HeaderNonce),
		Signature: header.Get(HeaderSignature),
	}
}
