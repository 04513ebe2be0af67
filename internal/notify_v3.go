package internal

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"fmt"
	"paygate/entity"
	"paygate/services"
	"strconv"
	"time"
)

const (
	notifyTolerance = 5 * time.Minute
	apiV3KeyLength  = 32
)

// NotifyV3 authenticates JSON callbacks against the platform certificate
// and opens their AEAD_AES_256_GCM resource with the API v3 key.
type NotifyV3 struct {
	serial   string
	apiKey   []byte
	verifier services.SignatureVerifier
	codec    services.Codec
	now      func() time.Time
}

func NewNotifyV3(conf entity.MerchantConfig, verifier services.SignatureVerifier, codec services.Codec) *NotifyV3 {
	return &NotifyV3{
		serial:   conf.NotifySerial(),
		apiKey:   []byte(conf.ApiV3Key),
		verifier: verifier,
		codec:    codec,
		now:      time.Now,
	}
}

// Verify returns the decrypted resource of an authentic callback.
func (n *NotifyV3) Verify(body []byte, headers entity.NotifyHeaders) ([]byte, error) {
	var envelope entity.NotifyEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode notification: %v", ErrProtocol, err)
	}
	resource := envelope.Encrypted()
	if resource == nil {
		resource = &entity.EncryptedResource{}
	}
	if resource.Ciphertext == "" {
		return nil, &MissingFieldError{Name: "ciphertext"}
	}
	if resource.AssociatedData == "" {
		return nil, &MissingFieldError{Name: "associated_data"}
	}
	if resource.Nonce == "" {
		return nil, &MissingFieldError{Name: "nonce"}
	}

	if headers.Serial == "" {
		return nil, &MissingFieldError{Name: entity.HeaderSerial}
	}
	if headers.Timestamp == "" {
		return nil, &MissingFieldError{Name: entity.HeaderTimestamp}
	}
	if headers.Nonce == "" {
		return nil, &MissingFieldError{Name: entity.HeaderNonce}
	}
	if headers.Signature == "" {
		return nil, &MissingFieldError{Name: entity.HeaderSignature}
	}

	if headers.Serial != n.serial {
		return nil, fmt.Errorf("%w: serial %s", ErrCertificateMismatch, headers.Serial)
	}
	timestamp, err := strconv.ParseInt(headers.Timestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", ErrProtocol, entity.HeaderTimestamp)
	}
	if timestamp > n.now().Add(notifyTolerance).Unix() {
		return nil, fmt.Errorf("%w: timestamp %d", ErrExpired, timestamp)
	}

	message := canonicalMessage(headers.Timestamp, headers.Nonce, string(body))
	if err = n.verifier.Verify([]byte(message), headers.Signature); err != nil {
		return nil, err
	}

	return n.Decrypt(resource)
}

// Decrypt opens the resource; the last 16 bytes of the ciphertext are the tag.
// Nothing is returned unless the tag verifies.
func (n *NotifyV3) Decrypt(resource *entity.EncryptedResource) ([]byte, error) {
	if len(n.apiKey) != apiV3KeyLength {
		return nil, configError("api v3 key must be 32 bytes")
	}
	ciphertext, err := base64Decode(resource.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not base64", ErrDecryption)
	}
	if resource.Nonce == "" {
		return nil, &MissingFieldError{Name: "nonce"}
	}
	block, err := aes.NewCipher(n.apiKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(resource.Nonce))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid nonce size", ErrDecryption)
	}
	if len(ciphertext) < gcm.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryption)
	}
	plaintext, err := gcm.Open(nil, []byte(resource.Nonce), ciphertext, []byte(resource.AssociatedData))
	if err != nil {
		return nil, ErrDecryption
	}
	return plaintext, nil
}

// Open verifies the callback and decodes the plaintext. A plaintext that is not
// a JSON object, like a downloaded certificate, is returned under "plaintext".
func (n *NotifyV3) Open(body []byte, headers entity.NotifyHeaders) (map[string]any, error) {
	plaintext, err := n.Verify(body, headers)
	if err != nil {
		return nil, err
	}
	payload, err := n.codec.DecodeJson(plaintext)
	if err != nil {
		return map[string]any{"plaintext": string(plaintext)}, nil
	}
	return payload, nil
}
