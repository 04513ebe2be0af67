package internal

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

type keyKind string

const (
	privateKeyKind keyKind = "private"
	publicKeyKind  keyKind = "public"
)

type keyEntry struct {
	modTime time.Time
	size    int64
	key     any
}

// KeyStore caches parsed PEM keys by path. An entry is dropped as soon as the file's
// modification time or size differs from the cached one.
type KeyStore struct {
	mutex   sync.Mutex
	entries map[string]keyEntry
}

func NewKeyStore() *KeyStore {
	return &KeyStore{
		entries: make(map[string]keyEntry),
	}
}

// PrivateKey loads an RSA private key in PKCS#1 or PKCS#8 PEM form.
func (k *KeyStore) PrivateKey(path string) (*rsa.PrivateKey, error) {
	key, err := k.load(path, privateKeyKind, parsePrivateKey)
	if err != nil {
		return nil, err
	}
	return key.(*rsa.PrivateKey), nil
}

// PublicKey loads an RSA public key from a certificate or public key PEM.
func (k *KeyStore) PublicKey(path string) (*rsa.PublicKey, error) {
	key, err := k.load(path, publicKeyKind, parsePublicKey)
	if err != nil {
		return nil, err
	}
	return key.(*rsa.PublicKey), nil
}

func (k *KeyStore) load(path string, kind keyKind, parse func([]byte) (any, error)) (any, error) {
	if path == "" {
		return nil, configError("certificate path not configured")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, configError("certificate file not found")
		}
		return nil, fmt.Errorf("%w: stat certificate: %v", ErrConfiguration, err)
	}

	cacheKey := string(kind) + ":" + path

	k.mutex.Lock()
	defer k.mutex.Unlock()

	if entry, ok := k.entries[cacheKey]; ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.key, nil
	}
	delete(k.entries, cacheKey)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read certificate: %v", ErrConfiguration, err)
	}
	key, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	k.entries[cacheKey] = keyEntry{
		modTime: info.ModTime(),
		size:    info.Size(),
		key:     key,
	}
	return key, nil
}

func parsePrivateKey(data []byte) (any, error) {
	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		switch block.Type {
		case "RSA PRIVATE KEY":
			return x509.ParsePKCS1PrivateKey(block.Bytes)
		case "PRIVATE KEY":
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("parse private key: %v", err)
			}
			rsaKey, ok := key.(*rsa.PrivateKey)
			if !ok {
				return nil, fmt.Errorf("private key is not RSA")
			}
			return rsaKey, nil
		}
	}
	return nil, fmt.Errorf("no private key in PEM data")
}

func parsePublicKey(data []byte) (any, error) {
	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		var key any
		var err error
		switch block.Type {
		case "CERTIFICATE":
			var cert *x509.Certificate
			if cert, err = x509.ParseCertificate(block.Bytes); err == nil {
				key = cert.PublicKey
			}
		case "PUBLIC KEY":
			key, err = x509.ParsePKIXPublicKey(block.Bytes)
		case "RSA PUBLIC KEY":
			key, err = x509.ParsePKCS1PublicKey(block.Bytes)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %v", block.Type, err)
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("public key is not RSA")
		}
		return rsaKey, nil
	}
	return nil, fmt.Errorf("no certificate or public key in PEM data")
}
