package etims

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"os"

	"software.sslmate.com/src/go-pkcs12"
)

// Signer signs invoice payloads with the PKCS#12 credential issued for the
// registered control unit.
type Signer struct {
	privateKey  *rsa.PrivateKey
	certificate *x509.Certificate
}

// LoadSigner loads a .p12/.pfx signing credential. A missing or unreadable
// credential is reported to the caller, which degrades to offline queuing.
func LoadSigner(path, password string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read certificate: %w", err)
	}

	key, cert, _, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return nil, fmt.Errorf("decode certificate: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("certificate key is not RSA")
	}

	return &Signer{privateKey: rsaKey, certificate: cert}, nil
}

// Sign returns the base64 RSA PKCS#1 v1.5 SHA-256 signature of data
func (s *Signer) Sign(data []byte) (string, error) {
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign invoice: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// CertificateSerial returns the certificate serial number in hex, carried in
// the transmission headers.
func (s *Signer) CertificateSerial() string {
	return fmt.Sprintf("%x", s.certificate.SerialNumber)
}
