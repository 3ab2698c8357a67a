package etims

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PayloadSigner produces the detached signature and certificate serial carried
// in the transmission headers. *Signer is the production implementation.
type PayloadSigner interface {
	Sign(data []byte) (string, error)
	CertificateSerial() string
}

// TransmissionError reports a rejected or failed transmission attempt
type TransmissionError struct {
	Message    string
	StatusCode int
	Response   string
}

func (e *TransmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Transmitter sends signed invoices to the tax authority with a bounded timeout
type Transmitter struct {
	apiURL     string
	httpClient *http.Client
}

// NewTransmitter creates a transmitter for the authority endpoint
func NewTransmitter(apiURL string, timeout time.Duration) *Transmitter {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Transmitter{
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Transmit signs the canonical invoice JSON and posts it. Headers carry a
// request id, the certificate serial number and the payload signature. Any
// non-2xx response or network failure is a TransmissionError.
func (t *Transmitter) Transmit(ctx context.Context, invoice *Invoice, signer PayloadSigner) (map[string]interface{}, error) {
	payload, err := json.Marshal(invoice)
	if err != nil {
		return nil, &TransmissionError{Message: fmt.Sprintf("marshal invoice: %v", err)}
	}

	signature, err := signer.Sign(payload)
	if err != nil {
		return nil, &TransmissionError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL+"/invoices", bytes.NewReader(payload))
	if err != nil {
		return nil, &TransmissionError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("RequestId", uuid.New().String())
	req.Header.Set("CertificateSerialNumber", signer.CertificateSerial())
	req.Header.Set("Signature", signature)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &TransmissionError{Message: fmt.Sprintf("communication error: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 202 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &TransmissionError{
			Message:    "authority rejected invoice",
			StatusCode: resp.StatusCode,
			Response:   string(body),
		}
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &TransmissionError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return result, nil
}

// TestConnection checks whether the authority's health endpoint answers
func (t *Transmitter) TestConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.apiURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
