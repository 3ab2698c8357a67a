package etims

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRData builds the colon-delimited compliance payload. Amounts are in cents
// and rendered as decimals.
func QRData(pin, reference, date string, totalCents, vatCents int64, deviceID string) string {
	return fmt.Sprintf("KRA:PIN=%s:REF=%s:DATE=%s:AMT=%.2f:VAT=%.2f:CU=%s",
		pin, reference, date,
		float64(totalCents)/100,
		float64(vatCents)/100,
		deviceID)
}

// GenerateQRCode encodes the compliance payload into a base64 PNG. Generation
// is best-effort: a failure never blocks transmission and the code can be
// regenerated later from the same sale data.
func GenerateQRCode(pin, reference, date string, totalCents, vatCents int64, deviceID string) (string, error) {
	data := QRData(pin, reference, date, totalCents, vatCents, deviceID)
	png, err := qrcode.Encode(data, qrcode.Low, 256)
	if err != nil {
		return "", fmt.Errorf("generate qr code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
