// Package ticket renders a confirmed booking as a PDF ticket with an
// embedded QR code carrying the booking reference.
package ticket

import (
    "github.com/skip2/go-qrcode"
)

// QRCode renders the booking reference as a 256x256 PNG QR code. Gate
// staff scan it and look the booking up by reference.
func QRCode(reference string) ([]byte, error) {
    return qrcode.Encode(reference, qrcode.Medium, 256)
}
