// Package payment builds Short Payment Descriptor (SPD) strings, the
// format Czech banking apps read from QR codes. Rendering the QR
// image is left to the frontend; the backend only hands out the
// payload.
package payment

import (
	"fmt"
	"strings"
)

type QRPayment struct {
	IBAN           string
	AmountCZK      int
	VariableSymbol int
	Message        string
}

// String renders the SPD 1.0 payload, e.g.
// SPD*1.0*ACC:CZ6508000000123456789012*AM:450.00*CC:CZK*X-VS:12*MSG:OBJEDNAVKA
func (p QRPayment) String() string {
	var b strings.Builder
	b.WriteString("SPD*1.0")
	fmt.Fprintf(&b, "*ACC:%s", sanitize(p.IBAN))
	fmt.Fprintf(&b, "*AM:%d.00", p.AmountCZK)
	b.WriteString("*CC:CZK")
	if p.VariableSymbol > 0 {
		fmt.Fprintf(&b, "*X-VS:%d", p.VariableSymbol)
	}
	if p.Message != "" {
		fmt.Fprintf(&b, "*MSG:%s", strings.ReplaceAll(p.Message, "*", ""))
	}
	return b.String()
}

// sanitize strips characters with structural meaning in SPD. IBANs
// are stored with spaces for readability; the payload wants none.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	return strings.ReplaceAll(s, " ", "")
}
