// Package mpesa talks to Safaricom's Daraja API: it obtains OAuth access
// tokens and submits Lipa na M-Pesa Online (STK push) charges.
package mpesa

import (
	"encoding/base64"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/apperrors"
)

const (
	TimestampLayout = "20060102150405"
	CountryPrefix   = "254"
	PhoneLength     = 12

	tokenPath   = "/oauth/v1/generate"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"
)

// Nairobi is the timezone Daraja expects for request timestamps and uses in
// callback transaction dates.
var Nairobi = time.FixedZone("EAT", 3*60*60)

// ValidatePhone accepts exactly 12 digits starting with the Kenyan country code.
func ValidatePhone(phone string) error {
	if len(phone) != PhoneLength {
		return apperrors.Invalid("phone", "phone number must be 12 digits starting with 254, e.g. 254712345678")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return apperrors.Invalid("phone", "phone number must contain digits only")
		}
	}
	if phone[:len(CountryPrefix)] != CountryPrefix {
		return apperrors.Invalid("phone", "phone number must start with 254")
	}
	return nil
}

func Timestamp(t time.Time) string {
	return t.In(Nairobi).Format(TimestampLayout)
}

// Password is base64(shortcode + passkey + timestamp).
func Password(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}

// ParseTransactionDate reads the YYYYMMDDHHmmss value found in callback metadata.
func ParseTransactionDate(value string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, value, Nairobi)
}
