package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "FR"

// NormalizePhone formats a guest phone as E.164. Guests type whatever they
// like, so an unparseable value is kept as typed rather than dropped.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, DefaultRegion)
	if err != nil || !phonenumbers.IsPossibleNumber(parsed) {
		return TrimAndNormalize(phone)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
