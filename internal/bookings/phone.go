package bookings

import (
	"regexp"
	"strings"
)

// National form: mobile 04xxxxxxxx or landline 02/03/07/08 + 8 digits.
var auNationalPhone = regexp.MustCompile(`^0[23478][0-9]{8}$`)

// NormalizeAUPhone returns the 10-digit national form of an Australian phone
// number. Whitespace anywhere is ignored and a leading +61 replaces the 0.
func NormalizeAUPhone(raw string) (string, bool) {
	compact := strings.Join(strings.Fields(raw), "")
	if rest, ok := strings.CutPrefix(compact, "+61"); ok {
		compact = "0" + rest
	}
	if !auNationalPhone.MatchString(compact) {
		return "", false
	}
	return compact, true
}

// ValidAUPhone reports whether raw is an accepted Australian phone number.
func ValidAUPhone(raw string) bool {
	_, ok := NormalizeAUPhone(raw)
	return ok
}
