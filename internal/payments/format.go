package payments

import (
	"fmt"
	"strings"
)

// formatAmount renders minor units as a display amount, e.g. 15000 aud -> "$150.00 AUD".
func formatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s$%d.%02d %s", sign, minor/100, minor%100, strings.ToUpper(currency))
}
