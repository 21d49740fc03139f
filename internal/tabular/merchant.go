package tabular

import "strings"

// Common payment-processor prefixes that bury the payee name.
var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
	"RECURRING PAYMENT ",
}

// ExtractMerchant derives a best-effort payee name from a raw bank
// description. When nothing better can be found the description itself is
// the merchant.
func ExtractMerchant(description string) string {
	name := strings.TrimSpace(description)

	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip a leading MM/DD date stamp some banks prepend.
	if len(name) > 6 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	// Drop a trailing reference number (all digits, longer than 5 chars).
	parts := strings.Fields(name)
	if len(parts) > 1 {
		last := parts[len(parts)-1]
		if len(last) > 5 && isAllDigits(last) {
			parts = parts[:len(parts)-1]
		}
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
