package tabular

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Credit-card sign policy: rows whose type text looks like a payment or
// credit are forced positive, purchase-like rows forced negative, and
// anything ambiguous that is still positive defaults to an expense.
var (
	creditPositiveRe = regexp.MustCompile(`(?i)payment|credit|adjustment|return|refund`)
	creditNegativeRe = regexp.MustCompile(`(?i)sale|purchase|charge|fee`)
)

// parseAmount parses a currency cell. Dollar signs, commas, and spaces are
// stripped; a parenthesized value is forced negative.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		value = -math.Abs(value)
	}
	return value, true
}

// correctCheckingSign applies the checking-format policy: an entry labeled
// DEBIT is forced negative, CREDIT forced positive. Other labels leave the
// parsed sign untouched.
func correctCheckingSign(amount float64, details string) float64 {
	switch strings.ToUpper(details) {
	case "DEBIT":
		return -math.Abs(amount)
	case "CREDIT":
		return math.Abs(amount)
	}
	return amount
}

// correctCreditSign applies the credit-card-format policy to the row's type
// text (or description when no type column exists).
func correctCreditSign(amount float64, typeText string) float64 {
	switch {
	case creditPositiveRe.MatchString(typeText):
		return math.Abs(amount)
	case creditNegativeRe.MatchString(typeText):
		return -math.Abs(amount)
	case amount > 0:
		// Ambiguous credit-card rows default to expense.
		return -amount
	}
	return amount
}
