package flow

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as dollars with thousands separators:
// 1250.5 becomes "$1,250.50" and -45.2 becomes "-$45.20".
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(whole) + "." + frac
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + groupThousands(strconv.Itoa(-n))
	}
	return groupThousands(strconv.Itoa(n))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatRate renders an interest rate without trailing zeros: "4.5%".
func FormatRate(d decimal.Decimal) string {
	return d.String() + "%"
}
