package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseDecimal reads an amount written with either decimal separator.
// When both "." and "," appear the rightmost one is the decimal point:
// "1.234,56" and "1,234.56" both give 1234.56. A lone "," is a decimal
// comma. Currency symbols and spaces are ignored.
func parseDecimal(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+':
			return r
		case r == '(' || r == ')':
			return r
		default:
			return -1
		}
	}, s)

	negative := strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")")
	clean = strings.Trim(clean, "()")

	dot := strings.LastIndex(clean, ".")
	comma := strings.LastIndex(clean, ",")

	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	case comma >= 0:
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}
