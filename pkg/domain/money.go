package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is money in paise (1/100 of a rupee).
//
// All prices, discounts and totals are kept in integer minor units,
// so that arithmetic on them is exact.
type Amount int64

func Rupees(r int64) Amount {
	return Amount(r * 100)
}

func (a Amount) Paise() int64 {
	return int64(a)
}

// Times multiplies the amount by the quantity.
func (a Amount) Times(qty int) Amount {
	return a * Amount(qty)
}

// Percent returns floor(a * pct / 100) for non-negative a.
func (a Amount) Percent(pct int) Amount {
	return a * Amount(pct) / 100
}

func MinAmount(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// String formats the amount as rupees, like "1299.50".
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseAmount parses rupees expression like "1299", "1299.5" or "1299.50".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if !digits(whole) || (hasFrac && !digits(frac)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	var p int64
	if hasFrac {
		if len(frac) == 0 || 2 < len(frac) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		p, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	return Amount(w*100 + p), nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || '9' < r {
			return false
		}
	}
	return true
}
