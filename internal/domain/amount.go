// Package domain contains core business types and interfaces.
//
// This file defines Amount, the money type used for tips and plan prices.
// Amounts are denominated in cUSD and held at full 18-decimal token
// precision so that values round-trip through parse/format without loss.
package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// TokenDecimals is the precision of the cUSD token.
const TokenDecimals = 18

var tokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

// Amount is a non-negative cUSD value stored in wei (10^-18 units).
// The zero value is zero cUSD.
type Amount struct {
	wei *big.Int
}

// ParseAmount parses a decimal cUSD string (e.g. "5", "0.01", "12.50")
// into an Amount. Negative values and more than 18 fractional digits
// are rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(s, "-") {
		return Amount{}, fmt.Errorf("amount must not be negative: %s", s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > TokenDecimals {
		return Amount{}, fmt.Errorf("amount has more than %d decimal places: %s", TokenDecimals, s)
	}

	digits := whole + frac + strings.Repeat("0", TokenDecimals-len(frac))
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Amount{}, fmt.Errorf("invalid amount: %s", s)
		}
	}

	wei, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Amount{}, fmt.Errorf("invalid amount: %s", s)
	}
	return Amount{wei: wei}, nil
}

// MustParseAmount is ParseAmount for static values (plan prices, presets).
// It panics on invalid input.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromWei builds an Amount from a raw wei value. The input is copied.
func AmountFromWei(wei *big.Int) Amount {
	if wei == nil {
		return Amount{}
	}
	return Amount{wei: new(big.Int).Set(wei)}
}

// Wei returns a copy of the raw 18-decimal token value.
func (a Amount) Wei() *big.Int {
	if a.wei == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.wei)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a.wei != nil && a.wei.Sign() > 0
}

// String formats the amount as a decimal cUSD string with trailing
// fractional zeros trimmed, e.g. "5", "0.01".
func (a Amount) String() string {
	if a.wei == nil {
		return "0"
	}
	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(a.wei, tokenUnit, frac)

	if frac.Sign() == 0 {
		return whole.String()
	}

	fracStr := fmt.Sprintf("%0*s", TokenDecimals, frac.String())
	fracStr = strings.TrimRight(fracStr, "0")
	return whole.String() + "." + fracStr
}

// MarshalJSON encodes the amount as a decimal string to preserve precision.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON decodes a decimal string amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
