package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is an exact decimal that remembers how it was written.
type Number struct {
	value decimal.Decimal
	text  string
}

type Bounds struct {
	Min *Number
	Max *Number
}

// ParseNumber accepts plain decimal notation: an optional leading minus,
// digits and at most one point. Exponents are refused.
func ParseNumber(s string) (Number, error) {
	text := strings.TrimSpace(s)
	if text == "" || strings.ContainsAny(text, "eE+") {
		return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return Number{value: value, text: text}, nil
}

func MustParseNumber(s string) Number {
	n, err := ParseNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Scale is the count of fractional digits as written: "52.00" has scale 2.
func (n Number) Scale() int {
	return scaleOf(n.value.Exponent())
}

// SignificantScale ignores trailing fractional zeros: "1.0" has 0, "0.01" has 2.
func (n Number) SignificantScale() int {
	trimmed := n.value.String()
	dot := strings.IndexByte(trimmed, '.')
	if dot < 0 {
		return 0
	}
	return len(trimmed) - dot - 1
}

func (n Number) Cmp(other Number) int {
	return n.value.Cmp(other.value)
}

func (n Number) Sign() int {
	return n.value.Sign()
}

func (n Number) String() string {
	return n.text
}

func scaleOf(exponent int32) int {
	if exponent >= 0 {
		return 0
	}
	return int(-exponent)
}
