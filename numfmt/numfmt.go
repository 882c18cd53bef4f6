package numfmt

import (
	"math"
	"strconv"
	"strings"
)

const (
	// plainNumberLength is the maximal number of digits used in decimal
	// numbers (e.g. "123456" or "0.00123").
	plainNumberLength = 6
	// mantissaLength is the maximal number of digits in an engineering
	// mantissa, e.g. "12.3e+6".
	mantissaLength = 3
	// minNonZeroNumber is the smallest absolute value not formatted as "0".
	minNonZeroNumber = 1.0e-12
	// logPrecision controls decimal rounding: include enough fractional
	// digits that any rounding error is below value*10^logPrecision.
	logPrecision = -2
)

// minPlainFormatNumber is the smallest absolute value formatted as decimal
// rather than engineering notation: 10^(1-plainNumberLength-logPrecision).
var minPlainFormatNumber = math.Pow(10, float64(1-plainNumberLength-logPrecision))

// integerDigits returns the number of digits before the decimal point when
// d is written as a decimal number.
func integerDigits(d float64) int {
	if d == 0 {
		return 1
	}
	n := 1 + int(math.Floor(math.Log10(math.Abs(d))))
	if n < 1 {
		return 1
	}
	return n
}

// decimalFormat formats d with enough fractional digits that the rounding
// error stays below d*10^logPrec, then strips trailing fractional zeros.
func decimalFormat(d float64, logPrec int) string {
	firstNonzeroDigitPos := int(math.Floor(math.Log10(math.Abs(d))))
	decimals := -logPrec - firstNonzeroDigitPos
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(d, 'f', decimals, 64)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// engineeringFormat formats d as <mantissa>e<sign><exponent>, mantissa in
// [1, 1000) with mantissaLength significant digits, exponent a multiple of
// three.
func engineeringFormat(d float64) string {
	exp := int(math.Floor(math.Log10(math.Abs(d))/3.0)) * 3
	mantissa := d / math.Pow(10.0, float64(exp))

	var mantissaStr string
	if mantissa+0.5*math.Pow(10, float64(3-mantissaLength)) < 1000.0 {
		mantissaStr = decimalFormat(mantissa, 1-mantissaLength)
	} else {
		// The mantissa rounds up to an extra digit (e.g. 999500000 with
		// mantissaLength=3 must print as "1e+9", not "1000e+6").
		mantissaStr = decimalFormat(mantissa/1000.0, 1-mantissaLength)
		exp += 3
	}
	sign := "+"
	if exp < 0 {
		sign = "-"
		exp = -exp
	}
	return mantissaStr + "e" + sign + strconv.Itoa(exp)
}

// FormatNumberReadably formats d with reasonable precision without letting
// it grow unreadably long: decimal notation for magnitudes roughly in
// [0.001, 999999.5), engineering notation (mantissa in [1,1000), exponent a
// multiple of three) outside that range, and "0" below 1e-12.
//
// Deterministic per spec.md §8; see TestFormatNumberReadably for the exact
// test points this must satisfy.
func FormatNumberReadably(d float64) string {
	if math.Abs(d) < minNonZeroNumber {
		return "0"
	}
	if math.Abs(d) < minPlainFormatNumber || integerDigits(d+0.5*sign(d)) > plainNumberLength {
		return engineeringFormat(d)
	}
	return decimalFormat(d, logPrecision)
}

func sign(d float64) float64 {
	if d < 0 {
		return -1
	}
	return 1
}

// FormatUint64Readably formats a nonnegative integer count the same way:
// plain decimal up to plainNumberLength digits, engineering notation beyond
// that.
func FormatUint64Readably(l uint64) string {
	limit := uint64(1)
	for i := 0; i < plainNumberLength; i++ {
		limit *= 10
	}
	if l >= limit {
		return engineeringFormat(float64(l))
	}
	return strconv.FormatUint(l, 10)
}
