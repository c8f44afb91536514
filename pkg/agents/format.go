package agents

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f the way replies print numbers: the shortest
// representation that reads back as f, always with a fractional part
// ("5.0"), switching to exponent form when the decimal exponent is below -4
// or at least 16 ("1e+16", "1.5e-05").
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	exp := decimalExponent(f)
	if f != 0 && (exp < -4 || exp >= 16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// decimalExponent returns the exponent of f in shortest scientific form.
func decimalExponent(f float64) int {
	e := strconv.FormatFloat(f, 'e', -1, 64)
	i := strings.IndexByte(e, 'e')
	exp, _ := strconv.Atoi(e[i+1:])
	return exp
}
