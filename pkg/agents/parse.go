package agents

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// OperandSeparator splits the two numbers of an arithmetic request.
const OperandSeparator = ","

// ParseError reports input that cannot be read as two numbers.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}

// Operands are the two numbers of an arithmetic request.
type Operands struct {
	Left  float64
	Right float64
}

// ParseOperands reads "a,b" into two float64 values. Surrounding whitespace
// around each number is ignored. The only error it returns is *ParseError.
func ParseOperands(text string) (Operands, error) {
	parts := strings.Split(text, OperandSeparator)
	if len(parts) != 2 {
		return Operands{}, &ParseError{
			Reason: "Input text must contain exactly two numbers separated by a comma.",
		}
	}

	left, err := parseNumber(parts[0])
	if err != nil {
		return Operands{}, err
	}
	right, err := parseNumber(parts[1])
	if err != nil {
		return Operands{}, err
	}
	return Operands{Left: left, Right: right}, nil
}

// parseNumber accepts decimal float literals, digit underscores and
// inf/infinity/nan in any case with an optional sign. Magnitudes beyond
// float64 become ±Inf.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)

	if isHexLiteral(s) {
		return 0, conversionError(s)
	}
	if isSignedNaN(s) {
		return math.NaN(), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, nil
		}
		return 0, conversionError(s)
	}
	return f, nil
}

// isHexLiteral reports whether s is a hexadecimal float such as "0x1p-2",
// which ParseFloat accepts but a decimal reading does not.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// isSignedNaN reports whether s is nan with at most one sign. ParseFloat
// rejects a sign before nan.
func isSignedNaN(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	return strings.EqualFold(s, "nan")
}

func conversionError(s string) *ParseError {
	return &ParseError{Reason: "could not convert string to float: " + pyQuote(s)}
}

// pyQuote quotes s with single quotes, or with double quotes when s holds a
// single quote and no double quote.
func pyQuote(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case quote:
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
