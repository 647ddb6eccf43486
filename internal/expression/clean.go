package expression

import (
	"regexp"
	"strings"
)

// AllowedChars is the alphabet kept by Clean.
const AllowedChars = "0123456789+-*x="

// Operators lists the operator symbols in the order Evaluate tries them.
var Operators = []string{"+", "-", "*", "x"}

var operatorPattern = regexp.MustCompile(`[+\-*x]`)

// lookalikes maps characters OCR commonly confuses with expression symbols.
var lookalikes = strings.NewReplacer(
	"？", "=",
	"＝", "=",
	" ", "",
)

// Clean normalizes raw OCR text into the expression alphabet.
//
// Full-width "？" and "＝" become "=", spaces are removed and any character
// outside AllowedChars is dropped. The result is returned even when it does
// not hold exactly one operator; use OperatorCount to detect that case.
func Clean(raw string) string {
	normalized := lookalikes.Replace(raw)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if strings.ContainsRune(AllowedChars, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OperatorCount returns the number of operator symbols in s.
func OperatorCount(s string) int {
	return len(operatorPattern.FindAllStringIndex(s, -1))
}

// Truncate trims surrounding whitespace and keeps at most n runes of s.
// A non-positive n keeps the whole trimmed string.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
