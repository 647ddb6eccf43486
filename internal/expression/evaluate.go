package expression

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat is returned by Solve for text that does not match
	// the expression grammar.
	ErrInvalidFormat = errors.New("invalid expression format")

	// ErrNoOperator means no operator splits the expression into exactly
	// two operands.
	ErrNoOperator = errors.New("no single operator found")

	// ErrBadOperand means an operand is not an integer.
	ErrBadOperand = errors.New("operand is not an integer")

	// ErrOverflow means the result does not fit in an int.
	ErrOverflow = errors.New("result overflows int")
)

var expressionPattern = regexp.MustCompile(`^\d+[+\-*x]\d+=?$`)

// Validate reports whether expr is digits, one operator, digits and an
// optional trailing "=".
func Validate(expr string) bool {
	return expressionPattern.MatchString(expr)
}

// Evaluate computes the value of a two-operand expression.
//
// Trailing "=" signs are ignored. Operators are tried in the order of
// Operators and the first one that splits expr into exactly two parts is
// used. Both parts must parse as integers.
func Evaluate(expr string) (int, error) {
	body := strings.TrimRight(expr, "=")

	for _, op := range Operators {
		if !strings.Contains(body, op) {
			continue
		}
		operands := strings.Split(body, op)
		if len(operands) != 2 {
			continue
		}

		left, err := strconv.Atoi(strings.TrimSpace(operands[0]))
		if err != nil {
			return 0, fmt.Errorf("%w: %q in %q", ErrBadOperand, operands[0], expr)
		}
		right, err := strconv.Atoi(strings.TrimSpace(operands[1]))
		if err != nil {
			return 0, fmt.Errorf("%w: %q in %q", ErrBadOperand, operands[1], expr)
		}
		return apply(op, left, right)
	}

	return 0, fmt.Errorf("%w: %q", ErrNoOperator, expr)
}

// Solve validates expr and evaluates it.
func Solve(expr string) (int, error) {
	if !Validate(expr) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, expr)
	}
	return Evaluate(expr)
}

func apply(op string, left, right int) (int, error) {
	switch op {
	case "*", "x":
		if left == 0 || right == 0 {
			return 0, nil
		}
		result := left * right
		if result/right != left {
			return 0, fmt.Errorf("%w: %d %s %d", ErrOverflow, left, op, right)
		}
		return result, nil
	case "+":
		result := left + right
		if (right > 0 && result < left) || (right < 0 && result > left) {
			return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, left, right)
		}
		return result, nil
	case "-":
		result := left - right
		if (right < 0 && result < left) || (right > 0 && result > left) {
			return 0, fmt.Errorf("%w: %d - %d", ErrOverflow, left, right)
		}
		return result, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrNoOperator, op)
	}
}
