// Package expression cleans, validates and evaluates the two-operand
// arithmetic expressions found on captcha images.
//
// An expression is one or more digits, exactly one operator, one or more
// digits and an optional trailing "=":
//
//	1+2=
//	5x6
//	9-4=
//
// # Operators
//
// Four operator symbols are recognized. Multiplication has two spellings:
//   - "+" addition
//   - "-" subtraction
//   - "*" multiplication
//   - "x" multiplication (the letter OCR usually reports for a times sign)
//
// # Pipeline
//
// Raw OCR text goes through three steps:
//
//  1. Clean: map full-width lookalikes to ASCII, drop spaces and every
//     character outside the expression alphabet.
//  2. Validate: match the strict expression grammar.
//  3. Evaluate: split on the operator and compute the integer result.
//
// Clean never fails. Text that still carries zero or several operators
// after cleaning is returned as-is so a human can correct it.
//
// There is no precedence, no parentheses, no division and no negative
// operands.
package expression
