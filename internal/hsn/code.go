// Package hsn holds the lexical rules for Harmonized System Nomenclature
// codes: fixed digit lengths, leading zeros significant, never numeric.
package hsn

import (
	"errors"
	"fmt"
	"strings"
)

// ValidLengths are the only accepted code lengths, ascending.
var ValidLengths = []int{2, 4, 6, 8}

// Rejection reasons surfaced to callers. ReasonNotFound is a contract string:
// the batch summary and the invalid-attempt counter key on it verbatim.
const (
	ReasonEmpty      = "Empty input"
	ReasonNonNumeric = "Non-numeric characters detected"
	ReasonNotFound   = "HSN code not found"
)

// FormatErrorKind distinguishes the lexical failure modes.
type FormatErrorKind int

const (
	FormatEmpty FormatErrorKind = iota
	FormatNonNumeric
	FormatInvalidLength
)

// FormatError reports why a raw input is not a well-formed code.
type FormatError struct {
	Kind   FormatErrorKind
	Reason string
}

func (e *FormatError) Error() string { return e.Reason }

// AsFormatError unwraps err into a *FormatError when it is one.
func AsFormatError(err error) (*FormatError, bool) {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// CheckFormat applies the lexical rules in order, first failure wins:
// trim, non-empty, all digits, length in {2,4,6,8}. It returns the
// trimmed code on success.
func CheckFormat(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", &FormatError{Kind: FormatEmpty, Reason: ReasonEmpty}
	}
	if !allDigits(code) {
		return "", &FormatError{Kind: FormatNonNumeric, Reason: ReasonNonNumeric}
	}
	if !validLength(len(code)) {
		return "", &FormatError{
			Kind:   FormatInvalidLength,
			Reason: fmt.Sprintf("Invalid length: %d (expected: 2,4,6,8)", len(code)),
		}
	}
	return code, nil
}

// ParentPrefixes returns the proper-prefix ancestors of a well-formed code,
// ascending by length: the 2, 4 and 6 digit prefixes strictly shorter than
// the code itself. A 2-digit code has no ancestors.
func ParentPrefixes(code string) []string {
	prefixes := make([]string, 0, 3)
	for _, l := range ValidLengths {
		if l >= len(code) {
			break
		}
		prefixes = append(prefixes, code[:l])
	}
	return prefixes
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validLength(n int) bool {
	for _, l := range ValidLengths {
		if n == l {
			return true
		}
	}
	return false
}
