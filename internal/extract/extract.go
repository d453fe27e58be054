// Package extract pulls HSN code candidates out of free-form chat text.
// A token pass stands in for the original NLP tagger: digit runs of a
// valid code length are candidates, everything else that looks deliberate
// is reported back so the chat reply can call it out.
package extract

import (
	"sort"
	"strings"
	"unicode"
)

// filler words that show up in chat phrasing and carry no signal.
// Tokens matching these are dropped silently instead of echoed as invalid.
var fillerWords = map[string]struct{}{
	"a": {}, "about": {}, "an": {}, "and": {}, "are": {}, "check": {},
	"code": {}, "codes": {}, "describe": {}, "find": {}, "for": {},
	"give": {}, "hsn": {}, "is": {}, "it": {}, "list": {}, "me": {},
	"my": {}, "of": {}, "or": {}, "please": {}, "show": {}, "tell": {},
	"the": {}, "this": {}, "to": {}, "valid": {}, "invalid": {},
	"what": {}, "whether": {}, "you": {},
}

var validLengths = map[int]struct{}{2: {}, 4: {}, 6: {}, 8: {}}

// Candidates splits message into tokens and classifies them. It returns
// candidate codes (digit tokens of length 2/4/6/8, deduplicated, sorted)
// and the rejected tokens worth echoing back, also deduplicated and sorted.
func Candidates(message string) (codes []string, rejected []string) {
	codeSet := make(map[string]struct{})
	rejectedSet := make(map[string]struct{})

	for _, token := range tokenize(message) {
		if isDigits(token) {
			if _, ok := validLengths[len(token)]; ok {
				codeSet[token] = struct{}{}
			} else {
				rejectedSet[token+" (invalid format - must be 2,4,6, or 8 digits)"] = struct{}{}
			}
			continue
		}
		word := strings.ToLower(token)
		if _, filler := fillerWords[word]; filler {
			continue
		}
		if hasLetter(token) {
			rejectedSet[token] = struct{}{}
		}
	}

	return sortedKeys(codeSet), sortedKeys(rejectedSet)
}

// tokenize normalizes separator punctuation to spaces and splits on
// whitespace. The fullwidth comma shows up in pasted spreadsheet text.
func tokenize(message string) []string {
	normalized := strings.Map(func(r rune) rune {
		switch r {
		case ',', '，', ';', '/', '+', '|', '-':
			return ' '
		}
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, message)
	return strings.Fields(normalized)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
