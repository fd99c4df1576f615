package services

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// definitionTokens splits a definition into lower-cased word tokens.
func definitionTokens(definition string) []string {
	return strings.FieldsFunc(strings.ToLower(definition), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// DefinitionOverlap scores how similar two definitions are on a 0..1 scale.
// Either side being empty scores 0.
func DefinitionOverlap(a, b string) float64 {
	left, right := definitionTokens(a), definitionTokens(b)
	if len(left) == 0 || len(right) == 0 {
		return 0
	}
	return difflib.NewMatcher(left, right).Ratio()
}

// SharedTerms returns the runs of words the two definitions have in common,
// in the order they appear in a.
func SharedTerms(a, b string) []string {
	left, right := definitionTokens(a), definitionTokens(b)
	if len(left) == 0 || len(right) == 0 {
		return nil
	}

	var terms []string
	for _, block := range difflib.NewMatcher(left, right).GetMatchingBlocks() {
		if block.Size == 0 {
			continue
		}
		terms = append(terms, strings.Join(left[block.A:block.A+block.Size], " "))
	}
	return terms
}
