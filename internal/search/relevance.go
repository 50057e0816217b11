// Package search builds the relevance ordering for keyword catalog queries.
package search

import (
	"fmt"
	"slices"
	"strings"
)

const (
	TitleWeight       = 3
	BrandWeight       = 2
	TagWeight         = 2
	DescriptionWeight = 1
	ExactTitleBonus   = 5

	maxTerms = 8
)

// Terms splits a query into lower-cased, de-duplicated keywords, keeping at
// most the first eight.
func Terms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))

	for _, f := range fields {
		if len(terms) == maxTerms {
			break
		}

		if !slices.Contains(terms, f) {
			terms = append(terms, f)
		}
	}

	return terms
}

// EscapeLike quotes the LIKE wildcards in a user supplied term.
func EscapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// TagMatch is the condition for a case-insensitive tag equal to the
// lower-cased value bound at placeholder n.
func TagMatch(n int) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(p.tags) t WHERE lower(t) = $%d)", n)
}

// Relevance renders a SQL score for rows of products aliased p. Each term adds
// the weight of every field containing it and an exact title match adds a
// bonus. bind appends a query argument and returns its placeholder number.
// An empty query yields "".
func Relevance(query string, bind func(value any) int) string {
	terms := Terms(query)
	if len(terms) == 0 {
		return ""
	}

	parts := make([]string, 0, len(terms)*4+1)

	for _, term := range terms {
		like := bind("%" + EscapeLike(term) + "%")
		exact := bind(term)

		parts = append(parts,
			fmt.Sprintf("CASE WHEN p.title ILIKE $%d THEN %d ELSE 0 END", like, TitleWeight),
			fmt.Sprintf("CASE WHEN COALESCE(p.brand, '') ILIKE $%d THEN %d ELSE 0 END", like, BrandWeight),
			fmt.Sprintf("CASE WHEN %s THEN %d ELSE 0 END", TagMatch(exact), TagWeight),
			fmt.Sprintf("CASE WHEN COALESCE(p.description, '') ILIKE $%d THEN %d ELSE 0 END", like, DescriptionWeight),
		)
	}

	parts = append(parts,
		fmt.Sprintf("CASE WHEN lower(p.title) = $%d THEN %d ELSE 0 END", bind(strings.Join(terms, " ")), ExactTitleBonus))

	return "(" + strings.Join(parts, " + ") + ")"
}
