// Package similarity computes fuzzy-match scores between guessed and true
// strings. Comparison is accent- and case-insensitive: both inputs are
// decomposed (NFD), stripped of combining marks, lowercased, and collapsed to
// single spaces before measuring Levenshtein distance.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxScore is the score for a perfect (post-normalization) match.
const MaxScore = 200

// stripMarks removes combining marks left behind by NFD decomposition,
// turning "é" into "e" and "ñ" into "n".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize prepares a string for comparison: accents stripped, runs of
// whitespace collapsed to one space, trimmed, lowercased.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Malformed input falls back to the raw string; distance still works.
		out = s
	}
	out = strings.Join(strings.Fields(out), " ")
	return strings.ToLower(out)
}

// NameScore scores how closely guess matches truth, in [0, MaxScore].
// The edit distance is normalized by the truth's rune length, so the score is
// not symmetric: NameScore("Ana", "anita") and NameScore("anita", "Ana")
// may differ.
//
// An empty normalized truth means there is nothing to guess: the score is
// MaxScore when the guess is also empty and 0 otherwise.
func NameScore(truth, guess string) int {
	nt := Normalize(truth)
	ng := Normalize(guess)

	if nt == "" {
		if ng == "" {
			return MaxScore
		}
		return 0
	}

	d := levenshtein.ComputeDistance(nt, ng)
	length := utf8.RuneCountInString(nt)
	if d >= length {
		return 0
	}
	// Integer arithmetic keeps the floor exact; float rounding would shave
	// a point off scores like 3/5 of the maximum.
	return (length - d) * MaxScore / length
}
