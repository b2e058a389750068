package match

import "github.com/texttheater/golang-levenshtein/levenshtein"

// Classic edit distance: insert, delete, and substitute all cost one. The
// library's DefaultOptions price a substitution as two, which is not what
// similarity ranking wants.
var distanceOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// Distance returns the edit distance between query and candidate, measured
// over code points with no transpositions.
func Distance(query, candidate string) int {
	return levenshtein.DistanceForStrings([]rune(query), []rune(candidate), distanceOptions)
}
