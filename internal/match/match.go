// Package match implements the token matcher used by the filter engine:
// whitespace-delimited query tokens, collation-keyed substring search with an
// ASCII fast path, and the edit-distance metric used for similarity ranking.
package match

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Token is one whitespace-delimited query fragment prepared for substring
// search. The key is the collation key (case-folded, NFC) when matching is
// case-insensitive, the raw fragment otherwise.
type Token struct {
	raw      string
	key      string
	asciiKey string // lowered form when key is pure ASCII, "" otherwise
}

// Raw returns the fragment as the user typed it.
func (t Token) Raw() string { return t.raw }

// Key returns the prepared comparison form of the token.
func (t Token) Key() string { return t.key }

// Caser values are stateful, so concurrent filter workers each borrow one.
var foldPool = sync.Pool{
	New: func() any {
		c := cases.Fold()
		return &c
	},
}

func foldCase(s string) string {
	c := foldPool.Get().(*cases.Caser)
	folded := c.String(s)
	foldPool.Put(c)
	return folded
}

// CollateKey reduces text to the comparable form tokens are searched in:
// Unicode case-folded and NFC-normalized when case-insensitive, verbatim
// otherwise. Folding before normalizing keeps substring relationships
// consistent between tokens and candidate text.
func CollateKey(text string, caseSensitive bool) string {
	if caseSensitive {
		return text
	}
	if IsASCII(text) {
		return strings.ToLower(text)
	}
	return norm.NFC.String(foldCase(text))
}

// Tokenize splits query on runs of whitespace and prepares each fragment for
// matching. A blank query yields no tokens, which matches everything.
func Tokenize(query string, caseSensitive bool) []Token {
	var tokens []Token
	start := -1
	for idx, r := range query {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, newToken(query[start:idx], caseSensitive))
				start = -1
			}
			continue
		}
		if start == -1 {
			start = idx
		}
	}
	if start >= 0 {
		tokens = append(tokens, newToken(query[start:], caseSensitive))
	}
	return tokens
}

func newToken(raw string, caseSensitive bool) Token {
	t := Token{raw: raw, key: CollateKey(raw, caseSensitive)}
	if !caseSensitive && IsASCII(t.key) {
		t.asciiKey = t.key
	}
	return t
}

// Text reports whether the token occurs in text. notASCII routes pure-ASCII
// candidates through a byte-wise scan that allocates nothing; everything else
// goes through the full collation key.
func (t Token) Text(text string, notASCII, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(text, t.key)
	}
	if !notASCII && t.asciiKey != "" {
		return asciiContainsFold(text, t.asciiKey)
	}
	return strings.Contains(CollateKey(text, false), t.key)
}

// Fields reports whether every token occurs in at least one of the entry's
// searchable fields. Tokens may be satisfied by different fields; a single
// token never has to match more than one.
func Fields(tokens []Token, fields []string, notASCII, caseSensitive bool) bool {
	for _, tok := range tokens {
		found := false
		for _, f := range fields {
			if f == "" {
				continue
			}
			if tok.Text(f, notASCII, caseSensitive) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsASCII reports whether s contains only 7-bit bytes.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// asciiContainsFold is a case-insensitive substring scan over ASCII haystack
// bytes. needle must already be lowered.
func asciiContainsFold(haystack, needle string) bool {
	if len(needle) == 0 {
		return true
	}
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		j := 0
		for j < len(needle) {
			c := haystack[i+j]
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != needle[j] {
				break
			}
			j++
		}
		if j == len(needle) {
			return true
		}
	}
	return false
}
