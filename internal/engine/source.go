package engine

import "github.com/kk-code-lab/tmenu/internal/match"

// Source provides the candidate entries for one session. Implementations
// must stay stable for the session's lifetime: same count, same per-index
// content. Mutations (a deleted entry, a rescan) require the caller to
// build a fresh session.
//
// MatchTokens receives the entry's cached non-ASCII flag back so sources can
// route matching through the cheap ASCII path without re-scanning the text.
type Source interface {
	Count() int
	Text(i int) string
	Completion(i int) string
	MatchTokens(i int, tokens []match.Token, notASCII, caseSensitive bool) bool
	NotASCII(i int) bool
}
