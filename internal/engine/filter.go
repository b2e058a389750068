package engine

import (
	"sort"

	"github.com/kk-code-lab/tmenu/internal/match"
)

const (
	// filterChunkSize is the target entries-per-worker for a matching pass.
	filterChunkSize = 500
	// asciiChunkSize is the coarser target for the one-time ASCII scan,
	// which is much cheaper per entry.
	asciiChunkSize = 5000
)

// filterChunk is one worker's contiguous slice of the entry index space.
// dst is a disjoint window of the shared line map, so workers never write
// over each other; matches land packed at its front in entry order.
type filterChunk struct {
	start int
	count int
	dst   []int
}

// classifyEntries records which entries need full Unicode matching. Runs
// once per source; the flags feed every later filter pass.
func (s *Session) classifyEntries() {
	n := s.source.Count()
	s.notASCII = make([]bool, n)
	if n == 0 {
		return
	}
	nt := n / asciiChunkSize
	if nt < 1 {
		nt = 1
	}
	step := (n + nt) / nt
	var tasks []func()
	for start := 0; start < n; start += step {
		stop := start + step
		if stop > n {
			stop = n
		}
		start, stop := start, stop
		tasks = append(tasks, func() {
			for i := start; i < stop; i++ {
				s.notASCII[i] = s.source.NotASCII(i)
			}
		})
	}
	s.pool.Run(tasks)
}

// refilter recomputes the filtered index list for the current query, fanned
// out across the pool in contiguous chunks. Compaction walks the chunks in
// index order, so the result is identical to a single-threaded scan no
// matter how many workers ran.
func (s *Session) refilter() {
	n := s.source.Count()
	if cap(s.lineMap) < n {
		s.lineMap = make([]int, n)
	} else {
		s.lineMap = s.lineMap[:n]
	}

	tokens := match.Tokenize(s.query.String(), s.caseSensitive)
	if len(tokens) == 0 {
		// Blank query: identity mapping, no workers needed.
		for i := 0; i < n; i++ {
			s.lineMap[i] = i
		}
		s.filtered = n
	} else {
		if s.sortByDist && len(s.distance) < n {
			s.distance = make([]int, n)
		}
		queryText := s.query.String()

		nt := n / filterChunkSize
		if nt < 1 {
			nt = 1
		}
		step := (n + nt) / nt
		chunks := make([]filterChunk, 0, nt)
		for start := 0; start < n; start += step {
			stop := start + step
			if stop > n {
				stop = n
			}
			chunks = append(chunks, filterChunk{start: start, dst: s.lineMap[start:stop]})
		}

		tasks := make([]func(), len(chunks))
		for ci := range chunks {
			c := &chunks[ci]
			tasks[ci] = func() { s.filterChunk(c, tokens, queryText) }
		}
		s.pool.Run(tasks)

		// Pack each chunk's matches down against the previous chunk's.
		j := 0
		for ci := range chunks {
			c := &chunks[ci]
			if j != c.start {
				copy(s.lineMap[j:j+c.count], s.lineMap[c.start:c.start+c.count])
			}
			j += c.count
		}
		if s.sortByDist {
			matched := s.lineMap[:j]
			sort.SliceStable(matched, func(a, b int) bool {
				return s.distance[matched[a]] < s.distance[matched[b]]
			})
		}
		s.filtered = j
	}

	if s.filtered == 0 {
		s.selected = 0
	} else if s.selected >= s.filtered {
		s.selected = s.filtered - 1
	}

	s.layout.Reflow(s.filtered)
	s.refilterNeeded = false
	s.fullRedraw = true

	if s.autoSelect && s.filtered == 1 && n > 1 {
		s.finish(OutcomeAccept{Entry: s.lineMap[s.selected]})
	}
}

func (s *Session) filterChunk(c *filterChunk, tokens []match.Token, queryText string) {
	for off := range c.dst {
		i := c.start + off
		if !s.source.MatchTokens(i, tokens, s.notASCII[i], s.caseSensitive) {
			continue
		}
		if s.sortByDist {
			s.distance[i] = match.Distance(queryText, s.source.Completion(i))
		}
		c.dst[c.count] = i
		c.count++
	}
}
