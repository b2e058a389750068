package engine

// Selection movement over the filtered list. Up and Down wrap around unless
// wrapping is disabled; Left, Right, and the page moves clamp at the edges.

func (s *Session) navUp() {
	// Wrap to the end when already at the top.
	if s.selected == 0 {
		if s.noCycle {
			return
		}
		s.selected = s.filtered
	}
	if s.selected > 0 {
		s.selected--
	}
}

func (s *Session) navDown() {
	if s.filtered == 0 {
		return
	}
	if s.selected < s.filtered-1 {
		s.selected++
	} else if !s.noCycle {
		s.selected = 0
	}
}

func (s *Session) navLeft() {
	if s.selected >= s.layout.rows {
		s.selected -= s.layout.rows
	}
}

// navRight moves one column over. When the move would land past the end but
// a partial final column exists, the selection jumps to the last entry.
func (s *Session) navRight() {
	rows := s.layout.rows
	if s.selected+rows < s.filtered {
		s.selected += rows
		return
	}
	if s.selected < s.filtered-1 {
		col := s.selected / rows
		ncol := s.filtered / rows
		if col != ncol {
			s.selected = s.filtered - 1
		}
	}
}

func (s *Session) navPagePrev() {
	if s.selected < s.layout.maxElements {
		s.selected = 0
	} else {
		s.selected -= s.layout.maxElements
	}
}

func (s *Session) navPageNext() {
	if s.filtered == 0 {
		return
	}
	s.selected += s.layout.maxElements
	if s.selected >= s.filtered {
		s.selected = s.filtered - 1
	}
}

func (s *Session) navFirst() {
	s.selected = 0
}

func (s *Session) navLast() {
	if s.filtered == 0 {
		return
	}
	s.selected = s.filtered - 1
}
