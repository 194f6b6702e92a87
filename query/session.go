package query

// Session carries the last-query context: the start and end pages of the
// most recent path search. Follow-up queries ("recommend based on the
// current start page") read from it. A Session belongs to one caller; a
// shared Engine stays race-free because each caller holds its own.
type Session struct {
	StartPage string
	EndPage   string
}

// HasStart reports whether a path query has set a start page.
func (s *Session) HasStart() bool { return s.StartPage != "" }

// HasEnd reports whether a path query has set an end page.
func (s *Session) HasEnd() bool { return s.EndPage != "" }

// PathBetween records start and end in the session and then runs
// ShortestPath. The session is updated even when the search fails, matching
// the last-entered-pages semantics of the interactive surface.
func (e *Engine) PathBetween(s *Session, start, end string) ([]string, error) {
	s.StartPage = start
	s.EndPage = end
	return e.ShortestPath(start, end)
}
