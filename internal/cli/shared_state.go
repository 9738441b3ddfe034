package cli

import "github.com/alexanderramin/regimen/internal/domain"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// SessionType is the session currently open in the dashboard.
	SessionType domain.SessionType

	// Banner is the last completion or error message; cleared on the next key.
	Banner string

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator),
// banner (1 line) and status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}

// nextSessionType returns the session type after the current one, wrapping.
func (s *SharedState) nextSessionType() domain.SessionType {
	types := s.App.Catalog.SessionTypes()
	if len(types) == 0 {
		return s.SessionType
	}
	for i, t := range types {
		if t == s.SessionType {
			return types[(i+1)%len(types)]
		}
	}
	return types[0]
}
