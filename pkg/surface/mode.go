package surface

// EnterSourceMode switches the surface to raw HTML editing: chips revert
// to their literal tokens, the fragment is serialized, and the resulting
// string becomes the editable source text (shown literally, never
// interpreted). Re-entering while already in source mode is a no-op.
func (s *Surface) EnterSourceMode() (string, error) {
	if s.mode == ModeSource {
		return s.source, nil
	}
	ChipsToTokens(s.root)
	src, err := s.HTML()
	if err != nil {
		// Restore the rendered view rather than stranding the session.
		TokensToChips(s.root)
		return "", err
	}
	s.source = src
	s.mode = ModeSource
	return src, nil
}

// SetSource replaces the raw source text while in source mode. Ignored in
// rendered mode.
func (s *Surface) SetSource(src string) {
	if s.mode == ModeSource {
		s.source = src
	}
}

// Source returns the raw source text being edited.
func (s *Surface) Source() string { return s.source }

// ExitSourceMode re-renders the (possibly edited) source as rich text and
// converts any variable tokens back into chips. Exiting without edits
// reproduces the pre-toggle content exactly. The caret lands at the end.
func (s *Surface) ExitSourceMode() error {
	if s.mode == ModeRendered {
		return nil
	}
	if err := s.setFragment(s.source); err != nil {
		return err
	}
	TokensToChips(s.root)
	s.mode = ModeRendered
	s.source = ""
	end := s.Length()
	s.sel = &Selection{Start: end, End: end}
	return nil
}
