package client

// Selection tracks which videos are selected for processing. Membership is
// a set: selecting an already-selected id is a no-op, so no duplicates.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection creates an empty Selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips one video's selection state and reports the new state.
func (s *Selection) Toggle(videoID string) bool {
	if _, ok := s.ids[videoID]; ok {
		delete(s.ids, videoID)
		return false
	}
	s.ids[videoID] = struct{}{}
	return true
}

// SelectAll replaces the selection with all the given ids.
func (s *Selection) SelectAll(videoIDs []string) {
	s.ids = make(map[string]struct{}, len(videoIDs))
	for _, id := range videoIDs {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Selected reports whether a video is selected.
func (s *Selection) Selected(videoID string) bool {
	_, ok := s.ids[videoID]
	return ok
}

// Len reports how many videos are selected.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in the order they appear in reference,
// which callers pass to keep selection output stable.
func (s *Selection) IDs(reference []string) []string {
	out := make([]string, 0, len(s.ids))
	for _, id := range reference {
		if _, ok := s.ids[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
