package session

import "strings"

// BackEntry is the synthetic last entry of every results list.
const BackEntry = "< Back"

// ResultSet is one search outcome: the matched remote paths in
// discovery order plus the display labels derived from them. It stays
// alive across "Choose Another File" round trips and dies when the
// query, platform or session moves on.
type ResultSet struct {
	Platform string
	Query    string
	BaseDir  string

	// Labels holds one display entry per match, the remote path with
	// the platform base stripped. Order matches Paths.
	Labels []string

	paths   []string
	byLabel map[string]string
}

// NewResultSet builds a result set for matches found under baseDir.
func NewResultSet(platform, query, baseDir string, paths []string) *ResultSet {
	rs := &ResultSet{
		Platform: platform,
		Query:    query,
		BaseDir:  baseDir,
		Labels:   make([]string, 0, len(paths)),
		paths:    paths,
		byLabel:  make(map[string]string, len(paths)),
	}
	prefix := strings.TrimSuffix(baseDir, "/") + "/"
	for _, p := range paths {
		label := strings.TrimPrefix(p, prefix)
		rs.Labels = append(rs.Labels, label)
		rs.byLabel[label] = p
	}
	return rs
}

// Len returns the number of matches.
func (rs *ResultSet) Len() int {
	return len(rs.paths)
}

// RemoteFor maps a display label back to its full remote path.
func (rs *ResultSet) RemoteFor(label string) (string, bool) {
	p, ok := rs.byLabel[label]
	return p, ok
}

// Options returns the menu entries for the results screen: every label
// followed by the synthetic back entry.
func (rs *ResultSet) Options() []string {
	out := make([]string, 0, len(rs.Labels)+1)
	out = append(out, rs.Labels...)
	return append(out, BackEntry)
}

// Selection tracks which result labels are marked for a batch download.
// Membership is by label; ordering comes from the result set at batch
// start, never from toggle order.
type Selection struct {
	members map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{members: make(map[string]struct{})}
}

// Toggle flips membership for a label and reports whether the label is
// selected afterwards.
func (s *Selection) Toggle(label string) bool {
	if _, ok := s.members[label]; ok {
		delete(s.members, label)
		return false
	}
	s.members[label] = struct{}{}
	return true
}

// Has reports whether a label is selected.
func (s *Selection) Has(label string) bool {
	_, ok := s.members[label]
	return ok
}

// Len returns the number of selected labels.
func (s *Selection) Len() int {
	return len(s.members)
}

// Clear removes every selected label.
func (s *Selection) Clear() {
	for label := range s.members {
		delete(s.members, label)
	}
}

// Ordered returns the selected labels in the order they appear in the
// given display list, so batches download top to bottom as shown.
func (s *Selection) Ordered(labels []string) []string {
	out := make([]string, 0, len(s.members))
	for _, label := range labels {
		if s.Has(label) {
			out = append(out, label)
		}
	}
	return out
}
