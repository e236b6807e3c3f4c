package knownset

import "strings"

// Set is a collection of previously synchronized entries. Membership ignores
// order, Entries keeps the document order.
type Set struct {
	Entries []string
	members map[string]struct{}
}

// Parse reads a newline delimited known set document. Lines are trimmed and
// blank lines dropped. Windows line endings are accepted.
func Parse(doc []byte) *Set {
	s := &Set{members: make(map[string]struct{})}
	for _, line := range strings.Split(string(doc), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.Entries = append(s.Entries, line)
		s.members[line] = struct{}{}
	}
	return s
}

// Contains reports whether entry is known. Comparison is exact, no URL
// normalization takes place.
func (s *Set) Contains(entry string) bool {
	_, ok := s.members[entry]
	return ok
}

// Len is the number of entries, duplicates included.
func (s *Set) Len() int {
	return len(s.Entries)
}

// Delta returns the entries of feed that are not known, in feed order and
// each at most once.
func (s *Set) Delta(feed []string) []string {
	seen := make(map[string]struct{}, len(feed))
	delta := make([]string, 0)
	for _, entry := range feed {
		if s.Contains(entry) {
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		delta = append(delta, entry)
	}
	return delta
}

// Serialize joins entries into a known set document.
func Serialize(entries []string) []byte {
	return []byte(strings.Join(entries, "\n"))
}
