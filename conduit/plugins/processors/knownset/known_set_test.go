package knownset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	s := Parse([]byte("https://a/1\r\n\n  https://a/2  \n\n"))
	assert.Equal(t, []string{"https://a/1", "https://a/2"}, s.Entries)
	assert.True(t, s.Contains("https://a/2"))
	assert.False(t, s.Contains("https://a/3"))
	assert.Equal(t, 2, s.Len())
}

func TestParseEmpty(t *testing.T) {
	s := Parse(nil)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{"x"}, s.Delta([]string{"x"}))
}

func TestDelta(t *testing.T) {
	tests := []struct {
		name     string
		known    string
		feed     []string
		expected []string
	}{
		{"all known", "u1\nu2", []string{"u2", "u1"}, []string{}},
		{"feed order", "u2", []string{"u3", "u2", "u1"}, []string{"u3", "u1"}},
		{"each once", "", []string{"u1", "u1", "u2"}, []string{"u1", "u2"}},
		{"empty feed", "u1", nil, []string{}},
		{"no normalization", "https://a/1", []string{"https://a/1/"}, []string{"https://a/1/"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Parse([]byte(tc.known)).Delta(tc.feed))
		})
	}
}

func TestSerialize(t *testing.T) {
	assert.Equal(t, "a\nb", string(Serialize([]string{"a", "b"})))
	assert.Equal(t, "", string(Serialize(nil)))
}
