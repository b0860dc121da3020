package textx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello\nworld\t!", SanitizeText("he\x00llo\nwo\x7frld\t!"))
	assert.Equal(t, "", SanitizeText("  \x01 "))
}

func TestSingleLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"Go,\nKubernetes\n\n  SQL", "Go, Kubernetes SQL"},
		{"\tlead a team\r\n", "lead a team"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SingleLine(tt.in))
	}
}

func TestNormalizeNewlines(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a\nb\nc", NormalizeNewlines("a\r\nb\rc"))
	assert.Equal(t, "plain\n", NormalizeNewlines("plain\n"))
}
