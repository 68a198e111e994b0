package textclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "urls punctuation and digits removed",
			input: "Check http://x.com NOW 123!!",
			want:  "Check NOW",
		},
		{
			name:  "https and ftp schemes removed",
			input: "see https://example.com/a?b=c and ftp://host/file now",
			want:  "see and now",
		},
		{
			name:  "whitespace collapsed and trimmed",
			input: "  hello\t\nworld  ",
			want:  "hello world",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only noise",
			input: "123 !!! 456",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWords int
		want     string
	}{
		{name: "truncates to max words", input: "a b c d", maxWords: 2, want: "a b"},
		{name: "shorter input unchanged", input: "a b", maxWords: 5, want: "a b"},
		{name: "empty input", input: "", maxWords: 5, want: ""},
		{name: "exact boundary", input: "a b c", maxWords: 3, want: "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxWords))
		})
	}
}
