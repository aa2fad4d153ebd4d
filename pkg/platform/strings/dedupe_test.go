package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "removes duplicates preserving first occurrence",
			input: []string{"foo", "bar", "foo"},
			want:  []string{"foo", "bar"},
		},
		{
			name:  "trims whitespace before comparing",
			input: []string{"  foo ", "foo", "bar"},
			want:  []string{"foo", "bar"},
		},
		{
			name:  "drops empty and whitespace-only entries",
			input: []string{"", "  ", "foo"},
			want:  []string{"foo"},
		},
		{
			name:  "case sensitive",
			input: []string{"Go", "go"},
			want:  []string{"Go", "go"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitCommaList(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, SplitCommaList("Go, SQL, , Go"))
	assert.Nil(t, SplitCommaList("   "))
	assert.Nil(t, SplitCommaList(""))
	assert.Equal(t, []string{"single"}, SplitCommaList("single"))
}
