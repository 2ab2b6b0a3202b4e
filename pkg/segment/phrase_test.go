package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPhrases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Two clauses",
			input:    "first part here, second part here",
			expected: []string{"first part here,", "second part here"},
		},
		{
			name:     "Two clauses with a short one",
			input:    "yes, second part here",
			expected: []string{"yes,", "second part here"},
		},
		{
			name:     "Over fragmented",
			input:    "a, b, c",
			expected: []string{"a, b, c"},
		},
		{
			name:     "Three long clauses",
			input:    "this clause is long enough, this one is also long enough; and the third one is long too",
			expected: []string{"this clause is long enough,", "this one is also long enough;", "and the third one is long too"},
		},
		{
			name:     "Full width marks",
			input:    "你好世界，今天天气很好：我们出去走走",
			expected: []string{"你好世界，今天天气很好：我们出去走走"},
		},
		{
			name:     "Full width two clauses",
			input:    "你好世界，今天天气很好",
			expected: []string{"你好世界，", "今天天气很好"},
		},
		{
			name:     "No marks",
			input:    "nothing to split here",
			expected: []string{"nothing to split here"},
		},
		{
			name:     "Only marks",
			input:    " , ",
			expected: []string{","},
		},
		{
			name:     "Whitespace",
			input:    "   ",
			expected: []string{"   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitPhrases(tt.input, 15))
		})
	}
}
