package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityEvaluator(t *testing.T) {
	q := DefaultQualityEvaluator()

	tests := []struct {
		name     string
		segments []string
		expected bool
	}{
		{"No segments", nil, true},
		{"Single segment", []string{"x"}, true},
		{"Too many segments", []string{"first segment", "second segment", "third segment"}, false},
		{"Empty segment", []string{"   ", "something long enough"}, false},
		{"Short segment ratio", []string{"short", "this is a long enough segment"}, false},
		{"Trailing hyphen", []string{"well balanced line one-", "another balanced line"}, false},
		{"Leading hyphen", []string{"-starts with a hyphen", "another balanced line"}, false},
		{"Unbalanced", []string{strings.Repeat("a", 50), "bbbbbbbb"}, false},
		{"Balanced", []string{strings.Repeat("a", 30), strings.Repeat("b", 20)}, true},
		{"Trimmed lengths", []string{"  first line here  ", "second line here"}, true},
		{"CJK counted by rune", []string{"今天晚上我们一起去看电影吧", "听说这部片子的评价非常好"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, q.Accept(tt.segments))
		})
	}
}

func TestQualityEvaluatorCustomThresholds(t *testing.T) {
	q := QualityEvaluator{
		MinSegmentLength:  2,
		ShortSegmentRatio: 0.5,
		BalanceMinRatio:   0.1,
		BalanceMaxRatio:   2.0,
	}

	assert.True(t, q.Accept([]string{"ok", "a somewhat longer line"}))
	assert.False(t, DefaultQualityEvaluator().Accept([]string{"ok", "a somewhat longer line"}))
}
