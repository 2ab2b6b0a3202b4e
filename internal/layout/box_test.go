package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsSegmentation(t *testing.T) {
	box := DefaultBox()

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"Short ASCII", "Hello there", false},
		{"Long ASCII", strings.Repeat("a", 51), true},
		{"At threshold but too wide", strings.Repeat("a", 45), true},
		{"CJK fits", "今天晚上我们一起去看电影吧", false},
		{"CJK too wide", strings.Repeat("好", 22), true},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, box.NeedsSegmentation(tt.text))
		})
	}
}

func TestOverflows(t *testing.T) {
	box := Box{Width: 10, Threshold: 50}
	assert.False(t, box.Overflows("0123456789"))
	assert.True(t, box.Overflows("0123456789x"))
	assert.True(t, box.Overflows("一二三四五六"))
	assert.False(t, Box{Threshold: 50}.Overflows(strings.Repeat("x", 200)))
}

func TestMeasure(t *testing.T) {
	metrics := Measure([]string{"abc", "你好", ""})
	assert.Equal(t, []LineMetrics{
		{Text: "abc", Runes: 3, Width: 3},
		{Text: "你好", Runes: 2, Width: 4},
		{Text: "", Runes: 0, Width: 0},
	}, metrics)
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", Pad("ab", 5))
	assert.Equal(t, "你好 ", Pad("你好", 5))
	padded := Pad("abcdefghij", 5)
	assert.Equal(t, 5, width.StringWidth(padded))
	assert.True(t, strings.HasSuffix(padded, "…"))
}
