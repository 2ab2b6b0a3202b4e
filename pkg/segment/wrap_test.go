package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const foxText = "the quick brown fox jumps over the lazy dog and then keeps running far beyond the hills today"

func TestWrapWords(t *testing.T) {
	t.Run("Two Lines", func(t *testing.T) {
		lines := WrapWords(foxText, 60)
		assert.Equal(t, []string{
			"the quick brown fox jumps over the lazy dog and then keeps",
			"running far beyond the hills today",
		}, lines)
	})

	t.Run("Line Budget", func(t *testing.T) {
		lines := WrapWords(foxText, 40)
		require.Len(t, lines, 3)
		for _, line := range lines {
			assert.LessOrEqual(t, runeLen(line), 40)
		}
		assert.Equal(t, foxText, strings.Join(lines, " "))
	})

	t.Run("Single Line Returns Input", func(t *testing.T) {
		input := "  fits   on one line  "
		assert.Equal(t, []string{input}, WrapWords(input, 40))
	})

	t.Run("Hard Split Long Token", func(t *testing.T) {
		token := strings.Repeat("a", 100)
		assert.Equal(t, []string{
			strings.Repeat("a", 40),
			strings.Repeat("a", 40),
			strings.Repeat("a", 20),
		}, WrapWords(token, 40))
	})

	t.Run("Hard Split Between Words", func(t *testing.T) {
		long := strings.Repeat("x", 50)
		assert.Equal(t, []string{
			"short",
			strings.Repeat("x", 40),
			strings.Repeat("x", 10),
			"tail",
		}, WrapWords("short "+long+" tail", 40))
	})

	t.Run("Hard Split Keeps Grapheme Clusters", func(t *testing.T) {
		token := strings.Repeat("👍🏽", 30)
		lines := WrapWords(token, 40)

		require.Len(t, lines, 2)
		assert.Equal(t, strings.Repeat("👍🏽", 20), lines[0])
		assert.Equal(t, strings.Repeat("👍🏽", 10), lines[1])
	})

	t.Run("Hard Split Keeps Placeholders", func(t *testing.T) {
		ph := placeholder(KindEllipsisASCII, 0)
		token := strings.Repeat("x", 35) + ph + "yy"
		lines := WrapWords(token, 40)

		assert.Equal(t, []string{strings.Repeat("x", 35), ph + "yy"}, lines)
	})

	t.Run("Invalid Budget", func(t *testing.T) {
		assert.Equal(t, []string{foxText}, WrapWords(foxText, 0))
	})
}
