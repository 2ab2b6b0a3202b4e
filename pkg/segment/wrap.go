package segment

import (
	"strings"

	"github.com/rivo/uniseg"
)

// WrapWords 按空白分词后贪心装行，每行不超过 maxLen 个字符
//
// 单个词本身超过 maxLen 时被硬切成连续的块，这是唯一允许在词内断开的地方；
// 块边界落在字素簇边界上，且不会落在占位符内部。只得到一行时返回 [text]。
func WrapWords(text string, maxLen int) []string {
	if maxLen <= 0 {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if currentLen > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, token := range strings.Fields(text) {
		tokenLen := runeLen(token)
		switch {
		case tokenLen > maxLen:
			flush()
			lines = append(lines, hardSplit(token, maxLen)...)
		case currentLen == 0:
			current.WriteString(token)
			currentLen = tokenLen
		case currentLen+1+tokenLen <= maxLen:
			current.WriteByte(' ')
			current.WriteString(token)
			currentLen += 1 + tokenLen
		default:
			flush()
			current.WriteString(token)
			currentLen = tokenLen
		}
	}
	flush()

	if len(lines) <= 1 {
		return []string{text}
	}
	return lines
}

// hardSplit 把过长的词切成不超过 maxLen 个字符的块
//
// 切分单位是字素簇或完整的占位符；单个单位超过 maxLen 时独占一块。
func hardSplit(token string, maxLen int) []string {
	var chunks []string
	var chunk strings.Builder
	chunkLen := 0

	rest := token
	state := -1
	for rest != "" {
		var unit string
		if _, _, width, ok := parsePlaceholder(rest); ok {
			unit, rest = rest[:width], rest[width:]
			state = -1
		} else {
			unit, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		}

		unitLen := runeLen(unit)
		if chunkLen > 0 && chunkLen+unitLen > maxLen {
			chunks = append(chunks, chunk.String())
			chunk.Reset()
			chunkLen = 0
		}
		chunk.WriteString(unit)
		chunkLen += unitLen
	}
	if chunkLen > 0 {
		chunks = append(chunks, chunk.String())
	}
	return chunks
}
