package segment

import (
	"strings"
	"unicode/utf8"
)

// runeLen 以字符（rune）计的长度，所有长度阈值都按此计算
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isASCIIUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// appendTrimmed 去掉首尾空白后追加非空片段
func appendTrimmed(parts []string, piece string) []string {
	if piece = strings.TrimSpace(piece); piece != "" {
		parts = append(parts, piece)
	}
	return parts
}

// splitAfter 在每个满足 isMark 的字符之后切分，丢弃空片段
func splitAfter(text string, isMark func(rune) bool) []string {
	var parts []string
	start := 0
	for i, r := range text {
		if !isMark(r) {
			continue
		}
		end := i + utf8.RuneLen(r)
		parts = appendTrimmed(parts, text[start:end])
		start = end
	}
	return appendTrimmed(parts, text[start:])
}
